package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/avencello/inkfeed/internal/client/api"
	"github.com/avencello/inkfeed/internal/client/models"
)

// Feed refreshes the feed from the server and shows the current page.
func (a *App) Feed(ctx context.Context) error {
	if _, err := a.store.Refresh(ctx); err != nil {
		printlnFn("Could not load posts:", errText(err))
		return err
	}
	a.showPage()
	return nil
}

// Search sets the feed filter. Changing the query resets the page to 1.
func (a *App) Search(ctx context.Context, args []string) error {
	query := strings.Join(args, " ")
	if query != a.query {
		a.query = query
		a.page = 1
	}
	a.showPage()
	return nil
}

// Page jumps to a page of the current filtered view.
func (a *App) Page(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: page <n>")
		return nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		printlnFn("Usage: page <n>")
		return nil
	}
	a.page = n
	a.showPage()
	return nil
}

func (a *App) showPage() {
	page := a.store.FilterAndPaginate(a.query, a.config.PageSize, a.page)
	if page.TotalPages == 0 {
		printlnFn("No posts found. Try a different search!")
		return
	}
	// Reflect the clamping so the next "page" command starts from reality.
	if a.page > page.TotalPages {
		a.page = page.TotalPages
	}
	if a.page < 1 {
		a.page = 1
	}

	userID := ""
	if sess := a.sessions.Current(); sess.Authenticated() {
		userID = sess.Identity.ID
	}
	for i := range page.Items {
		p := &page.Items[i]
		marker := " "
		if userID != "" && p.BookmarkedBy(userID) {
			marker = "*"
		}
		printlnFn(fmt.Sprintf("%s %s  %s — by %s (%d views, %d comments)",
			marker, p.ID, p.Title, p.Author.Name, p.Views, len(p.Comments)))
	}
	printlnFn(fmt.Sprintf("page %d/%d", a.page, page.TotalPages))
}

// Read shows a single post with its comments, fetching the latest copy from
// the server and updating the cache.
func (a *App) Read(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: read <id>")
		return nil
	}
	post, err := a.client.Post(ctx, args[0])
	if err != nil {
		printlnFn("Could not load post:", errText(err))
		return err
	}
	a.store.UpsertLocal(post.Clone())
	a.printPost(post)
	return nil
}

func (a *App) printPost(p *models.Post) {
	printlnFn("#", p.Title)
	printlnFn(fmt.Sprintf("by %s on %s — %d views", p.Author.Name, p.CreatedAt.Format("2006-01-02"), p.Views))
	if len(p.Tags) > 0 {
		printlnFn("tags:", strings.Join(p.Tags, ", "))
	}
	printlnFn(p.Content)
	printlnFn(fmt.Sprintf("-- %d comment(s)", len(p.Comments)))
	for i := range p.Comments {
		c := &p.Comments[i]
		printlnFn(fmt.Sprintf("[%s] %s: %s", c.ID, c.Author.Name, c.Text))
	}
}

// Write creates a new post: title, body, tags, and an optional local image
// file that is first pushed to the asset host.
func (a *App) Write(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Title", os.Stdout)
	if err != nil {
		return err
	}
	body, err := GetMultiline(a.reader, "Body", os.Stdout)
	if err != nil {
		return err
	}
	tags, err := GetTags(a.reader, os.Stdout)
	if err != nil {
		return err
	}

	imageURL := ""
	imagePath, err := GetSimpleText(a.reader, "Image file (optional)", os.Stdout)
	if err != nil {
		return err
	}
	if imagePath != "" {
		f, err := os.Open(imagePath)
		if err != nil {
			printlnFn("Could not open image:", err.Error())
			return err
		}
		imageURL, err = a.uploader.Upload(ctx, imagePath, f)
		f.Close()
		if err != nil {
			printlnFn("Could not upload image:", err.Error())
			return err
		}
	}

	post, err := a.coordinator.CreatePost(ctx, api.CreatePostRequest{
		Title:   title,
		Content: body,
		Tags:    tags,
		Image:   imageURL,
	})
	if err != nil {
		printlnFn("Could not publish:", errText(err))
		return err
	}
	printlnFn("Published", post.ID)
	return nil
}

// Delete removes one of the user's own posts, asking for confirmation first.
func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: delete <id>")
		return nil
	}
	answer, err := GetSimpleText(a.reader, "Delete this post? (yes/no)", os.Stdout)
	if err != nil {
		return err
	}
	confirmed := strings.EqualFold(answer, "yes") || strings.EqualFold(answer, "y")

	if err := a.coordinator.DeletePost(ctx, args[0], confirmed); err != nil {
		printlnFn("Could not delete:", errText(err))
		return err
	}
	printlnFn("Post deleted.")
	return nil
}

// Bookmark toggles the user's bookmark on a post.
func (a *App) Bookmark(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: mark <id>")
		return nil
	}
	if err := a.coordinator.ToggleBookmark(ctx, args[0]); err != nil {
		printlnFn("Could not update bookmark:", errText(err))
		return err
	}
	post, err := a.store.Get(args[0])
	printlnFn(bookmarkMessage(post, err, a.sessions.Current().Identity.ID))
	return nil
}

// bookmarkMessage describes the post-toggle bookmark state. When the post is
// no longer readable from the cache the toggle still happened server-side,
// but its direction is unknown — report it without guessing.
func bookmarkMessage(post models.Post, getErr error, userID string) string {
	switch {
	case getErr != nil:
		return "Bookmark updated."
	case post.BookmarkedBy(userID):
		return "Added to bookmarks."
	default:
		return "Removed from bookmarks."
	}
}

// Bookmarks lists the user's bookmarked posts.
func (a *App) Bookmarks(ctx context.Context) error {
	posts, err := a.client.Bookmarks(ctx)
	if err != nil {
		printlnFn("Could not load bookmarks:", errText(err))
		return err
	}
	a.printPostList(posts)
	return nil
}

// Mine lists the user's own posts.
func (a *App) Mine(ctx context.Context) error {
	posts, err := a.client.MyPosts(ctx)
	if err != nil {
		printlnFn("Could not load your posts:", errText(err))
		return err
	}
	a.printPostList(posts)
	return nil
}

func (a *App) printPostList(posts []models.Post) {
	if len(posts) == 0 {
		printlnFn("Nothing here yet.")
		return
	}
	for i := range posts {
		p := &posts[i]
		printlnFn(fmt.Sprintf("%s  %s — %s", p.ID, p.Title, p.CreatedAt.Format("2006-01-02")))
	}
}

// Comment adds a comment to a post.
func (a *App) Comment(ctx context.Context, args []string) error {
	if len(args) == 0 {
		printlnFn("Usage: comment <id>")
		return nil
	}
	text, err := GetSimpleText(a.reader, "Comment", os.Stdout)
	if err != nil {
		return err
	}
	comments, err := a.coordinator.AddComment(ctx, args[0], text)
	if err != nil {
		printlnFn("Could not comment:", errText(err))
		return err
	}
	printlnFn(fmt.Sprintf("Comment added (%d total).", len(comments)))
	return nil
}

// Uncomment deletes a comment (own comment, or any comment on own post).
func (a *App) Uncomment(ctx context.Context, args []string) error {
	if len(args) < 2 {
		printlnFn("Usage: uncomment <postId> <commentId>")
		return nil
	}
	if err := a.coordinator.DeleteComment(ctx, args[0], args[1]); err != nil {
		printlnFn("Could not delete comment:", errText(err))
		return err
	}
	printlnFn("Comment deleted.")
	return nil
}
