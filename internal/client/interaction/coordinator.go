// Package interaction applies user-intended content mutations optimistically
// to the local cache, issues the corresponding network call, and reconciles
// on completion or failure.
//
// Failure handling is structural: every optimistic edit is registered as a
// two-phase mutation (apply → commit or rollback), so a failed request always
// restores the pre-mutation state instead of relying on call-site cleanup.
package interaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/avencello/inkfeed/internal/client/api"
	"github.com/avencello/inkfeed/internal/client/content"
	"github.com/avencello/inkfeed/internal/client/models"
	"github.com/avencello/inkfeed/internal/client/session"
	"github.com/avencello/inkfeed/internal/common"
	"github.com/avencello/inkfeed/internal/logging"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Coordinator is the single writer of optimistic state on top of the content
// store. It never retries; retry policy belongs to callers.
type Coordinator struct {
	client   api.Client
	store    *content.Store
	sessions *session.Store
	log      logging.Logger

	mu      sync.Mutex
	pending map[string]func()
}

func NewCoordinator(client api.Client, store *content.Store, sessions *session.Store, log logging.Logger) *Coordinator {
	return &Coordinator{
		client:   client,
		store:    store,
		sessions: sessions,
		log:      log,
		pending:  map[string]func(){},
	}
}

// begin registers an applied optimistic delta and returns its mutation token.
// The revert closure must restore the pre-mutation state when run.
func (c *Coordinator) begin(revert func()) string {
	token := uuid.NewString()
	c.mu.Lock()
	c.pending[token] = revert
	c.mu.Unlock()
	return token
}

// commit drops the revert handler: the server confirmed the delta.
func (c *Coordinator) commit(token string) {
	c.mu.Lock()
	delete(c.pending, token)
	c.mu.Unlock()
}

// rollback runs and drops the revert handler: the delta did not happen.
func (c *Coordinator) rollback(token string) {
	c.mu.Lock()
	revert := c.pending[token]
	delete(c.pending, token)
	c.mu.Unlock()
	if revert != nil {
		revert()
	}
}

func (c *Coordinator) currentUser() (string, error) {
	sess := c.sessions.Current()
	if !sess.Authenticated() {
		return "", fmt.Errorf("%w: sign in first", common.ErrUnauthorized)
	}
	return sess.Identity.ID, nil
}

// ToggleBookmark flips the current user's bookmark on the post locally, then
// calls the toggle endpoint. On success the server is trusted to have
// performed the same flip; on failure the local flip is reverted.
//
// The endpoint is a pure toggle with no target state in the request, so two
// interleaved toggles may diverge from server truth until the next Refresh.
// Accepted: bookmark toggling is low-stakes and idempotent in intent.
func (c *Coordinator) ToggleBookmark(ctx context.Context, postID string) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}

	post, err := c.store.Get(postID)
	if err != nil {
		return err
	}
	before := post.Clone()

	post.ToggleBookmark(userID)
	c.store.UpsertLocal(post)

	token := c.begin(func() {
		// Only restore if the post is still cached; a refresh or delete
		// may have moved on while the call was in flight.
		if c.store.Has(before.ID) {
			c.store.UpsertLocal(before)
		}
	})

	if err := c.client.ToggleBookmark(ctx, postID); err != nil {
		c.rollback(token)
		return err
	}
	c.commit(token)
	return nil
}

// AddComment posts a comment. There is no optimistic append: on success the
// post's comment sequence is replaced with the server's returned sequence,
// so comment ids and ordering never drift.
func (c *Coordinator) AddComment(ctx context.Context, postID, text string) ([]models.Comment, error) {
	if _, err := c.currentUser(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: comment text is empty", common.ErrValidation)
	}

	comments, err := c.client.AddComment(ctx, postID, text)
	if err != nil {
		return nil, err
	}

	post, err := c.store.Get(postID)
	if err != nil {
		// The view moved on mid-flight; the server accepted the comment,
		// so there is nothing to reconcile locally.
		if errors.Is(err, common.ErrNotFound) {
			return comments, nil
		}
		return nil, err
	}
	post.Comments = comments
	c.store.UpsertLocal(post)
	return comments, nil
}

// DeleteComment removes a comment the current user is allowed to delete:
// either their own, or any comment under their own post. The pre-check only
// avoids futile requests — the server enforces authorization regardless.
//
// The removal is optimistic. On failure the post is re-fetched rather than
// the removed comment re-inserted, because other mutations may have landed
// on the server meanwhile.
func (c *Coordinator) DeleteComment(ctx context.Context, postID, commentID string) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}

	post, err := c.store.Get(postID)
	if err != nil {
		return err
	}

	idx := -1
	for i := range post.Comments {
		if post.Comments[i].ID == commentID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("comment %s: %w", commentID, common.ErrNotFound)
	}
	if post.Comments[idx].Author.ID != userID && post.Author.ID != userID {
		return fmt.Errorf("%w: not your comment", common.ErrUnauthorized)
	}

	before := post.Clone()
	post.Comments = append(post.Comments[:idx], post.Comments[idx+1:]...)
	c.store.UpsertLocal(post)

	token := c.begin(func() {
		if !c.store.Has(postID) {
			return
		}
		fresh, err := c.client.Post(ctx, postID)
		if err != nil {
			// Cannot reach the authority; fall back to the snapshot so the
			// user at least observes no data loss from the failed request.
			c.log.Warn(ctx, "comment rollback re-fetch failed, restoring snapshot",
				"post", postID, "error", err)
			c.store.UpsertLocal(before)
			return
		}
		c.store.UpsertLocal(*fresh)
	})

	if err := c.client.DeleteComment(ctx, postID, commentID); err != nil {
		c.rollback(token)
		return err
	}
	c.commit(token)
	return nil
}

// DeletePost deletes the current user's post. The caller must pass
// confirmed=true; destructive post-level operations are never applied
// optimistically, so the post leaves the cache only after the server
// confirms.
func (c *Coordinator) DeletePost(ctx context.Context, postID string, confirmed bool) error {
	userID, err := c.currentUser()
	if err != nil {
		return err
	}
	if !confirmed {
		return fmt.Errorf("deleting post %s: %w", postID, common.ErrConfirmationRequired)
	}

	post, err := c.store.Get(postID)
	if err != nil {
		return err
	}
	if post.Author.ID != userID {
		return fmt.Errorf("%w: not your post", common.ErrUnauthorized)
	}

	if err := c.client.DeletePost(ctx, postID); err != nil {
		return err
	}
	c.store.RemoveLocal(postID)
	return nil
}

// CreatePost validates the draft and submits it. There is no optimistic
// insert (the server assigns id, author, and timestamps); the returned post
// goes to the head of the cache.
func (c *Coordinator) CreatePost(ctx context.Context, draft api.CreatePostRequest) (*models.Post, error) {
	if _, err := c.currentUser(); err != nil {
		return nil, err
	}
	if err := validate.Struct(draft); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	post, err := c.client.CreatePost(ctx, draft)
	if err != nil {
		return nil, err
	}
	c.store.InsertHead(post.Clone())
	c.log.Info(ctx, "post created", "post", post.ID, "title", post.Title)
	return post, nil
}
