// Package content caches the post feed on the client. The cache is an
// ordered sequence of posts keyed by id; it is mutated only by this package
// and by the interaction coordinator, never by view code.
package content

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/avencello/inkfeed/internal/client/api"
	"github.com/avencello/inkfeed/internal/client/models"
	"github.com/avencello/inkfeed/internal/common"
)

// Page is one page of a filtered feed view.
type Page struct {
	Items      []models.Post
	TotalPages int
}

// Store is the cached, ordered post collection with derived filtered and
// paginated views.
type Store struct {
	client api.Client

	mu    sync.RWMutex
	posts []models.Post
	index map[string]int

	// generation makes concurrent refreshes last-writer-wins: a refresh
	// that started before a later one completed discards its result.
	generation uint64
}

func New(client api.Client) *Store {
	return &Store{
		client: client,
		index:  map[string]int{},
	}
}

// Refresh replaces the entire cache with the server's current feed. A full
// replace discards optimistic changes the server has not acknowledged yet;
// the coordinator re-applies pending state after refresh where needed.
func (s *Store) Refresh(ctx context.Context) ([]models.Post, error) {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	posts, err := s.client.AllPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("refreshing feed: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.generation {
		// A later refresh already started; let it win.
		return s.snapshotLocked(), nil
	}
	s.replaceLocked(posts)
	return s.snapshotLocked(), nil
}

// Get returns a copy of the post with the given id, or common.ErrNotFound.
func (s *Store) Get(id string) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Post{}, fmt.Errorf("post %s: %w", id, common.ErrNotFound)
	}
	return s.posts[i].Clone(), nil
}

// Has reports whether the post is still in the cache. Used as the
// "still relevant" check before applying a late network result.
func (s *Store) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.index[id]
	return ok
}

// Len returns the number of cached posts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.posts)
}

// All returns a copy of the cached feed in order.
func (s *Store) All() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// UpsertLocal replaces the cached post with the same id, or appends it when
// absent. No network call.
func (s *Store) UpsertLocal(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[post.ID]; ok {
		s.posts[i] = post
		return
	}
	s.index[post.ID] = len(s.posts)
	s.posts = append(s.posts, post)
}

// InsertHead puts a post at the head of the cache (newest first), replacing
// any cached post with the same id.
func (s *Store) InsertHead(post models.Post) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i, ok := s.index[post.ID]; ok {
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
	}
	s.posts = append([]models.Post{post}, s.posts...)
	s.reindexLocked()
}

// RemoveLocal drops the post from the cache. No network call. Removing an
// absent id is a no-op.
func (s *Store) RemoveLocal(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[id]
	if !ok {
		return
	}
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	s.reindexLocked()
}

// FilterAndPaginate returns one page of posts whose title or any tag
// contains the query, case-insensitively. Pagination is 1-indexed and
// pageNumber is clamped into [1, TotalPages]; when nothing matches the
// result is an empty page with TotalPages 0.
//
// Changing the query resets pagination to page 1 by caller contract.
func (s *Store) FilterAndPaginate(query string, pageSize, pageNumber int) Page {
	if pageSize <= 0 {
		return Page{Items: []models.Post{}}
	}

	s.mu.RLock()
	matched := make([]models.Post, 0, len(s.posts))
	q := strings.ToLower(query)
	for i := range s.posts {
		if matches(&s.posts[i], q) {
			matched = append(matched, s.posts[i].Clone())
		}
	}
	s.mu.RUnlock()

	totalPages := (len(matched) + pageSize - 1) / pageSize
	if totalPages == 0 {
		return Page{Items: []models.Post{}}
	}
	if pageNumber < 1 {
		pageNumber = 1
	}
	if pageNumber > totalPages {
		pageNumber = totalPages
	}

	start := (pageNumber - 1) * pageSize
	end := start + pageSize
	if end > len(matched) {
		end = len(matched)
	}
	return Page{Items: matched[start:end], TotalPages: totalPages}
}

// matches checks the lowercased query against the title and each tag
// separately; there is no match across a title+tag concatenation.
func matches(p *models.Post, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Title), q) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

func (s *Store) replaceLocked(posts []models.Post) {
	s.posts = make([]models.Post, len(posts))
	copy(s.posts, posts)
	s.reindexLocked()
}

func (s *Store) reindexLocked() {
	s.index = make(map[string]int, len(s.posts))
	for i := range s.posts {
		s.index[s.posts[i].ID] = i
	}
}

func (s *Store) snapshotLocked() []models.Post {
	out := make([]models.Post, len(s.posts))
	for i := range s.posts {
		out[i] = s.posts[i].Clone()
	}
	return out
}
