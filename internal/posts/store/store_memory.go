package store

import (
	"context"
	"sync"

	"postboard/internal/posts/models"
	"postboard/pkg/platform/sentinel"
)

// InMemoryPostStore keeps posts in creation order; list order is insertion order.
type InMemoryPostStore struct {
	mu     sync.RWMutex
	posts  []models.Post
	nextID int64
}

func New() *InMemoryPostStore {
	return &InMemoryPostStore{nextID: 1}
}

// Create assigns the next id and appends the post. Ids are never reused, even after
// a delete.
func (s *InMemoryPostStore) Create(_ context.Context, post *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := post.Clone()
	record.ID = s.nextID
	s.nextID++
	s.posts = append(s.posts, record)
	out := record.Clone()
	return &out, nil
}

func (s *InMemoryPostStore) FindByID(_ context.Context, id int64) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(id)
	if i == -1 {
		return nil, sentinel.ErrNotFound
	}
	out := s.posts[i].Clone()
	return &out, nil
}

// Page returns one page of posts. Count and slice are taken under one read lock so the
// metadata always describes the returned slice.
func (s *InMemoryPostStore) Page(_ context.Context, q models.PageQuery) (*models.PostPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	window, pagination := models.Paginate(q, len(s.posts))
	return &models.PostPage{
		Posts:      cloneAll(s.posts[window.Start:window.End]),
		Pagination: pagination,
	}, nil
}

// ListAll returns every post in insertion order.
func (s *InMemoryPostStore) ListAll(_ context.Context) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.posts), nil
}

// Update applies fn to the stored post in place and returns the result.
func (s *InMemoryPostStore) Update(_ context.Context, id int64, fn func(*models.Post)) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i == -1 {
		return nil, sentinel.ErrNotFound
	}
	fn(&s.posts[i])
	out := s.posts[i].Clone()
	return &out, nil
}

// Delete removes the post and returns the removed record.
func (s *InMemoryPostStore) Delete(_ context.Context, id int64) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i == -1 {
		return nil, sentinel.ErrNotFound
	}
	removed := s.posts[i]
	s.posts = append(s.posts[:i], s.posts[i+1:]...)
	return &removed, nil
}

// indexOf must be called with the lock held.
func (s *InMemoryPostStore) indexOf(id int64) int {
	for i := range s.posts {
		if s.posts[i].ID == id {
			return i
		}
	}
	return -1
}

func cloneAll(posts []models.Post) []models.Post {
	out := make([]models.Post, len(posts))
	for i := range posts {
		out[i] = posts[i].Clone()
	}
	return out
}
