package store

import (
	"context"
	"sync"
	"time"

	"inkwell/internal/models"
)

// MemoryStore satisfies the contract without a backing file. It plays the
// role the local-storage mirror plays in the browser variant and backs the
// service and handler tests.
type MemoryStore struct {
	mu    sync.Mutex
	posts []*models.Post // insertion order
	ready bool
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Open(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = true
	return nil
}

func (s *MemoryStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *MemoryStore) List(_ context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}
	return orderedSnapshot(s.posts), nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}
	for _, p := range s.posts {
		if p.ID == id {
			return p.Clone(), nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Create(_ context.Context, candidate *models.Post) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}

	post := candidate.Clone()
	post.ID = nextID(s.posts)
	now := s.now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Date.IsZero() {
		post.Date = now
	}
	s.posts = append(s.posts, post)
	return post.Clone(), nil
}

func (s *MemoryStore) Update(_ context.Context, id int, fields UpdateFields) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}
	for i, p := range s.posts {
		if p.ID != id {
			continue
		}
		updated := p.Clone()
		updated.Title = fields.Title
		updated.Content = fields.Content
		updated.Author = resolveAuthor(fields.Author, updated.Author)
		updated.UpdatedAt = s.now()
		s.posts[i] = updated
		return updated.Clone(), nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Delete(_ context.Context, id int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}
	for i, p := range s.posts {
		if p.ID != id {
			continue
		}
		removed := p.Clone()
		s.posts = append(s.posts[:i], s.posts[i+1:]...)
		return removed, nil
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return 0, ErrNotReady
	}
	return len(s.posts), nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = false
	return nil
}
