package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"inkwell/internal/models"
)

// JSONFileStore keeps the whole collection in memory and rewrites one
// pretty-printed JSON file on every mutation. Read-modify-write is not atomic
// across processes; single-writer usage is assumed, so a single mutex guards
// the mutate+persist cycle within this process.
type JSONFileStore struct {
	mu    sync.Mutex
	path  string
	posts []*models.Post // insertion order
	ready bool
	now   func() time.Time
}

// NewJSONFileStore creates a store backed by the JSON file at path. Open must
// be called before the store serves requests.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{
		path: path,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

func (s *JSONFileStore) Open(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		if err := s.persistLocked(nil); err != nil {
			return err
		}
		s.posts = nil
		s.ready = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", s.path, err)
	}

	var posts []*models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return fmt.Errorf("parse %s: %w", s.path, err)
	}
	s.posts = posts
	s.ready = true
	return nil
}

func (s *JSONFileStore) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ready
}

func (s *JSONFileStore) List(_ context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}
	return orderedSnapshot(s.posts), nil
}

func (s *JSONFileStore) GetByID(_ context.Context, id int) (*models.Post, error) {
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

func (s *JSONFileStore) Create(_ context.Context, candidate *models.Post) (*models.Post, error) {
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

	next := append(append([]*models.Post(nil), s.posts...), post)
	if err := s.persistLocked(next); err != nil {
		return nil, err
	}
	s.posts = next
	return post.Clone(), nil
}

func (s *JSONFileStore) Update(_ context.Context, id int, fields UpdateFields) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}

	idx := -1
	for i, p := range s.posts {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	updated := s.posts[idx].Clone()
	updated.Title = fields.Title
	updated.Content = fields.Content
	updated.Author = resolveAuthor(fields.Author, updated.Author)
	updated.UpdatedAt = s.now()

	next := append([]*models.Post(nil), s.posts...)
	next[idx] = updated
	if err := s.persistLocked(next); err != nil {
		return nil, err
	}
	s.posts = next
	return updated.Clone(), nil
}

func (s *JSONFileStore) Delete(_ context.Context, id int) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return nil, ErrNotReady
	}

	idx := -1
	for i, p := range s.posts {
		if p.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return nil, ErrNotFound
	}

	removed := s.posts[idx].Clone()
	next := append([]*models.Post(nil), s.posts[:idx]...)
	next = append(next, s.posts[idx+1:]...)
	if err := s.persistLocked(next); err != nil {
		return nil, err
	}
	s.posts = next
	return removed, nil
}

func (s *JSONFileStore) Count(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.ready {
		return 0, ErrNotReady
	}
	return len(s.posts), nil
}

func (s *JSONFileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ready = false
	return nil
}

// persistLocked rewrites the whole backing file. A crash mid-write may leave
// a torn file; that limitation is part of the contract.
func (s *JSONFileStore) persistLocked(posts []*models.Post) error {
	if posts == nil {
		posts = []*models.Post{}
	}
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return fmt.Errorf("encode posts: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

// nextID returns max existing id + 1, or 1 for an empty collection.
func nextID(posts []*models.Post) int {
	max := 0
	for _, p := range posts {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

// orderedSnapshot clones the posts sorted by createdAt descending with a
// newest-inserted-first tie-break. The input slice is in insertion order, so
// reversing it first makes the stable sort break ties the right way.
func orderedSnapshot(posts []*models.Post) []*models.Post {
	out := make([]*models.Post, 0, len(posts))
	for i := len(posts) - 1; i >= 0; i-- {
		out = append(out, posts[i].Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}
