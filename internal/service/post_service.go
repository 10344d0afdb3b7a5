// Package service holds the validation, pagination and search layer on top
// of the post store.
package service

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

type PostService struct {
	store store.PostStore
}

type CreatePostInput struct {
	Title   string
	Content string
	Author  string
}

type UpdatePostInput struct {
	Title   string
	Content string
	Author  string
}

// Pagination is the metadata block returned alongside a page of posts.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalPosts  int  `json:"totalPosts"`
	Limit       int  `json:"limit"`
	HasNext     bool `json:"hasNext"`
	HasPrev     bool `json:"hasPrev"`
}

func NewPostService(st store.PostStore) *PostService {
	return &PostService{store: st}
}

// ListPosts returns one page of the ordered collection plus pagination
// metadata. Out-of-range pages return an empty slice with consistent
// metadata, not an error.
func (s *PostService) ListPosts(ctx context.Context, page, limit int) ([]*models.Post, Pagination, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = DefaultPageLimit
	}

	posts, err := s.store.List(ctx)
	if err != nil {
		return nil, Pagination{}, mapStoreError(err, 0)
	}

	total := len(posts)
	totalPages := (total + limit - 1) / limit
	start := (page - 1) * limit
	end := page * limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	meta := Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPosts:  total,
		Limit:       limit,
		HasNext:     page*limit < total,
		HasPrev:     page > 1,
	}
	return posts[start:end], meta, nil
}

func (s *PostService) GetPost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	return post, nil
}

// CreatePost validates and trims the input, then delegates to the store.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, models.NewValidationError("Title and content are required")
	}

	author := strings.TrimSpace(in.Author)
	if author == "" {
		author = models.AnonymousAuthor
	}

	post, err := s.store.Create(ctx, &models.Post{
		Title:   title,
		Content: content,
		Author:  author,
	})
	if err != nil {
		return nil, mapStoreError(err, 0)
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, id int, in UpdatePostInput) (*models.Post, error) {
	title := strings.TrimSpace(in.Title)
	content := strings.TrimSpace(in.Content)
	if title == "" || content == "" {
		return nil, models.NewValidationError("Title and content are required")
	}

	post, err := s.store.Update(ctx, id, store.UpdateFields{
		Title:   title,
		Content: content,
		Author:  strings.TrimSpace(in.Author),
	})
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	return post, nil
}

func (s *PostService) DeletePost(ctx context.Context, id int) (*models.Post, error) {
	post, err := s.store.Delete(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, id)
	}
	return post, nil
}

// SearchPosts matches the query case-insensitively as a substring against
// title, author and the tag-stripped plain text of content, over the full
// ordered collection. A blank query returns the full collection unchanged
// ("clear search").
func (s *PostService) SearchPosts(ctx context.Context, query string) ([]*models.Post, error) {
	posts, err := s.store.List(ctx)
	if err != nil {
		return nil, mapStoreError(err, 0)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return posts, nil
	}

	matched := make([]*models.Post, 0, len(posts))
	for _, p := range posts {
		author := p.Author
		if strings.TrimSpace(author) == "" {
			author = models.AnonymousAuthor
		}
		if strings.Contains(strings.ToLower(p.Title), q) ||
			strings.Contains(strings.ToLower(author), q) ||
			strings.Contains(strings.ToLower(stripHTML(p.Content)), q) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// mapStoreError translates store sentinels into the API error taxonomy.
func mapStoreError(err error, id int) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return models.NewNotFoundError("Post", id)
	case errors.Is(err, store.ErrNotReady):
		return models.NewNotReadyError()
	default:
		return models.NewStorageError(err)
	}
}
