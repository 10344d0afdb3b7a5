// Package store provides the durable post collection behind a single CRUD
// contract with interchangeable backing media.
package store

import (
	"context"
	"errors"

	"inkwell/internal/models"
)

// Sentinel errors shared by every store implementation. The service layer
// translates them into the API error taxonomy.
var (
	// ErrNotFound is returned for lookups, updates and deletes of unknown ids.
	ErrNotFound = errors.New("post not found")
	// ErrNotReady is returned when the backing file has not been loaded yet.
	ErrNotReady = errors.New("store not ready")
)

// UpdateFields carries the mutable fields of a post. Title and Content
// replace the stored values; a blank Author falls back to the prior value,
// or to "Anonymous" if there was none.
type UpdateFields struct {
	Title   string
	Content string
	Author  string
}

// PostStore is the contract shared by all backing-medium variants. Every
// mutating operation persists fully to the backing medium before returning;
// a failed persist is surfaced and leaves the in-memory view unchanged where
// the medium allows it. Reads before Open completes fail with ErrNotReady.
type PostStore interface {
	// Open initializes the backing medium: it creates an empty collection
	// when no backing file exists, or loads the existing file fully into
	// memory before the store accepts any request.
	Open(ctx context.Context) error

	// Ready reports whether Open has completed.
	Ready() bool

	// List returns every post ordered by createdAt descending. Posts with
	// equal timestamps are ordered newest-inserted first.
	List(ctx context.Context) ([]*models.Post, error)

	// GetByID returns the post with the given id, or ErrNotFound.
	GetByID(ctx context.Context, id int) (*models.Post, error)

	// Create assigns the next id and the creation timestamps (Date is kept
	// when the candidate supplies one), persists, and returns the stored post.
	Create(ctx context.Context, candidate *models.Post) (*models.Post, error)

	// Update replaces title/content/author, touches updatedAt, persists, and
	// returns the updated post. CreatedAt, Date and the id are left untouched.
	Update(ctx context.Context, id int, fields UpdateFields) (*models.Post, error)

	// Delete removes the post, persists, and returns the removed snapshot.
	Delete(ctx context.Context, id int) (*models.Post, error)

	// Count returns the number of stored posts.
	Count(ctx context.Context) (int, error)

	// Close releases the backing medium. The store is not usable afterwards.
	Close() error
}

// resolveAuthor applies the blank-author fallback chain used by every variant.
func resolveAuthor(requested, prior string) string {
	if requested != "" {
		return requested
	}
	if prior != "" {
		return prior
	}
	return models.AnonymousAuthor
}
