package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"inkwell/internal/models"
)

// ErrDestinationNotEmpty aborts a migration whose destination database
// already holds posts; re-running would accumulate duplicates.
var ErrDestinationNotEmpty = errors.New("destination database already contains posts; delete it first to migrate")

// MigrateJSONToSQLite copies a flat-file collection into a SQLite backing
// file, preserving every id and timestamp verbatim. A missing source file is
// a no-op. Returns the number of posts copied.
func MigrateJSONToSQLite(ctx context.Context, jsonPath, dbPath string) (int, error) {
	data, err := os.ReadFile(jsonPath)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", jsonPath, err)
	}

	var posts []*models.Post
	if err := json.Unmarshal(data, &posts); err != nil {
		return 0, fmt.Errorf("parse %s: %w", jsonPath, err)
	}

	dst := NewSQLiteStore(dbPath)
	if err := dst.Open(ctx); err != nil {
		return 0, err
	}
	defer func() { _ = dst.Close() }()

	existing, err := dst.Count(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		return 0, ErrDestinationNotEmpty
	}

	// No field recomputation: only the documented fallbacks for records
	// written before the author/date/updatedAt fields existed.
	for _, p := range posts {
		if p.Author == "" {
			p.Author = models.AnonymousAuthor
		}
		if p.Date.IsZero() {
			p.Date = p.CreatedAt
		}
		if p.UpdatedAt.IsZero() {
			p.UpdatedAt = p.CreatedAt
		}
	}

	if err := dst.Import(ctx, posts); err != nil {
		return 0, err
	}
	return len(posts), nil
}
