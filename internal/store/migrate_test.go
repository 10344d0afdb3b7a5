package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const migrationFixture = `[
  {
    "id": 3,
    "title": "Newest",
    "content": "<p>rich</p>",
    "author": "Grace",
    "date": "2025-02-01T10:00:00Z",
    "createdAt": "2025-02-01T10:00:00Z",
    "updatedAt": "2025-02-02T08:30:00Z"
  },
  {
    "id": 7,
    "title": "No author",
    "content": "legacy record",
    "createdAt": "2025-01-15T12:00:00Z"
  },
  {
    "id": 10,
    "title": "Gap in ids",
    "content": "survives",
    "author": "Ada",
    "date": "2025-03-01T00:00:00Z",
    "createdAt": "2025-03-01T00:00:00Z",
    "updatedAt": "2025-03-01T00:00:00Z"
  }
]`

func TestMigrateJSONToSQLite(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "posts.json")
	dbPath := filepath.Join(dir, "blog.db")
	require.NoError(t, os.WriteFile(jsonPath, []byte(migrationFixture), 0o600))

	ctx := context.Background()
	count, err := MigrateJSONToSQLite(ctx, jsonPath, dbPath)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	st := NewSQLiteStore(dbPath)
	require.NoError(t, st.Open(ctx))
	defer st.Close()

	// Ids and timestamps are preserved verbatim.
	newest, err := st.GetByID(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Newest", newest.Title)
	assert.Equal(t, "Grace", newest.Author)
	assert.WithinDuration(t, time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC), newest.CreatedAt, time.Second)
	assert.WithinDuration(t, time.Date(2025, 2, 2, 8, 30, 0, 0, time.UTC), newest.UpdatedAt, time.Second)

	// Records from before the author/date/updatedAt fields existed get the
	// documented fallbacks.
	legacy, err := st.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, models.AnonymousAuthor, legacy.Author)
	assert.WithinDuration(t, legacy.CreatedAt, legacy.Date, time.Second)
	assert.WithinDuration(t, legacy.CreatedAt, legacy.UpdatedAt, time.Second)

	gap, err := st.GetByID(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Gap in ids", gap.Title)

	total, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestMigrateJSONToSQLite_AbortsWhenDestinationHasPosts(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "posts.json")
	dbPath := filepath.Join(dir, "blog.db")
	require.NoError(t, os.WriteFile(jsonPath, []byte(migrationFixture), 0o600))

	ctx := context.Background()
	_, err := MigrateJSONToSQLite(ctx, jsonPath, dbPath)
	require.NoError(t, err)

	_, err = MigrateJSONToSQLite(ctx, jsonPath, dbPath)
	assert.ErrorIs(t, err, ErrDestinationNotEmpty)

	// The abort leaves the destination untouched.
	st := NewSQLiteStore(dbPath)
	require.NoError(t, st.Open(ctx))
	defer st.Close()
	total, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
}

func TestMigrateJSONToSQLite_MissingSourceIsNoOp(t *testing.T) {
	dir := t.TempDir()

	count, err := MigrateJSONToSQLite(context.Background(), filepath.Join(dir, "absent.json"), filepath.Join(dir, "blog.db"))
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}
