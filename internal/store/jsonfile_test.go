package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"inkwell/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONFileStore_OpenCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "posts.json")
	st := NewJSONFileStore(path)
	require.NoError(t, st.Open(context.Background()))
	defer st.Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestJSONFileStore_FileIsPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	st := NewJSONFileStore(path)
	require.NoError(t, st.Open(context.Background()))
	defer st.Close()

	_, err := st.Create(context.Background(), &models.Post{
		Title:   "Hello",
		Content: "World",
		Author:  "Ada",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// Two-space indentation and the API field names, so the file stays
	// hand-editable and diffs cleanly.
	assert.Contains(t, string(data), "  {\n")
	assert.Contains(t, string(data), `"title": "Hello"`)
	assert.Contains(t, string(data), `"createdAt"`)
	assert.Contains(t, string(data), `"updatedAt"`)
}

func TestJSONFileStore_OpenRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "posts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	st := NewJSONFileStore(path)
	err := st.Open(context.Background())
	require.Error(t, err)
	assert.False(t, st.Ready())
}

func TestJSONFileStore_IDReusedWhenMaxDeleted(t *testing.T) {
	// Ids follow max+1, so deleting the newest post makes its id available
	// again. Interior deletions never cause reuse.
	st := NewJSONFileStore(filepath.Join(t.TempDir(), "posts.json"))
	ctx := context.Background()
	require.NoError(t, st.Open(ctx))
	defer st.Close()

	mustCreate(t, st, "One", "body", "Ada")
	second := mustCreate(t, st, "Two", "body", "Ada")

	_, err := st.Delete(ctx, second.ID)
	require.NoError(t, err)

	replacement := mustCreate(t, st, "Two again", "body", "Ada")
	assert.Equal(t, second.ID, replacement.ID)
}
