package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/shelf/internal/catalog"
)

func sampleCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c := catalog.New()
	require.NoError(t, c.Insert(3, "A", "B", "Fic", 2))
	require.NoError(t, c.Insert(1, "C", "D", "Sci", 1))
	require.NoError(t, c.Issue(3))
	return c
}

func TestTextStoreMissingFileIsEmpty(t *testing.T) {
	s := NewTextStore(filepath.Join(t.TempDir(), "books.txt"), zerolog.Nop())
	c, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
}

func TestTextStoreSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.txt")
	s := NewTextStore(path, zerolog.Nop())
	ctx := context.Background()

	c := sampleCatalog(t)
	require.NoError(t, s.Save(ctx, c))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1,C,D,Sci,1,1\n3,A,B,Fic,1,2\n", string(data))

	got, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, c.Books(), got.Books())
}

func TestTextStoreSaveCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "books.txt")
	s := NewTextStore(path, zerolog.Nop())
	require.NoError(t, s.Save(context.Background(), sampleCatalog(t)))
	assert.FileExists(t, path)
}

func TestTextStoreSaveOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.txt")
	require.NoError(t, os.WriteFile(path, []byte("9,Old,Old,Old,1,1\n"), 0o644))

	s := NewTextStore(path, zerolog.Nop())
	require.NoError(t, s.Save(context.Background(), catalog.New()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestTextStoreSaveLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewTextStore(filepath.Join(dir, "books.txt"), zerolog.Nop())
	require.NoError(t, s.Save(context.Background(), sampleCatalog(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "books.txt", entries[0].Name())
}

func TestTextStoreLoadErrorOnDirectory(t *testing.T) {
	s := NewTextStore(t.TempDir(), zerolog.Nop())
	_, err := s.Load(context.Background())
	assert.Error(t, err)
}

func TestTextStoreSaveErrorWhenParentIsFile(t *testing.T) {
	parent := filepath.Join(t.TempDir(), "plain")
	require.NoError(t, os.WriteFile(parent, nil, 0o644))

	s := NewTextStore(filepath.Join(parent, "books.txt"), zerolog.Nop())
	assert.Error(t, s.Save(context.Background(), sampleCatalog(t)))
}
