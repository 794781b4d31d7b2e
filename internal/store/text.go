package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/shelf/internal/catalog"
)

// TextStore keeps the catalog in a comma-separated text file.
type TextStore struct {
	path   string
	logger zerolog.Logger
}

// NewTextStore returns a store backed by the file at path. The file need
// not exist yet.
func NewTextStore(path string, logger zerolog.Logger) *TextStore {
	return &TextStore{
		path:   path,
		logger: logger.With().Str("store", "text").Str("path", path).Logger(),
	}
}

// Path returns the data file location.
func (s *TextStore) Path() string {
	return s.path
}

// Load reads the data file. A missing file is an empty catalog.
func (s *TextStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Debug().Msg("data file missing, empty catalog")
		return catalog.New(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", s.path, err)
	}
	defer f.Close()

	c, err := catalog.ReadText(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.path, err)
	}
	s.logger.Debug().Int("books", c.Len()).Msg("catalog loaded")
	return c, nil
}

// Save writes the whole catalog using the temp-file, fsync, rename
// pattern, so a failed write leaves the previous file intact.
func (s *TextStore) Save(ctx context.Context, c *catalog.Catalog) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".books-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := c.WriteText(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// Close is a no-op for the text store.
func (s *TextStore) Close() error {
	return nil
}
