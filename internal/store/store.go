// Package store loads and saves the catalog. The text backend keeps the
// flat books.txt format; the sqlite backend keeps the same records in a
// single SQLite table.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// DefaultDataFile is the data file used when nothing else is configured.
const DefaultDataFile = "books.txt"

// ErrSave marks errors that happened while persisting. The in-memory
// catalog returned alongside it is still valid.
var ErrSave = errors.New("save catalog")

// Store persists a whole catalog at a time.
type Store interface {
	// Load returns the persisted catalog. A store that has never been
	// saved returns an empty catalog and no error.
	Load(ctx context.Context) (*catalog.Catalog, error)

	// Save replaces the persisted catalog with c.
	Save(ctx context.Context, c *catalog.Catalog) error

	// Close releases backend resources.
	Close() error
}

// Open returns the Store selected by cfg.Backend.
func Open(cfg types.Config, logger zerolog.Logger) (Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	path := cfg.DataFile
	if path == "" {
		path = DefaultDataFile
	}

	switch cfg.Backend {
	case types.BackendSQLite:
		return OpenSQLite(path, logger)
	default:
		return NewTextStore(path, logger), nil
	}
}

// LoadOrEmpty loads the catalog. A load failure is logged and treated as
// an empty catalog.
func LoadOrEmpty(ctx context.Context, s Store, logger zerolog.Logger) *catalog.Catalog {
	c, err := s.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("could not read catalog, starting empty")
		return catalog.New()
	}
	return c
}

// Apply loads the catalog, applies one mutation and writes the whole
// catalog back. When fn fails nothing is written and fn's error is
// returned. A write failure is returned wrapped in ErrSave together with
// the mutated catalog.
func Apply(ctx context.Context, s Store, logger zerolog.Logger, fn func(*catalog.Catalog) error) (*catalog.Catalog, error) {
	c := LoadOrEmpty(ctx, s, logger)
	if err := fn(c); err != nil {
		return c, err
	}
	if err := s.Save(ctx, c); err != nil {
		return c, fmt.Errorf("%w: %w", ErrSave, err)
	}
	logger.Debug().Int("books", c.Len()).Msg("catalog saved")
	return c, nil
}
