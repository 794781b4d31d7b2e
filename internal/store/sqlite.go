package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// position keeps catalog order, which a loaded catalog does not
// guarantee to match ID order. IDs are not unique at the table level
// because a hand-edited text file can carry duplicates.
const createBooks = `CREATE TABLE IF NOT EXISTS books (
    position INTEGER PRIMARY KEY,
    id INTEGER NOT NULL,
    title TEXT NOT NULL,
    author TEXT NOT NULL,
    category TEXT NOT NULL,
    available INTEGER NOT NULL,
    total INTEGER NOT NULL
);`

const (
	selectBooks = `SELECT position, id, title, author, category, available, total FROM books ORDER BY position`
	deleteBooks = `DELETE FROM books`
	insertBook  = `INSERT INTO books (position, id, title, author, category, available, total)
VALUES (:position, :id, :title, :author, :category, :available, :total)`
)

// bookRow is a books table row.
type bookRow struct {
	Position int `db:"position"`
	types.Book
}

// SQLiteStore keeps the catalog in a SQLite database file.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sqlx.DB
	logger zerolog.Logger
}

// OpenSQLite opens or creates the database at path and ensures the schema.
func OpenSQLite(path string, logger zerolog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
	}
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection; the catalog is written as a whole.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createBooks); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return &SQLiteStore{
		db:     db,
		logger: logger.With().Str("store", "sqlite").Str("path", path).Logger(),
	}, nil
}

// Load reads every row in catalog order.
func (s *SQLiteStore) Load(ctx context.Context) (*catalog.Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rows []bookRow
	if err := s.db.SelectContext(ctx, &rows, selectBooks); err != nil {
		return nil, fmt.Errorf("selecting books: %w", err)
	}
	books := make([]types.Book, len(rows))
	for i, r := range rows {
		books[i] = r.Book
	}
	s.logger.Debug().Int("books", len(books)).Msg("catalog loaded")
	return catalog.FromBooks(books), nil
}

// Save replaces all rows in one transaction.
func (s *SQLiteStore) Save(ctx context.Context, c *catalog.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, deleteBooks); err != nil {
		return fmt.Errorf("clearing books: %w", err)
	}
	for i, b := range c.Books() {
		if _, err := tx.NamedExecContext(ctx, insertBook, bookRow{Position: i, Book: b}); err != nil {
			return fmt.Errorf("inserting book %d: %w", b.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return err
}
