package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/mesh-intelligence/shelf/internal/store"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// openStore resolves the store configuration and opens the backend.
// The caller must Close the returned store.
func (o *options) openStore() (store.Store, types.Config, error) {
	cfg, err := o.storeConfig()
	if err != nil {
		return nil, types.Config{}, userError("%s", err)
	}
	s, err := store.Open(cfg, o.logger)
	if err != nil {
		return nil, cfg, sysError("open %s store: %s", cfg.Backend, err)
	}
	o.logger.Debug().Str("backend", cfg.Backend).Str("data_file", cfg.DataFile).Msg("store opened")
	return s, cfg, nil
}

// parseID parses a book ID argument.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, userError("invalid book ID %q", arg)
	}
	return id, nil
}

// parseCopies parses a copy count argument.
func parseCopies(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return 0, userError("invalid total copies %q", arg)
	}
	return n, nil
}

// describe turns a catalog error into the message shown to the user.
func describe(err error, id int) string {
	switch {
	case errors.Is(err, types.ErrDuplicateID):
		return fmt.Sprintf("Book ID %d already exists! Not adding duplicate.", id)
	case errors.Is(err, types.ErrNotFound):
		return fmt.Sprintf("Book with ID %d not found.", id)
	case errors.Is(err, types.ErrExhausted):
		return "No copies available to issue."
	case errors.Is(err, types.ErrOverReturn):
		return "All copies are already in library. Cannot return extra."
	case errors.Is(err, types.ErrInvalidCopies):
		return "Total copies must not be negative."
	default:
		return err.Error()
	}
}
