package types

import "errors"

// Catalog operation errors. Each leaves the catalog unchanged.
var (
	ErrDuplicateID   = errors.New("book ID already exists")
	ErrNotFound      = errors.New("book not found")
	ErrExhausted     = errors.New("no copies available to issue")
	ErrOverReturn    = errors.New("all copies are already in the library")
	ErrInvalidCopies = errors.New("total copies must not be negative")
)
