package types

import "unicode/utf8"

// Field limits for Book text fields. Longer values are truncated, not rejected.
const (
	MaxTitleLen    = 99
	MaxAuthorLen   = 99
	MaxCategoryLen = 49
)

// Book is one catalog record identified by a unique ID.
type Book struct {
	ID              int    `json:"id" db:"id"`
	Title           string `json:"title" db:"title"`
	Author          string `json:"author" db:"author"`
	Category        string `json:"category" db:"category"`
	AvailableCopies int    `json:"available" db:"available"`
	TotalCopies     int    `json:"total" db:"total"`
}

// NewBook builds a Book with every copy available. Text fields longer than
// their limits are truncated silently. Returns ErrInvalidCopies when
// totalCopies is negative.
func NewBook(id int, title, author, category string, totalCopies int) (Book, error) {
	if totalCopies < 0 {
		return Book{}, ErrInvalidCopies
	}
	return Book{
		ID:              id,
		Title:           Truncate(title, MaxTitleLen),
		Author:          Truncate(author, MaxAuthorLen),
		Category:        Truncate(category, MaxCategoryLen),
		AvailableCopies: totalCopies,
		TotalCopies:     totalCopies,
	}, nil
}

// CanIssue reports whether at least one copy is on the shelf.
func (b *Book) CanIssue() bool {
	return b.AvailableCopies > 0
}

// CanReturn reports whether a copy is currently out.
func (b *Book) CanReturn() bool {
	return b.AvailableCopies < b.TotalCopies
}

// Issue takes one copy off the shelf.
// Returns ErrExhausted when no copy is available.
func (b *Book) Issue() error {
	if !b.CanIssue() {
		return ErrExhausted
	}
	b.AvailableCopies--
	return nil
}

// Return puts one copy back on the shelf.
// Returns ErrOverReturn when every copy is already in.
func (b *Book) Return() error {
	if !b.CanReturn() {
		return ErrOverReturn
	}
	b.AvailableCopies++
	return nil
}

// Truncate shortens s to at most max runes. Cuts happen on rune boundaries
// so a multi-byte character is never split.
func Truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
