// Package catalog holds the ordered collection of books and its text,
// JSON and table renderings.
package catalog

import "github.com/mesh-intelligence/shelf/pkg/types"

// Catalog is an ordered sequence of books. Books inserted through Insert
// keep the sequence strictly increasing by ID. Deserialize appends in file
// order and does not re-sort.
type Catalog struct {
	books []types.Book
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{}
}

// FromBooks builds a catalog holding books in the order given.
func FromBooks(books []types.Book) *Catalog {
	c := &Catalog{books: make([]types.Book, len(books))}
	copy(c.books, books)
	return c
}

// Len returns the number of books.
func (c *Catalog) Len() int {
	return len(c.books)
}

// Books returns a copy of the books in catalog order.
func (c *Catalog) Books() []types.Book {
	out := make([]types.Book, len(c.books))
	copy(out, c.books)
	return out
}

// IDs returns the book IDs in catalog order.
func (c *Catalog) IDs() []int {
	ids := make([]int, len(c.books))
	for i, b := range c.books {
		ids[i] = b.ID
	}
	return ids
}

// Insert adds a book at the first position whose ID is not less than id,
// or at the tail. The new book has every copy available.
// Returns ErrDuplicateID if id is already present, ErrInvalidCopies if
// totalCopies is negative.
func (c *Catalog) Insert(id int, title, author, category string, totalCopies int) error {
	if _, ok := c.indexOf(id); ok {
		return types.ErrDuplicateID
	}
	book, err := types.NewBook(id, title, author, category, totalCopies)
	if err != nil {
		return err
	}

	pos := len(c.books)
	for i := range c.books {
		if c.books[i].ID >= id {
			pos = i
			break
		}
	}
	c.books = append(c.books, types.Book{})
	copy(c.books[pos+1:], c.books[pos:])
	c.books[pos] = book
	return nil
}

// Get returns the book with the given ID.
// The pointer stays valid until the next Insert or Remove.
func (c *Catalog) Get(id int) (*types.Book, error) {
	i, ok := c.indexOf(id)
	if !ok {
		return nil, types.ErrNotFound
	}
	return &c.books[i], nil
}

// Remove unlinks the book with the given ID.
func (c *Catalog) Remove(id int) error {
	i, ok := c.indexOf(id)
	if !ok {
		return types.ErrNotFound
	}
	c.books = append(c.books[:i], c.books[i+1:]...)
	return nil
}

// Issue takes one copy of the book off the shelf.
// Returns ErrNotFound or ErrExhausted without changing anything.
func (c *Catalog) Issue(id int) error {
	b, err := c.Get(id)
	if err != nil {
		return err
	}
	return b.Issue()
}

// Return puts one copy of the book back.
// Returns ErrNotFound or ErrOverReturn without changing anything.
func (c *Catalog) Return(id int) error {
	b, err := c.Get(id)
	if err != nil {
		return err
	}
	return b.Return()
}

// indexOf scans linearly; a loaded catalog is not guaranteed to be sorted.
func (c *Catalog) indexOf(id int) (int, bool) {
	for i := range c.books {
		if c.books[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
