package catalog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// Record layout: id,title,author,category,available,total
const recordFields = 6

// maxLineSize bounds a single record line; longer lines are dropped.
const maxLineSize = 1 << 20

// WriteText writes one line per book in catalog order. Text fields are
// written as-is; a comma inside a field will not survive a reload.
func (c *Catalog) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, b := range c.books {
		if _, err := fmt.Fprintf(bw, "%d,%s,%s,%s,%d,%d\n",
			b.ID, b.Title, b.Author, b.Category, b.AvailableCopies, b.TotalCopies); err != nil {
			return fmt.Errorf("writing book %d: %w", b.ID, err)
		}
	}
	return bw.Flush()
}

// Serialize returns the text form of the catalog.
func (c *Catalog) Serialize() string {
	var sb strings.Builder
	// strings.Builder never fails a write.
	_ = c.WriteText(&sb)
	return sb.String()
}

// ReadText parses records line by line and appends them in file order.
// Lines with fewer than six fields, unparseable numbers, or more than
// maxLineSize bytes are skipped. The only error returned is a read error
// from r, together with the records read so far.
func ReadText(r io.Reader) (*Catalog, error) {
	c := New()
	br := bufio.NewReader(r)
	var (
		line    []byte
		tooLong bool
	)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err == io.EOF {
			return c, nil
		}
		if err != nil {
			return c, fmt.Errorf("reading records: %w", err)
		}

		if !tooLong {
			if len(line)+len(chunk) > maxLineSize {
				tooLong = true
				line = line[:0]
			} else {
				line = append(line, chunk...)
			}
		}
		if isPrefix {
			continue
		}

		if !tooLong {
			if b, ok := parseRecord(string(line)); ok {
				c.books = append(c.books, b)
			}
		}
		line = line[:0]
		tooLong = false
	}
}

// Deserialize parses text produced by Serialize.
func Deserialize(text string) *Catalog {
	c, _ := ReadText(strings.NewReader(text))
	return c
}

// parseRecord decodes one line. Fields past the sixth are ignored.
// AvailableCopies is taken verbatim, not reset to TotalCopies.
func parseRecord(line string) (types.Book, bool) {
	line = strings.TrimSuffix(line, "\r")
	if line == "" {
		return types.Book{}, false
	}
	fields := strings.Split(line, ",")
	if len(fields) < recordFields {
		return types.Book{}, false
	}

	id, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return types.Book{}, false
	}
	available, err := strconv.Atoi(strings.TrimSpace(fields[4]))
	if err != nil {
		return types.Book{}, false
	}
	total, err := strconv.Atoi(strings.TrimSpace(fields[5]))
	if err != nil {
		return types.Book{}, false
	}

	return types.Book{
		ID:              id,
		Title:           types.Truncate(fields[1], types.MaxTitleLen),
		Author:          types.Truncate(fields[2], types.MaxAuthorLen),
		Category:        types.Truncate(fields[3], types.MaxCategoryLen),
		AvailableCopies: available,
		TotalCopies:     total,
	}, true
}
