package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

// JSON renders the catalog as a JSON array with keys id, title, author,
// category, available and total. Text fields are not escaped, so a quote
// or backslash in a title yields invalid JSON.
func (c *Catalog) JSON() string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, b := range c.books {
		if i > 0 {
			sb.WriteByte(',')
		}
		writeBookJSON(&sb, b)
	}
	sb.WriteByte(']')
	return sb.String()
}

// BookJSON renders a single book as a JSON object in the same unescaped
// form as Catalog.JSON.
func BookJSON(b types.Book) string {
	var sb strings.Builder
	writeBookJSON(&sb, b)
	return sb.String()
}

func writeBookJSON(sb *strings.Builder, b types.Book) {
	sb.WriteString(`{"id":`)
	sb.WriteString(strconv.Itoa(b.ID))
	sb.WriteString(`,"title":"`)
	sb.WriteString(b.Title)
	sb.WriteString(`","author":"`)
	sb.WriteString(b.Author)
	sb.WriteString(`","category":"`)
	sb.WriteString(b.Category)
	sb.WriteString(`","available":`)
	sb.WriteString(strconv.Itoa(b.AvailableCopies))
	sb.WriteString(`,"total":`)
	sb.WriteString(strconv.Itoa(b.TotalCopies))
	sb.WriteByte('}')
}

// EmptyTableMessage is printed in place of a table when there are no books.
const EmptyTableMessage = "No books in the library."

const tableRule = "-------------------------------------------------------------------------------"

// Table renders a fixed-width listing with a header row.
func (c *Catalog) Table() string {
	if len(c.books) == 0 {
		return EmptyTableMessage + "\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%-6s %-25s %-20s %-15s %-10s\n", "ID", "Title", "Author", "Category", "Avail/Total")
	sb.WriteString(tableRule)
	sb.WriteByte('\n')
	for _, b := range c.books {
		fmt.Fprintf(&sb, "%-6d %-25s %-20s %-15s %d/%d\n",
			b.ID, b.Title, b.Author, b.Category, b.AvailableCopies, b.TotalCopies)
	}
	return sb.String()
}
