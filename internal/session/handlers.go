package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/shelf/pkg/types"
)

func handleAdd(s *Session) {
	id, err := s.promptInt("Enter Book ID (integer): ")
	if err != nil {
		s.fieldError(err)
		return
	}
	title, err := s.prompt("Enter Title: ")
	if err != nil {
		s.fieldError(err)
		return
	}
	author, err := s.prompt("Enter Author: ")
	if err != nil {
		s.fieldError(err)
		return
	}
	category, err := s.prompt("Enter Category: ")
	if err != nil {
		s.fieldError(err)
		return
	}
	total, err := s.promptInt("Enter Total Copies: ")
	if err != nil {
		s.fieldError(err)
		return
	}

	switch err := s.catalog.Insert(id, title, author, category, total); {
	case err == nil:
		fmt.Fprintln(s.out, "Book added successfully.")
	case errors.Is(err, types.ErrDuplicateID):
		fmt.Fprintf(s.out, "Book ID %d already exists! Not adding duplicate.\n", id)
	default:
		fmt.Fprintf(s.out, "Could not add book: %v.\n", err)
	}
}

func handleDelete(s *Session) {
	id, err := s.promptInt("Enter Book ID to delete: ")
	if err != nil {
		s.fieldError(err)
		return
	}
	if err := s.catalog.Remove(id); err != nil {
		fmt.Fprintf(s.out, "Book with ID %d not found.\n", id)
		return
	}
	fmt.Fprintln(s.out, "Book deleted successfully.")
}

func handleSearch(s *Session) {
	id, err := s.promptInt("Enter Book ID to search: ")
	if err != nil {
		s.fieldError(err)
		return
	}
	b, err := s.catalog.Get(id)
	if err != nil {
		fmt.Fprintf(s.out, "Book with ID %d not found.\n", id)
		return
	}
	fmt.Fprintln(s.out, "Book found!")
	fmt.Fprintf(s.out, "ID: %d\nTitle: %s\nAuthor: %s\nCategory: %s\nAvailable: %d\nTotal: %d\n",
		b.ID, b.Title, b.Author, b.Category, b.AvailableCopies, b.TotalCopies)
}

func handleIssue(s *Session) {
	id, err := s.promptInt("Enter Book ID to issue: ")
	if err != nil {
		s.fieldError(err)
		return
	}
	switch err := s.catalog.Issue(id); {
	case err == nil:
		fmt.Fprintln(s.out, "Book issued successfully.")
	case errors.Is(err, types.ErrNotFound):
		fmt.Fprintf(s.out, "Book with ID %d not found.\n", id)
	default:
		fmt.Fprintln(s.out, "No copies available to issue.")
	}
}

func handleReturn(s *Session) {
	id, err := s.promptInt("Enter Book ID to return: ")
	if err != nil {
		s.fieldError(err)
		return
	}
	switch err := s.catalog.Return(id); {
	case err == nil:
		fmt.Fprintln(s.out, "Book returned successfully.")
	case errors.Is(err, types.ErrNotFound):
		fmt.Fprintf(s.out, "Book with ID %d not found.\n", id)
	default:
		fmt.Fprintln(s.out, "All copies are already in library. Cannot return extra.")
	}
}

func handleDisplay(s *Session) {
	fmt.Fprintln(s.out)
	fmt.Fprint(s.out, s.catalog.Table())
}

func handleExport(ctx context.Context, s *Session) {
	if err := s.exporter.Save(ctx, s.catalog); err != nil {
		s.logger.Error().Err(err).Str("file", s.exportName).Msg("export failed")
		fmt.Fprintf(s.out, "Error opening file %s for writing.\n", s.exportName)
		return
	}
	fmt.Fprintf(s.out, "Books exported to %s successfully.\n", s.exportName)
}
