// Package session runs the interactive numbered-menu driver over a catalog.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/shelf/internal/catalog"
)

const menu = `
===== Library Book Tracking System =====
1. Add Book
2. Delete Book
3. Search Book
4. Issue Book
5. Return Book
6. Display All Books
7. Export Books to File (%s)
0. Exit
Enter your choice: `

// maxAnswerSize bounds one answer line.
const maxAnswerSize = 1 << 20

var (
	errEOF           = errors.New("end of input")
	errInvalidNumber = errors.New("invalid number")
)

// Exporter writes the catalog somewhere durable.
type Exporter interface {
	Save(ctx context.Context, c *catalog.Catalog) error
}

// Session holds the state of one interactive run. Handlers receive the
// session explicitly; nothing is global.
type Session struct {
	ID string

	catalog    *catalog.Catalog
	in         *bufio.Scanner
	out        io.Writer
	exporter   Exporter
	exportName string
	logger     zerolog.Logger
	done       bool
	err        error
}

// New creates a session over c, reading answers from in and writing
// prompts to out. Menu option 7 saves through exporter; exportName is
// shown to the user.
func New(c *catalog.Catalog, in io.Reader, out io.Writer, exporter Exporter, exportName string, logger zerolog.Logger) *Session {
	id := uuid.New()
	if v7, err := uuid.NewV7(); err == nil {
		id = v7
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 4096), maxAnswerSize)
	return &Session{
		ID:         id.String(),
		catalog:    c,
		in:         scanner,
		out:        out,
		exporter:   exporter,
		exportName: exportName,
		logger:     logger.With().Str("session", id.String()).Logger(),
	}
}

// Catalog returns the catalog the session mutates.
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Run shows the menu until the user chooses 0, input ends, or ctx is
// cancelled. It returns ctx's error or an input read error; EOF is not
// an error.
func (s *Session) Run(ctx context.Context) error {
	s.logger.Debug().Int("books", s.catalog.Len()).Msg("session started")
	for !s.done {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprintf(s.out, menu, s.exportName)

		line, err := s.readLine()
		if err != nil {
			s.stop(err)
			break
		}
		choice, err := strconv.Atoi(strings.TrimSpace(line))
		if err != nil {
			fmt.Fprintln(s.out, "Invalid input. Please enter a number.")
			continue
		}
		s.dispatch(ctx, choice)
	}
	s.logger.Debug().Int("books", s.catalog.Len()).Msg("session ended")
	return s.err
}

func (s *Session) dispatch(ctx context.Context, choice int) {
	switch choice {
	case 1:
		handleAdd(s)
	case 2:
		handleDelete(s)
	case 3:
		handleSearch(s)
	case 4:
		handleIssue(s)
	case 5:
		handleReturn(s)
	case 6:
		handleDisplay(s)
	case 7:
		handleExport(ctx, s)
	case 0:
		fmt.Fprintln(s.out, "Exiting...")
		s.done = true
	default:
		fmt.Fprintln(s.out, "Invalid choice. Please try again.")
	}
}

// readLine returns the next input line without its terminator.
func (s *Session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", errEOF
	}
	return strings.TrimSuffix(s.in.Text(), "\r"), nil
}

func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	return s.readLine()
}

func (s *Session) promptInt(label string) (int, error) {
	line, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, errInvalidNumber
	}
	return n, nil
}

// fieldError reports a failed prompt. An invalid number returns to the
// menu; anything else ends the session.
func (s *Session) fieldError(err error) {
	if errors.Is(err, errInvalidNumber) {
		fmt.Fprintln(s.out, "Invalid input. Please enter a number.")
		return
	}
	s.stop(err)
}

// stop ends the session. EOF is a normal exit; any other input error is
// kept and returned by Run.
func (s *Session) stop(err error) {
	s.done = true
	if errors.Is(err, errEOF) {
		fmt.Fprintln(s.out, "\nExiting...")
		return
	}
	s.err = fmt.Errorf("reading input: %w", err)
	s.logger.Error().Err(err).Msg("input failed")
}
