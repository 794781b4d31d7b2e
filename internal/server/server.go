// Package server exposes the catalog over a small REST API.
package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/shelf/internal/catalog"
	"github.com/mesh-intelligence/shelf/internal/store"
	"github.com/mesh-intelligence/shelf/pkg/types"
)

// addBookRequest is the POST /api/books body.
type addBookRequest struct {
	ID          *int   `json:"id"`
	Title       string `json:"title"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	TotalCopies *int   `json:"totalCopies"`
}

// Server serves the catalog held by a Store. Every request loads the
// catalog, applies at most one mutation, and saves it back while holding
// mu, so requests within one process never interleave.
type Server struct {
	mu     sync.Mutex
	store  store.Store
	logger zerolog.Logger
}

// New returns a Server over s.
func New(s store.Store, logger zerolog.Logger) *Server {
	return &Server{
		store:  s,
		logger: logger.With().Str("component", "server").Logger(),
	}
}

// Handler builds the gin engine with all routes registered.
func (s *Server) Handler() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger(s.logger), CORS())

	api := r.Group("/api")
	api.GET("/books", s.listBooks)
	api.POST("/books", s.addBook)
	api.DELETE("/books/:id", s.deleteBook)
	api.POST("/books/:id/issue", s.issueBook)
	api.POST("/books/:id/return", s.returnBook)
	return r
}

func (s *Server) listBooks(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cat, err := s.store.Load(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusInternalServerError, "Failed to list books", err)
		return
	}
	c.JSON(http.StatusOK, books(cat))
}

func (s *Server) addBook(c *gin.Context) {
	var req addBookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON body"})
		return
	}
	if req.ID == nil || req.Title == "" || req.Author == "" || req.Category == "" || req.TotalCopies == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing fields"})
		return
	}
	s.mutate(c, "Failed to add book", func(cat *catalog.Catalog) error {
		return cat.Insert(*req.ID, req.Title, req.Author, req.Category, *req.TotalCopies)
	})
}

func (s *Server) deleteBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	s.mutate(c, "Failed to delete book", func(cat *catalog.Catalog) error {
		return cat.Remove(id)
	})
}

func (s *Server) issueBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	s.mutate(c, "Failed to issue book", func(cat *catalog.Catalog) error {
		return cat.Issue(id)
	})
}

func (s *Server) returnBook(c *gin.Context) {
	id, ok := bookID(c)
	if !ok {
		return
	}
	s.mutate(c, "Failed to return book", func(cat *catalog.Catalog) error {
		return cat.Return(id)
	})
}

// mutate runs one load-mutate-save cycle and writes the resulting catalog.
// A load failure answers 500 and never saves, so data the store could not
// read is not overwritten.
func (s *Server) mutate(c *gin.Context, failMsg string, fn func(*catalog.Catalog) error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx := context.WithoutCancel(c.Request.Context())
	cat, err := s.store.Load(ctx)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, failMsg, err)
		return
	}
	if err := fn(cat); err != nil {
		s.fail(c, statusFor(err), err.Error(), err)
		return
	}
	if err := s.store.Save(ctx, cat); err != nil {
		s.fail(c, http.StatusInternalServerError, failMsg, err)
		return
	}
	c.JSON(http.StatusOK, books(cat))
}

func (s *Server) fail(c *gin.Context, status int, msg string, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.FullPath()).Msg(msg)
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}

// statusFor maps catalog errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, types.ErrDuplicateID),
		errors.Is(err, types.ErrExhausted),
		errors.Is(err, types.ErrOverReturn):
		return http.StatusConflict
	case errors.Is(err, types.ErrInvalidCopies):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// bookID parses the :id path parameter, answering 400 when it is not an integer.
func bookID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid book ID"})
		return 0, false
	}
	return id, true
}

// books returns a non-nil slice so an empty catalog encodes as [].
func books(c *catalog.Catalog) []types.Book {
	return c.Books()
}
