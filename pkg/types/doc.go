// Package types defines the Book entity, its field limits, the standard
// errors returned by catalog operations, and the Config used to select a
// storage backend.
package types
