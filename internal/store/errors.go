package store

import "errors"

var (
	// ErrNotFound is returned when no document matches a filter.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when an insert violates a unique field.
	ErrDuplicate = errors.New("duplicate key")
)
