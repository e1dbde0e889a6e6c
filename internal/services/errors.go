package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every *Error wraps exactly one of them.
var (
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("service unavailable")
	ErrUpstream     = errors.New("upstream failure")
)

// Error is a failure with a message meant for API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Validation builds an ErrValidation error.
func Validation(format string, args ...any) *Error {
	return newError(ErrValidation, format, args...)
}
