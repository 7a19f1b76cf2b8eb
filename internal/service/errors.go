// Package service implements the finance use cases. Every operation takes the
// acting user's ID explicitly and never trusts IDs found in request bodies.
package service

import (
	"errors"
	"fmt"

	"github.com/hongminglow/finance-be/internal/storage"
)

// Error kinds. Match them with errors.Is.
var (
	ErrInvalid      = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error carries a client-safe message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func invalid(format string, args ...any) error {
	return &Error{Kind: ErrInvalid, Message: fmt.Sprintf(format, args...)}
}

func notFound(what string) error {
	return &Error{Kind: ErrNotFound, Message: what + " not found"}
}

func conflict(format string, args ...any) error {
	return &Error{Kind: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

func unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}

// storeError turns storage sentinels into service errors and wraps anything else.
func storeError(err error, what, action string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return notFound(what)
	case errors.Is(err, storage.ErrAlreadyExists):
		return conflict("%s already exists", what)
	case errors.Is(err, storage.ErrInUse):
		return conflict("%s is in use", what)
	default:
		return fmt.Errorf("%s %s: %w", action, what, err)
	}
}
