// Package common defines shared constants and sentinel errors used across
// filevault server and client layers. Callers should use errors.Is / errors.As
// to match these values.
package common

import (
	"errors"
	"fmt"
)

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal      = errors.New("internal error")
	ErrorUnauthorized  = errors.New("unauthorized")
	ErrorAccountLocked = errors.New("account locked")

	// Upload validation errors.
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file is too large")
	ErrInvalidInput    = errors.New("invalid input")

	// Share token errors. Transports must not tell these two apart.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// ErrorForbidden is returned when a principal may not touch a file.
// It also matches ErrorNotFound, so a foreign file and a missing one look the same.
var ErrorForbidden error = forbiddenError{}

type forbiddenError struct{}

func (forbiddenError) Error() string { return "file not found or access denied" }

func (forbiddenError) Is(target error) bool { return target == ErrorNotFound }

// ValidationError reports a rejected input. The message is safe to show to the caller.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// StoreError wraps a byte-store failure (disk, permissions, object storage).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }

func (e *StoreError) Unwrap() error { return e.Err }

// PersistenceError wraps a metadata-store failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string { return fmt.Sprintf("persistence %s: %v", e.Op, e.Err) }

func (e *PersistenceError) Unwrap() error { return e.Err }
