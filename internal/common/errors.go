// Package common defines shared constants and sentinel errors used across
// client and server layers of the postsets service. Callers should use errors.Is
// to match these values.
package common

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorBadRequest   = errors.New("bad request")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrorForbidden    = errors.New("forbidden")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
)

// NotFoundError carries a caller-facing message and matches ErrorNotFound.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }

func (e *NotFoundError) Unwrap() error { return ErrorNotFound }

// NewNotFound formats a NotFoundError.
func NewNotFound(format string, args ...any) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// BadRequestError carries a caller-facing message and matches ErrorBadRequest.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string { return e.Message }

func (e *BadRequestError) Unwrap() error { return ErrorBadRequest }

// NewBadRequest formats a BadRequestError.
func NewBadRequest(format string, args ...any) error {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// ConflictError carries a caller-facing message and matches ErrorConflict.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string { return e.Message }

func (e *ConflictError) Unwrap() error { return ErrorConflict }

// NewConflict formats a ConflictError.
func NewConflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

// InvalidMaskError lists every unrecognized field name of an update mask.
type InvalidMaskError struct {
	Fields []string
}

func (e *InvalidMaskError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("[%s] is not a valid mask value", e.Fields[0])
	}
	return fmt.Sprintf("[%s] are not valid mask values", strings.Join(e.Fields, ", "))
}

func (e *InvalidMaskError) Unwrap() error { return ErrorBadRequest }
