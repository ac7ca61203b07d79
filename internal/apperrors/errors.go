// Package apperrors defines the error taxonomy shared by the service layer,
// the HTTP surface, and the client: validation errors (bad input, raised
// before any store access), not-found errors, and store errors wrapping the
// underlying persistence failure.
package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError indicates bad or missing input, detected before the store
// is touched.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidation creates a ValidationError with the given user-facing message.
func NewValidation(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// NotFoundError indicates a referenced record does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// NewNotFound creates a NotFoundError with the given user-facing message.
func NewNotFound(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

// StoreError wraps a persistence failure (I/O, connection, driver fault).
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStore wraps err as a StoreError for the named operation.
func NewStore(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsStore reports whether err is a StoreError.
func IsStore(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
