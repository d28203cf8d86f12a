package http

import (
	"errors"
	"fmt"
)

// Error is an error carrying an HTTP status code. Handlers and middleware
// return it to control the status of the generated error response.
type Error struct {
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return StatusText(e.Status)
	}
	return fmt.Sprintf("%s: %v", StatusText(e.Status), e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewError wraps err with an HTTP status.
func NewError(status int, err error) *Error {
	return &Error{Status: status, Err: err}
}

// Errorf builds an Error from a format string.
func Errorf(status int, format string, args ...any) *Error {
	return &Error{Status: status, Err: fmt.Errorf(format, args...)}
}

// StatusOf extracts the status carried by err, defaulting to 500.
func StatusOf(err error) int {
	var he *Error
	if errors.As(err, &he) {
		return he.Status
	}
	return StatusInternalServerError
}
