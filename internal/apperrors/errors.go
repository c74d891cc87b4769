// Package apperrors provides the pipeline's typed error value.
//
// Errors returned by the repositories, the scraper, configuration loading
// and the HTTP handlers are classified by an ErrorType so callers can branch
// on the kind of failure without string-matching. Wrap accumulates context as an
// error climbs back up the call stack while keeping the original cause
// reachable through errors.Unwrap/errors.As.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrorType classifies an AppError.
type ErrorType string

const (
	// ErrUnknown is the zero value — an error whose type was never set.
	ErrUnknown ErrorType = "Unknown"

	// ErrInternal marks a bug or unrecoverable internal state.
	ErrInternal ErrorType = "Internal"

	// ErrInvalidInput marks bad input: malformed config, empty artist name,
	// invalid JSON from the LLM.
	ErrInvalidInput ErrorType = "InvalidInput"

	// ErrNotFound marks a missing resource, e.g. an artist name with no
	// matching row in the source database.
	ErrNotFound ErrorType = "NotFound"

	// ErrExecutionFailed marks a crawl or parse failure: non-2xx response,
	// unexpected DOM shape, broken selector.
	ErrExecutionFailed ErrorType = "ExecutionFailed"

	// ErrUnavailable marks a transient upstream outage: site or LLM
	// temporarily unreachable, rate-limited.
	ErrUnavailable ErrorType = "Unavailable"

	// ErrTimeout marks a context deadline or request timeout.
	ErrTimeout ErrorType = "Timeout"
)

// AppError is the pipeline's error value.
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates an error of the given type.
func New(t ErrorType, message string) error {
	return &AppError{Type: t, Message: message}
}

// Newf creates an error of the given type with a formatted message.
func Newf(t ErrorType, format string, args ...interface{}) error {
	return New(t, fmt.Sprintf(format, args...))
}

// Wrap attaches a type and message to an existing error, preserving it as
// the Cause.
func Wrap(err error, t ErrorType, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{Type: t, Message: message, Cause: err}
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, t ErrorType, format string, args ...interface{}) error {
	return Wrap(err, t, fmt.Sprintf(format, args...))
}

// Is reports whether err is an *AppError of type t.
func Is(err error, t ErrorType) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type == t
	}
	return false
}

// Cause returns the wrapped error, or nil if err is not an *AppError or
// carries no cause.
func Cause(err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Cause
	}
	return nil
}
