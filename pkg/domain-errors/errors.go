// Package errors provides coded domain errors shared across modules.
//
// Stores return sentinel errors (pkg/platform/sentinel); repositories and
// services translate them into coded errors so callers can branch on the
// code without knowing which store produced the failure.
package errors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error.
type Code string

const (
	// CodeValidation marks caller input rejected before any store call.
	CodeValidation Code = "validation"
	// CodeConversion marks a stored document whose shape cannot be
	// interpreted. The record needs manual repair, not a retry.
	CodeConversion Code = "conversion"
	// CodeNotFound marks a lookup for an id absent from the store.
	CodeNotFound Code = "not_found"
	// CodeConflict marks a write that lost to a competing state.
	CodeConflict Code = "conflict"
	// CodeUnavailable marks a failure of the underlying store driver
	// (network, permission, quota). Retry policy is the caller's call.
	CodeUnavailable Code = "unavailable"
	// CodeInternal marks everything that should not happen.
	CodeInternal Code = "internal"
)

// Error is a coded error with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// New creates a coded error without a cause.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err or anything it wraps carries the given code.
func HasCode(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code of err, or CodeInternal if err is not coded.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}
