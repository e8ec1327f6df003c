// Package errors carries machine-readable codes on opptree errors.
//
// The CLI prints [UserMessage] and exits non-zero; the preview server maps
// the [Code] to an HTTP status. The tree engine never fails on bad records:
// it attaches coded errors to the forest as issues and keeps building, and
// callers summarize them with [CountByCode].
//
//	err := errors.New(errors.ErrCodeNodeNotFound, "node %q not found", k)
//	if errors.Is(err, errors.ErrCodeNodeNotFound) {
//	    ...
//	}
//
// [Wrap] keeps the cause reachable through the standard errors.Is and
// errors.As.
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable, upper-case error identifier.
type Code string

const (
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidKey    Code = "INVALID_KEY"
	ErrCodeInvalidStage  Code = "INVALID_STAGE"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidPath   Code = "INVALID_PATH"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// ErrCodeDepthExceeded marks records nested deeper than their kind allows.
	ErrCodeDepthExceeded Code = "DEPTH_EXCEEDED"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeNodeNotFound Code = "NODE_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is an error with a code, a message for users and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap is New with a cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	e := New(code, format, args...)
	e.Cause = cause
	return e
}

// find returns the outermost *Error in the chain of err.
func find(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

// Is reports whether the outermost *Error in the chain of err has code.
func Is(err error, code Code) bool {
	e, ok := find(err)
	return ok && e.Code == code
}

// GetCode returns the code of the outermost *Error in the chain of err,
// or "" when there is none.
func GetCode(err error) Code {
	if e, ok := find(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without code or cause, falling back to
// err.Error() for uncoded errors.
func UserMessage(err error) string {
	if e, ok := find(err); ok {
		return e.Message
	}
	return err.Error()
}

// CountByCode tallies errs by code; uncoded errors count under "".
func CountByCode(errs []error) map[Code]int {
	counts := make(map[Code]int, len(errs))
	for _, err := range errs {
		counts[GetCode(err)]++
	}
	return counts
}
