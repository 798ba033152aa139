// Package errors provides coded errors for pathquery.
//
// Every error that crosses a package boundary towards the CLI or the API
// carries a [Code]. The CLI prints the message; the API maps the code to an
// HTTP status and returns it in the response body. Plain Go errors (sentinel
// values in graph, cache misses) stay internal and get wrapped at the edge.
//
// Codes:
//   - INVALID_*: bad input, rejected before any work is done. The query
//     core fails with [ErrCodeInvalidParameter] for a negative limit or an
//     empty source set, and with [ErrCodeInvalidPattern] when a pattern
//     cannot be built.
//   - NOT_FOUND: unknown network or result
//   - STORAGE_ERROR, TIMEOUT: backend trouble
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// Usage:
//
//	if limit < 0 {
//	    return errors.New(errors.ErrCodeInvalidParameter, "limit must be >= 0, got %d", limit)
//	}
//	if err := st.Save(ctx, n); err != nil {
//	    return errors.Wrap(errors.ErrCodeStorage, err, "save network %s", n.Name)
//	}
//	if errors.Is(err, errors.ErrCodeNotFound) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	ErrCodeInvalidInput     Code = "INVALID_INPUT"
	ErrCodeInvalidParameter Code = "INVALID_PARAMETER"
	ErrCodeInvalidPattern   Code = "INVALID_PATTERN"
	ErrCodeInvalidFormat    Code = "INVALID_FORMAT"
	ErrCodeInvalidName      Code = "INVALID_NAME"

	ErrCodeNotFound Code = "NOT_FOUND"

	ErrCodeStorage Code = "STORAGE_ERROR"
	ErrCodeTimeout Code = "TIMEOUT"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is an error with a [Code] and an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats as "CODE: message" followed by ": cause" when there is one.
func (e *Error) Error() string {
	if e.Cause == nil {
		return string(e.Code) + ": " + e.Message
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches another *Error with the same code, so a bare
// &Error{Code: ErrCodeNotFound} works as a target for errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Message == "" && t.Cause == nil && t.Code == e.Code
}

// New returns an error with code and a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an error with code and a formatted message around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the outermost *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the outermost *Error in err's chain, or ""
// if there is none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns err's message without the code prefix or cause.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
