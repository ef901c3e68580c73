// Package errors provides structured error types for notepager.
//
// Every failure surfaced by the public API carries a machine-readable Code so
// callers can tell a rejected configuration apart from unparseable markup
// without matching on message text.
//
//	pages, err := p.BuildLayoutPages(in)
//	if errors.Is(err, errors.ErrCodeInvalidConfig) {
//	    // bad paper size, orientation or negative margin
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// ErrCodeInvalidConfig marks an unsupported paper size, orientation or
	// a negative margin/band value.
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	// ErrCodeParse marks markup that could not be turned into a block tree.
	ErrCodeParse Code = "PARSE_ERROR"
	// ErrCodeInvalidInput marks caller mistakes outside the layout config,
	// such as an unknown export format.
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	// ErrCodeRender marks a failure while exporting a page sequence.
	ErrCodeRender Code = "RENDER_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns the message without the code prefix for *Error values
// and the plain error string otherwise.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
