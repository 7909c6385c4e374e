// Package errors defines the error taxonomy for chart conversion.
//
// Every failure surfaced by the converter carries a Code so the CLI can
// report it uniformly and tests can assert on the category rather than
// the message text:
//
//	err := errors.New(errors.CodeInvalidData, "duplicate id %q", id)
//	if errors.Is(err, errors.CodeInvalidData) {
//	    // ...
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// CodeMalformedInput: the payload is not JSON or lacks the expected shape.
	CodeMalformedInput Code = "MALFORMED_INPUT"
	// CodeInvalidData: well-formed input with values that cannot be charted.
	CodeInvalidData Code = "INVALID_DATA"
	// CodeCyclicHierarchy: the parent relation loops back on itself.
	CodeCyclicHierarchy Code = "CYCLIC_HIERARCHY"
	// CodeEmptyTotal: the aggregated grand total is zero or negative.
	CodeEmptyTotal Code = "EMPTY_TOTAL"
	// CodeRender: the renderer could not produce the output image.
	CodeRender Code = "RENDER_ERROR"
	// CodeConfig: configuration values are out of range or unknown.
	CodeConfig Code = "CONFIG_ERROR"
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
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

func Malformed(format string, args ...any) *Error {
	return New(CodeMalformedInput, format, args...)
}

func InvalidData(format string, args ...any) *Error {
	return New(CodeInvalidData, format, args...)
}

func Cyclic(format string, args ...any) *Error {
	return New(CodeCyclicHierarchy, format, args...)
}

func EmptyTotal(format string, args ...any) *Error {
	return New(CodeEmptyTotal, format, args...)
}

// RenderFailed wraps a renderer or output-file failure.
func RenderFailed(cause error, format string, args ...any) *Error {
	return Wrap(CodeRender, cause, format, args...)
}
