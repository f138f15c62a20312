// Package errors provides structured error types for squaremap.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the CLI and the HTTP endpoint
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// The codes mirror the failure classes of the rendering pipeline:
//   - DEGENERATE_INPUT: empty weight lists, zero totals or zero areas
//   - MALFORMED_DATA: the source table lacks a required column
//   - IO_WRITE: the output destination cannot be written
//   - INVALID_*: flag and request validation failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDegenerateInput, "no weights to allocate")
//	if errors.Is(err, errors.ErrCodeDegenerateInput) {
//	    // Handle degenerate input
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeIOWrite, origErr, "write %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Layout input errors
	ErrCodeDegenerateInput Code = "DEGENERATE_INPUT"

	// Data source errors
	ErrCodeMalformedData Code = "MALFORMED_DATA"
	ErrCodeFileNotFound  Code = "FILE_NOT_FOUND"

	// Output errors
	ErrCodeIOWrite Code = "IO_WRITE"

	// Validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsClientError reports whether err was caused by the caller's input rather
// than by the environment. The HTTP endpoint maps these to 400 responses.
func IsClientError(err error) bool {
	switch GetCode(err) {
	case ErrCodeDegenerateInput, ErrCodeMalformedData, ErrCodeInvalidInput, ErrCodeInvalidFormat:
		return true
	}
	return false
}
