// Package errors provides structured error handling with typed error codes.
//
// Error codes are organized into categories:
//   - General errors (1-99): Unknown and general errors
//   - Document errors (100-199): Editing, clipboard, and block type errors
//   - Serialization errors (200-299): YAML/Python encode and decode errors
//   - Persistence errors (300-399): Save transport and server errors
//   - Preset/import errors (400-499): Preset catalog and file import errors
//
// Usage:
//
//	// Create a new error
//	err := errors.New(errors.ErrCodeTypeMismatch, "block not allowed here")
//
//	// Create a formatted error
//	err := errors.Newf(errors.ErrCodeUnknownType, "type %q inconnu", key)
//
//	// Wrap an existing error
//	err := errors.Wrap(errors.ErrCodeParseError, "failed to parse YAML", originalErr)
//
//	// Check error code
//	if errors.HasCode(err, errors.ErrCodeNetworkError) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Error represents a structured error with an error code and message.
type Error struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// New creates a new Error with the given code and message.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   nil,
	}
}

// Newf creates a new Error with the given code and formatted message.
func Newf(code ErrorCode, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   nil,
	}
}

// Wrap wraps an existing error with a new Error containing the given code and message.
func Wrap(code ErrorCode, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Wrapf wraps an existing error with a new Error containing the given code and formatted message.
func Wrapf(code ErrorCode, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%d] %s: %v", e.Code, e.Message, e.Cause)
	}

	return fmt.Sprintf("[%d] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard errors.Is function.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard errors.As function.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// GetCode extracts the ErrorCode from an error if it's an *Error type.
// Returns ErrCodeUnknown if the error is not an *Error type.
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return ErrCodeUnknown
}

// HasCode checks if an error has a specific ErrorCode.
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}

// GetMessage extracts the user-facing message from an error if it's an
// *Error type. Returns err.Error() otherwise.
func GetMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}

	return err.Error()
}

// PathError represents an error located at a specific node path in a
// strategy document (e.g. "Condition #2 > Logique > Bloc 1").
type PathError struct {
	Path    string // Node path where the error was detected
	Message string // Human-readable message
}

// NewPathError creates a new PathError.
func NewPathError(path, message string) *PathError {
	return &PathError{
		Path:    path,
		Message: message,
	}
}

// NewPathErrorf creates a new PathError with a formatted message.
func NewPathErrorf(path, format string, args ...any) *PathError {
	return &PathError{
		Path:    path,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *PathError) Error() string {
	if e.Path == "" {
		return e.Message
	}

	return fmt.Sprintf("%s — %s", e.Path, e.Message)
}

// IsPathError checks if an error is a PathError.
// It uses errors.As to check the error chain.
func IsPathError(err error) bool {
	var pathErr *PathError

	return errors.As(err, &pathErr)
}
