// Package errors defines common error types for the application.
package errors

import (
	"errors"
	"fmt"
)

// Error codes for the application.
const (
	CodeUnknown          = "UNKNOWN_ERROR"
	CodeMalformedMessage = "MALFORMED_MESSAGE"
	CodeHighlightError   = "HIGHLIGHT_ERROR"
	CodeUnexpectedMarkup = "UNEXPECTED_MARKUP"
	CodeIOError          = "IO_ERROR"
	CodeDecodeError      = "DECODE_ERROR"
	CodeInvalidInput     = "INVALID_INPUT"
	CodeConfigError      = "CONFIG_ERROR"
	CodeDatabaseError    = "DATABASE_ERROR"
	CodeUploadError      = "UPLOAD_ERROR"
	CodeNotFound         = "NOT_FOUND"
)

// AppError represents an application error with a code and message.
type AppError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another AppError by code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError.
func New(code string, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code string, format string, args ...interface{}) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps an existing error with an AppError.
func Wrap(code string, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error instances.
var (
	ErrMalformedMessage = New(CodeMalformedMessage, "malformed message item")
	ErrHighlight        = New(CodeHighlightError, "highlighting failed")
	ErrUnexpectedMarkup = New(CodeUnexpectedMarkup, "unexpected highlighter markup")
	ErrIO               = New(CodeIOError, "i/o error")
	ErrDecode           = New(CodeDecodeError, "decode error")
	ErrInvalidInput     = New(CodeInvalidInput, "invalid input")
	ErrConfigError      = New(CodeConfigError, "configuration error")
	ErrDatabaseError    = New(CodeDatabaseError, "database error")
	ErrUploadError      = New(CodeUploadError, "upload error")
	ErrNotFound         = New(CodeNotFound, "resource not found")
)

// IsMalformedMessage checks if the error is a malformed message item error.
func IsMalformedMessage(err error) bool {
	return errors.Is(err, ErrMalformedMessage)
}

// IsHighlightError checks if the error is a recoverable highlighting failure.
func IsHighlightError(err error) bool {
	return errors.Is(err, ErrHighlight)
}

// IsUnexpectedMarkup checks if the error is a highlighter contract violation.
func IsUnexpectedMarkup(err error) bool {
	return errors.Is(err, ErrUnexpectedMarkup)
}

// IsIOError checks if the error is a filesystem error.
func IsIOError(err error) bool {
	return errors.Is(err, ErrIO)
}

// IsDecodeError checks if the error is a dump decode error.
func IsDecodeError(err error) bool {
	return errors.Is(err, ErrDecode)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsFatal reports whether err must abort report generation. Only
// highlighting failures are recovered locally.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	return !IsHighlightError(err)
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

// GetErrorMessage extracts the error message from an error.
func GetErrorMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}
