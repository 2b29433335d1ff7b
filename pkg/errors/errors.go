// Package errors defines the error taxonomy shared by the archive analysis packages.
package errors

import (
	"errors"
	"fmt"
)

// Error codes.
const (
	CodeUnknown          = "UNKNOWN_ERROR"
	CodeMalformedClass   = "MALFORMED_CLASS"
	CodeEntryReadFailure = "ENTRY_READ_FAILURE"
	CodeInvalidArgument  = "INVALID_ARGUMENT"
	CodeArchiveError     = "ARCHIVE_ERROR"
	CodeNotFound         = "NOT_FOUND"
	CodeConfigError      = "CONFIG_ERROR"
	CodeStorageError     = "STORAGE_ERROR"
	CodeDatabaseError    = "DATABASE_ERROR"
)

// AppError carries a stable code next to a human readable message.
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

// Is reports whether target is an AppError with the same code.
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

// Sentinels for errors.Is comparisons.
var (
	ErrMalformedClass  = New(CodeMalformedClass, "malformed class")
	ErrEntryRead       = New(CodeEntryReadFailure, "entry read failure")
	ErrInvalidArgument = New(CodeInvalidArgument, "invalid argument")
	ErrArchive         = New(CodeArchiveError, "archive error")
	ErrNotFound        = New(CodeNotFound, "resource not found")
	ErrConfigError     = New(CodeConfigError, "configuration error")
	ErrStorage         = New(CodeStorageError, "storage error")
	ErrDatabase        = New(CodeDatabaseError, "database error")
)

// IsMalformedClass checks if the error reports an unparseable class file.
func IsMalformedClass(err error) bool {
	return errors.Is(err, ErrMalformedClass)
}

// IsEntryReadFailure checks if the error reports an unreadable archive entry.
func IsEntryReadFailure(err error) bool {
	return errors.Is(err, ErrEntryRead)
}

// IsInvalidArgument checks if the error reports a missing or bad caller argument.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}

// IsArchiveError checks if the error reports an archive that could not be opened.
func IsArchiveError(err error) bool {
	return errors.Is(err, ErrArchive)
}

// IsNotFound checks if the error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
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
