package errors

import (
	"fmt"
)

// Error is the structured error type for tdmcp.
// It provides rich context for error handling, logging, and user presentation.
type Error struct {
	// Code is the unique error code (e.g., "ERR_301_DOC_MISSING_ID").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Persistence, Validation, ...).
	Category Category

	// Severity is the error severity level.
	Severity Severity

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if this error matches the target error by code.
// This enables errors.Is() to work with Error.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
// Returns the error for method chaining.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with the given code and message.
// Category and severity are derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Severity: severityFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an Error from an existing error.
// The error's message becomes the Error message. Returns nil for nil input.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// ValidationError creates a document-validation error.
// The offending document is skipped and the batch continues.
func ValidationError(code, message string) *Error {
	return New(code, message, nil)
}

// QueryError creates an unusable-query error. Query errors surface as an
// empty result set plus suggestions, never as a hard failure to the caller.
func QueryError(code, message string) *Error {
	return New(code, message, nil)
}

// PersistenceError creates a snapshot read/write error.
func PersistenceError(code, message string, cause error) *Error {
	return New(code, message, cause)
}

// CacheError creates a result-cache error. Cache errors are never
// propagated; searches fall through to live computation.
func CacheError(message string, cause error) *Error {
	return New(ErrCodeCacheCorrupt, message, cause)
}

// IsFatal checks if an error has fatal severity.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if te, ok := err.(*Error); ok {
		return te.Severity == SeverityFatal
	}
	return false
}

// GetCode extracts the error code from an Error.
// Returns empty string if not an Error.
func GetCode(err error) string {
	if te, ok := err.(*Error); ok {
		return te.Code
	}
	return ""
}

// GetCategory extracts the category from an Error.
// Returns empty string if not an Error.
func GetCategory(err error) Category {
	if te, ok := err.(*Error); ok {
		return te.Category
	}
	return ""
}
