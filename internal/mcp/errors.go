// Package mcp implements the Model Context Protocol server exposing
// the TouchDesigner documentation search engine to AI clients.
package mcp

import (
	"errors"
	"fmt"

	tderrors "github.com/touchdocs/tdmcp/internal/errors"
)

// MCP error codes. Negative codes below -32000 are server-defined.
const (
	// ErrCodeIndexNotReady indicates the index is still loading or building.
	ErrCodeIndexNotReady = -32001

	// ErrCodeDocumentNotFound indicates no document exists for the id.
	ErrCodeDocumentNotFound = -32002

	// Standard JSON-RPC error codes.
	ErrCodeInvalidParams = -32602
	ErrCodeInternalError = -32603
)

// Error is an MCP protocol error with a JSON-RPC code.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// NewInvalidParamsError creates an invalid-params error.
func NewInvalidParamsError(message string) *Error {
	return &Error{Code: ErrCodeInvalidParams, Message: message}
}

// NewDocumentNotFoundError creates a not-found error for a document id.
func NewDocumentNotFoundError(id string) *Error {
	return &Error{Code: ErrCodeDocumentNotFound, Message: fmt.Sprintf("no document with id %q", id)}
}

// MapError converts internal errors to MCP protocol errors.
func MapError(err error) *Error {
	if err == nil {
		return nil
	}

	var mcpErr *Error
	if errors.As(err, &mcpErr) {
		return mcpErr
	}

	var tdErr *tderrors.Error
	if errors.As(err, &tdErr) {
		switch tdErr.Category {
		case tderrors.CategoryValidation, tderrors.CategoryQuery:
			return &Error{Code: ErrCodeInvalidParams, Message: tdErr.Message}
		}
		switch tdErr.Code {
		case tderrors.ErrCodeNotReady:
			return &Error{Code: ErrCodeIndexNotReady, Message: tdErr.Message}
		}
		return &Error{Code: ErrCodeInternalError, Message: tdErr.Message}
	}

	return &Error{Code: ErrCodeInternalError, Message: err.Error()}
}
