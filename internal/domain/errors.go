package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// HTTPError defines errors that can be mapped to HTTP status codes.
// Implementing this interface keeps status mapping out of the services.
type HTTPError interface {
	error
	StatusCode() int
}

type (
	// NotFoundError indicates a referenced application or folder does not exist
	NotFoundError struct {
		Message string
	}

	// InvalidParameterError indicates a malformed identifier or request field.
	// Field names the offending parameter so the HTTP layer can surface it.
	InvalidParameterError struct {
		Field   string
		Message string
	}

	// FolderMismatchError indicates a requested folder belongs to a different
	// application than the one named in the request
	FolderMismatchError struct {
		FolderID      string
		ApplicationID string
	}
)

func (e *NotFoundError) Error() string { return e.Message }

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Message)
}

func (e *FolderMismatchError) Error() string {
	return fmt.Sprintf("folder %s does not belong to application %s", e.FolderID, e.ApplicationID)
}

func (e *NotFoundError) StatusCode() int         { return http.StatusNotFound }
func (e *InvalidParameterError) StatusCode() int { return http.StatusBadRequest }
func (e *FolderMismatchError) StatusCode() int   { return http.StatusBadRequest }

// Sentinel errors - use with errors.Is()
var (
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("already exists")
	ErrValidation    = errors.New("validation failed")
	ErrConsolidation = errors.New("consolidation failed")
)

func (e *NotFoundError) Is(target error) bool         { return target == ErrNotFound }
func (e *InvalidParameterError) Is(target error) bool { return target == ErrValidation }
func (e *FolderMismatchError) Is(target error) bool   { return target == ErrValidation }

// ConsolidationFailedError wraps a transaction-level failure during a folder
// merge. It carries the application id and underlying cause; the operation is
// safe to retry because a completed merge degrades to a no-op.
type ConsolidationFailedError struct {
	ApplicationID string
	Cause         error
}

func (e *ConsolidationFailedError) Error() string {
	return fmt.Sprintf("consolidation failed for application %s: %v", e.ApplicationID, e.Cause)
}

// StatusCode maps to 503: the condition is transient and retryable
func (e *ConsolidationFailedError) StatusCode() int { return http.StatusServiceUnavailable }

func (e *ConsolidationFailedError) Unwrap() error { return e.Cause }

func (e *ConsolidationFailedError) Is(target error) bool { return target == ErrConsolidation }
