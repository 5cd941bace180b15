// Package errors defines the categorized error taxonomy shared by the
// storage, service, and API layers. Raw storage errors never cross the API
// boundary: repositories translate driver errors into this taxonomy and the
// API layer maps categories to HTTP status codes.
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Category groups errors by how the API layer should respond to them.
type Category string

const (
	// CategoryValidation represents malformed or missing input (400)
	CategoryValidation Category = "validation"
	// CategoryConflict represents uniqueness violations (400)
	CategoryConflict Category = "conflict"
	// CategoryNotFound represents ids that do not resolve (404)
	CategoryNotFound Category = "not_found"
	// CategoryDatabase represents storage failures (500)
	CategoryDatabase Category = "database"
	// CategoryCache represents cache failures (500)
	CategoryCache Category = "cache"
	// CategorySystem represents everything else unexpected (500)
	CategorySystem Category = "system"
)

// CategorizedError is an error with a category and an HTTP status code.
type CategorizedError struct {
	Category   Category
	StatusCode int
	Message    string
	Cause      error
}

// Error implements the error interface.
func (e *CategorizedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Category, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Category, e.Message)
}

// Unwrap returns the underlying cause.
func (e *CategorizedError) Unwrap() error {
	return e.Cause
}

// NewValidationError creates a validation error (400).
func NewValidationError(message string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryValidation,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NewConflictError creates a uniqueness-conflict error (400). The message
// names the conflicting entity and is safe to return to the client.
func NewConflictError(message string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryConflict,
		StatusCode: http.StatusBadRequest,
		Message:    message,
	}
}

// NewNotFoundError creates a not-found error (404).
func NewNotFoundError(resource string) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryNotFound,
		StatusCode: http.StatusNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
	}
}

// NewDatabaseError creates a database error (500). The operation is for
// server-side logs; the client only ever sees a generic message.
func NewDatabaseError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryDatabase,
		StatusCode: http.StatusInternalServerError,
		Message:    fmt.Sprintf("database error during %s", operation),
		Cause:      cause,
	}
}

// NewCacheError creates a cache error (500).
func NewCacheError(operation string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategoryCache,
		StatusCode: http.StatusInternalServerError,
		Message:    fmt.Sprintf("cache error during %s", operation),
		Cause:      cause,
	}
}

// NewInternalError creates a generic internal error (500).
func NewInternalError(message string, cause error) *CategorizedError {
	return &CategorizedError{
		Category:   CategorySystem,
		StatusCode: http.StatusInternalServerError,
		Message:    message,
		Cause:      cause,
	}
}

// Categorize returns err as a CategorizedError, wrapping unknown errors as
// internal errors.
func Categorize(err error) *CategorizedError {
	if err == nil {
		return nil
	}
	var catErr *CategorizedError
	if errors.As(err, &catErr) {
		return catErr
	}
	return NewInternalError("unexpected error", err)
}

// GetHTTPStatusCode returns the HTTP status code for an error.
func GetHTTPStatusCode(err error) int {
	if catErr := Categorize(err); catErr != nil {
		return catErr.StatusCode
	}
	return http.StatusInternalServerError
}

// IsUserError reports whether err maps to a 4xx response.
func IsUserError(err error) bool {
	code := GetHTTPStatusCode(err)
	return code >= 400 && code < 500
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	return Categorize(err).Category == CategoryNotFound
}

// IsConflict reports whether err is a uniqueness-conflict error.
func IsConflict(err error) bool {
	return Categorize(err).Category == CategoryConflict
}
