package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions.
var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates that an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates that the input data is invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrRemoteUnavailable indicates that the remote bibliographic API could
	// not be reached (network failure, timeout, or server-side error).
	ErrRemoteUnavailable = errors.New("remote unavailable")

	// ErrMalformedResponse indicates that the remote API returned a response
	// with an unexpected or unparsable shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// ValidationError represents a validation error for a specific field.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// NotFoundError provides details about a not found entity.
type NotFoundError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}

// AlreadyExistsError provides details about a duplicate entity.
type AlreadyExistsError struct {
	Entity string
	ID     string
}

// Error implements the error interface.
func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s already exists: %s", e.Entity, e.ID)
}

// Unwrap returns the underlying sentinel error for use with errors.Is.
func (e *AlreadyExistsError) Unwrap() error {
	return ErrAlreadyExists
}

// RemoteError provides details about a failed call to the E-utilities API.
// It unwraps to ErrRemoteUnavailable or ErrMalformedResponse depending on
// the failure mode so callers can branch with errors.Is.
type RemoteError struct {
	Endpoint   string
	StatusCode int
	Kind       error // ErrRemoteUnavailable or ErrMalformedResponse
	Cause      error
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %v (status %d): %v", e.Endpoint, e.Kind, e.StatusCode, e.Cause)
	}
	return fmt.Sprintf("%s: %v: %v", e.Endpoint, e.Kind, e.Cause)
}

// Unwrap returns the failure-mode sentinel for use with errors.Is.
func (e *RemoteError) Unwrap() error {
	return e.Kind
}

// NormalizationError indicates that a single raw record could not be mapped
// to the canonical paper shape even via its fallback rules. The ingestion
// pass catches it, logs it, and skips the record.
type NormalizationError struct {
	PMID   string
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *NormalizationError) Error() string {
	return fmt.Sprintf("cannot normalize record %q: %s: %s", e.PMID, e.Field, e.Reason)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(entity, id string) *NotFoundError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
	}
}

// NewAlreadyExistsError creates a new AlreadyExistsError.
func NewAlreadyExistsError(entity, id string) *AlreadyExistsError {
	return &AlreadyExistsError{
		Entity: entity,
		ID:     id,
	}
}

// NewNormalizationError creates a new NormalizationError.
func NewNormalizationError(pmid, field, reason string) *NormalizationError {
	return &NormalizationError{
		PMID:   pmid,
		Field:  field,
		Reason: reason,
	}
}
