// Package errors provides custom error types for the reconciliation core.
// These errors enable programmatic error checking across provider lookups,
// patch application, and duplicate-merge operations.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the reconciliation core.
var (
	// ErrNotFound indicates a normal negative result: no provider (or the
	// remote store) had data for the requested key. Callers fall back to
	// manual entry; this is not a failure.
	ErrNotFound = errors.New("not found")

	// ErrProviderUnavailable indicates a provider could not be reached or
	// answered with a server error.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited indicates a provider rejected the request for rate reasons.
	ErrRateLimited = errors.New("rate limited")

	// ErrTimeout indicates an operation exceeded its time budget.
	ErrTimeout = errors.New("operation timed out")

	// ErrCanceled indicates an operation was canceled by the caller.
	ErrCanceled = errors.New("operation canceled")

	// ErrInvalidInput indicates that provided input was invalid.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMergeConflict indicates the remote store rejected a duplicate merge,
	// typically because the group went stale. Recoverable: the group stays
	// pending and the user may retry.
	ErrMergeConflict = errors.New("merge conflict")

	// ErrPatchRejected indicates the remote store refused an enrichment patch.
	ErrPatchRejected = errors.New("patch rejected")

	// ErrTransitionInFlight indicates a review session rejected a mutating
	// transition because another one is still running.
	ErrTransitionInFlight = errors.New("transition already in flight")
)

// NotFoundError represents an error when a resource is not found.
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError represents a validation failure.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// APIError represents an error from a provider or remote store API.
type APIError struct {
	Provider   string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Provider, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. Server-side failures and rate limiting
// count as provider unavailability for cascade purposes.
func (e *APIError) Is(target error) bool {
	if e.StatusCode == 429 {
		return target == ErrRateLimited || target == ErrProviderUnavailable
	}
	if e.StatusCode >= 500 {
		return target == ErrProviderUnavailable
	}
	return false
}

// ParseError represents an error when decoding a provider payload.
type ParseError struct {
	Format  string // "json", "xml", "sparql-json"
	Source  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s parse error in %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support. An unparsable payload is treated the
// same as an unreachable provider by the lookup cascade.
func (e *ParseError) Is(target error) bool {
	return target == ErrProviderUnavailable
}

// MergeError represents a rejected duplicate-merge operation.
type MergeError struct {
	KeepID    string
	DeleteIDs []string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *MergeError) Error() string {
	return fmt.Sprintf("merge keeping %s (deleting %v) failed: %s", e.KeepID, e.DeleteIDs, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *MergeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *MergeError) Is(target error) bool {
	return target == ErrMergeConflict
}

// PatchError represents a remote store validation failure on an enrichment
// patch. It does not abort a batch run; each record's outcome is tracked
// independently.
type PatchError struct {
	ItemID  string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *PatchError) Error() string {
	return fmt.Sprintf("patch for item %s rejected: %s", e.ItemID, e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *PatchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support.
func (e *PatchError) Is(target error) bool {
	return target == ErrPatchRejected
}

// ConfigError represents a configuration error.
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap.
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsProviderUnavailable checks if an error indicates provider unavailability.
func IsProviderUnavailable(err error) bool {
	return errors.Is(err, ErrProviderUnavailable)
}

// IsRateLimited checks if an error is a rate limit error.
func IsRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsCanceled checks if an error is a cancellation error.
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled)
}

// IsMergeConflict checks if an error is a rejected duplicate merge.
func IsMergeConflict(err error) bool {
	return errors.Is(err, ErrMergeConflict)
}

// IsPatchRejected checks if an error is a rejected enrichment patch.
func IsPatchRejected(err error) bool {
	return errors.Is(err, ErrPatchRejected)
}

// IsValidationError checks if an error is a validation error.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// Helper wrapping functions for common patterns

// WrapAPI wraps an error as an APIError.
func WrapAPI(provider string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		Provider:   provider,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}

// WrapParse wraps an error as a ParseError.
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return &ParseError{Format: format, Source: source, Message: err.Error(), Err: err}
}

// WrapValidation wraps an error as a ValidationError.
func WrapValidation(field string, err error) error {
	if err == nil {
		return nil
	}
	return &ValidationError{Field: field, Message: err.Error()}
}
