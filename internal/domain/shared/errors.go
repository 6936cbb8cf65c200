// Package shared contains common domain types, errors, and the store event
// contract that are used across all domain packages. This package has zero
// external dependencies.
package shared

import (
	"errors"
	"fmt"
)

// Base domain errors that can be used for error checking with errors.Is().
var (
	// Entity errors
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")

	// Input errors
	ErrInvalidID    = errors.New("invalid ID")
	ErrInvalidInput = errors.New("invalid input")

	// Persistence errors
	ErrNoSnapshot      = errors.New("no snapshot available")
	ErrSnapshotCorrupt = errors.New("snapshot is corrupt")
	ErrBackendClosed   = errors.New("snapshot backend is closed")

	// State errors
	ErrStoreClosed = errors.New("store is closed")
)

// DomainError represents a domain-specific error with context.
type DomainError struct {
	Domain  string // e.g., "store", "snapshot", "projection"
	Op      string // Operation that failed, e.g., "UpdateReport", "Save"
	Kind    error  // Base error type for errors.Is() checking
	Message string // Human-readable message
	Err     error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s.%s: %s: %v", e.Domain, e.Op, e.Message, e.Err)
	}
	return fmt.Sprintf("%s.%s: %s", e.Domain, e.Op, e.Message)
}

// Unwrap returns the underlying error for errors.Unwrap().
func (e *DomainError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return e.Kind
}

// Is implements errors.Is() matching.
func (e *DomainError) Is(target error) bool {
	if e.Kind != nil && errors.Is(e.Kind, target) {
		return true
	}
	if e.Err != nil && errors.Is(e.Err, target) {
		return true
	}
	return false
}

// NewDomainError creates a new domain error.
func NewDomainError(domain, op string, kind error, message string) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
	}
}

// WrapError wraps an existing error with domain context.
func WrapError(domain, op string, kind error, message string, err error) *DomainError {
	return &DomainError{
		Domain:  domain,
		Op:      op,
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// IsNotFound checks if the error is a "not found" error.
// Callers routinely probe for existence, so not-found is the one expected
// failure mode of id-addressed operations and must stay cheap to test for.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNoSnapshot checks if the error indicates an absent snapshot.
// An absent snapshot is not a fault: the engine seeds baseline records.
func IsNoSnapshot(err error) bool {
	return errors.Is(err, ErrNoSnapshot)
}
