package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Typed errors below unwrap to one of these so callers can branch with errors.Is.
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInvariantViolation  = errors.New("invariant violation")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
)

// ValidationError rejects a request whose field is missing, malformed or out of range.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// InsufficientStockError is returned by the stock guard when a sale asks for more than is on hand.
type InsufficientStockError struct {
	ItemCode  string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: %d available, %d requested", e.ItemCode, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvariantViolationError covers illegal state transitions and broken references.
type InvariantViolationError struct {
	Field  string
	Reason string
}

func (e *InvariantViolationError) Error() string {
	if e.Field == "" {
		return "invariant violation: " + e.Reason
	}
	return fmt.Sprintf("invariant violation on %s: %s", e.Field, e.Reason)
}

func (e *InvariantViolationError) Unwrap() error { return ErrInvariantViolation }

// NewInvariantViolation builds an InvariantViolationError.
func NewInvariantViolation(field, reason string) error {
	return &InvariantViolationError{Field: field, Reason: reason}
}

// NotFound wraps ErrNotFound with the entity and key that were looked up.
func NotFound(entity, key string) error {
	return fmt.Errorf("%s %q: %w", entity, key, ErrNotFound)
}

// Conflict wraps ErrConcurrencyConflict with the operation that lost the race.
func Conflict(op string, cause error) error {
	if cause == nil {
		return fmt.Errorf("%s: %w", op, ErrConcurrencyConflict)
	}
	return fmt.Errorf("%s: %w (%v)", op, ErrConcurrencyConflict, cause)
}

// IsRetryable reports whether err should be retried by the transaction layer.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}
