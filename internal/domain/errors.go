package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// User errors
	ErrMsgUserNotFound = "user not found"

	// Validation errors
	ErrMsgInvalidInput      = "invalid input"
	ErrMsgAmountNotPositive = "amount must be positive"
	ErrMsgAmountTooLarge    = "amount exceeds maximum grant"
	ErrMsgBalanceOverflow   = "amount would overflow the current balance"
	ErrMsgReasonRequired    = "reason is required"
	ErrMsgReasonTooLong     = "reason exceeds maximum length"
	ErrMsgUserIDRequired    = "user id is required"
	ErrMsgPackTypeRequired  = "pack type is required"

	// Database/System errors
	ErrMsgDatabaseError = "database error"
	ErrMsgTxClosed      = "tx is closed"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	// ErrUserNotFound is returned when the referenced user has no progression record.
	ErrUserNotFound = errors.New(ErrMsgUserNotFound)

	// ErrInvalidInput is the base of every validation failure.
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	// ErrDatabaseError marks a failed read or write against the underlying store.
	ErrDatabaseError = errors.New(ErrMsgDatabaseError)
)

// ValidationError carries per-field messages for a rejected request.
// errors.Is(err, ErrInvalidInput) holds for every ValidationError.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a message for field. Later messages for the same field win.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
}

// HasErrors reports whether any field was rejected.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrMsgInvalidInput
	}

	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return fmt.Sprintf("%s: %s", ErrMsgInvalidInput, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
