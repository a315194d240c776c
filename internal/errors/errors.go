// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrInputValidation  = errors.New("input validation failed")
	ErrSymbolNotFound   = errors.New("symbol not found")
	ErrComputation      = errors.New("computation error")
	ErrAxisConstruction = errors.New("axis construction error")
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrConnectionFailed = errors.New("connection failed")
	ErrDataNotFound     = errors.New("data not found")
	ErrConfigInvalid    = errors.New("invalid configuration")
	ErrTooManyAttempts  = errors.New("too many invalid attempts")
)

// ComputationError is a precondition violation inside the pricing model.
type ComputationError struct {
	Op     string
	Field  string
	Value  interface{}
	Reason string
}

func (e *ComputationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("computation error [%s]: %s", e.Op, e.Reason)
	}
	return fmt.Sprintf("computation error [%s] %s=%v: %s", e.Op, e.Field, e.Value, e.Reason)
}

func (e *ComputationError) Unwrap() error {
	return ErrComputation
}

// NewComputationError creates a new ComputationError.
func NewComputationError(op, field string, value interface{}, reason string) *ComputationError {
	return &ComputationError{
		Op:     op,
		Field:  field,
		Value:  value,
		Reason: reason,
	}
}

// AxisConstructionError reports an invalid range or day count reaching an axis builder.
type AxisConstructionError struct {
	Axis   string
	Reason string
}

func (e *AxisConstructionError) Error() string {
	return fmt.Sprintf("axis construction error [%s]: %s", e.Axis, e.Reason)
}

func (e *AxisConstructionError) Unwrap() error {
	return ErrAxisConstruction
}

// NewAxisConstructionError creates a new AxisConstructionError.
func NewAxisConstructionError(axis, reason string) *AxisConstructionError {
	return &AxisConstructionError{
		Axis:   axis,
		Reason: reason,
	}
}

// QuoteLookupError represents a failed quote lookup.
type QuoteLookupError struct {
	Provider string
	Symbol   string
	Err      error
}

func (e *QuoteLookupError) Error() string {
	return fmt.Sprintf("quote lookup [%s] %s: %v", e.Provider, e.Symbol, e.Err)
}

func (e *QuoteLookupError) Unwrap() error {
	return e.Err
}

// NewQuoteLookupError creates a new QuoteLookupError.
func NewQuoteLookupError(provider, symbol string, err error) *QuoteLookupError {
	return &QuoteLookupError{
		Provider: provider,
		Symbol:   symbol,
		Err:      err,
	}
}

// IsRecoverable reports whether the interactive shell can recover from err by
// asking the user again. Everything else is fatal.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrInputValidation) || errors.Is(err, ErrSymbolNotFound)
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
