package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Common error types that can be used across the application
var (
	ErrNotFound         = new(ErrCodeNotFound, "resource not found")
	ErrAlreadyExists    = new(ErrCodeAlreadyExists, "resource already exists")
	ErrValidation       = new(ErrCodeValidation, "validation error")
	ErrInvalidOperation = new(ErrCodeInvalidOperation, "invalid operation")
	ErrSystem           = new(ErrCodeSystemError, "system error")

	// Billing domain errors. These indicate a data or configuration
	// inconsistency (bad catalog, bad usage feed) and are not retriable.
	ErrInvalidBillingInterval = new(ErrCodeInvalidBillingInterval, "invalid billing interval")
	ErrNoBlockForUnit         = new(ErrCodeNoBlockForUnit, "no tiered block prices the unit")
	ErrNoPriceForCurrency     = new(ErrCodeNoPriceForCurrency, "no block price for currency")
	ErrInvalidQuantity        = new(ErrCodeInvalidQuantity, "invalid usage quantity")
)

const (
	ErrCodeSystemError      = "system_error"
	ErrCodeNotFound         = "not_found"
	ErrCodeAlreadyExists    = "already_exists"
	ErrCodeValidation       = "validation_error"
	ErrCodeInvalidOperation = "invalid_operation"

	ErrCodeInvalidBillingInterval = "invalid_billing_interval"
	ErrCodeNoBlockForUnit         = "no_block_for_unit"
	ErrCodeNoPriceForCurrency     = "no_price_for_currency"
	ErrCodeInvalidQuantity        = "invalid_quantity"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Op      string // Logical operation name
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return e.DisplayError()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) DisplayError() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

// new creates a new InternalError
func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists checks if an error is an already exists error
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsInvalidOperation checks if an error is an invalid operation error
func IsInvalidOperation(err error) bool {
	return errors.Is(err, ErrInvalidOperation)
}

// IsSystem checks if an error is a system error
func IsSystem(err error) bool {
	return errors.Is(err, ErrSystem)
}

// IsInvalidBillingInterval checks if an error is an invalid billing interval error
func IsInvalidBillingInterval(err error) bool {
	return errors.Is(err, ErrInvalidBillingInterval)
}

// IsNoBlockForUnit checks if an error is a no block for unit error
func IsNoBlockForUnit(err error) bool {
	return errors.Is(err, ErrNoBlockForUnit)
}

// IsNoPriceForCurrency checks if an error is a no price for currency error
func IsNoPriceForCurrency(err error) bool {
	return errors.Is(err, ErrNoPriceForCurrency)
}

// IsInvalidQuantity checks if an error is an invalid quantity error
func IsInvalidQuantity(err error) bool {
	return errors.Is(err, ErrInvalidQuantity)
}
