package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for the order/wallet domain. Callers classify failures
// with errors.Is; the HTTP layer maps them to status codes.
var (
	// ErrNotFound marks an unknown order, product, user, or wallet.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists marks a uniqueness violation, such as a username or
	// email that is already registered.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInsufficientBalance is returned when a wallet debit would drive
	// the balance negative. The debit is rejected and the balance is left
	// untouched.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrMissingPaymentApp is returned when an online payment is requested
	// without selecting a provider app.
	ErrMissingPaymentApp = errors.New("payment app selection required")

	// ErrProductUnavailable is returned when the product is on hold and
	// cannot be purchased.
	ErrProductUnavailable = errors.New("product is not available for purchase")

	// ErrInvalidTransition is returned when an order status change, a
	// cancellation, or a return request violates the order state machine.
	ErrInvalidTransition = errors.New("invalid order state transition")

	// ErrPaymentTimeout is returned when the online payment provider does
	// not settle within the configured bound.
	ErrPaymentTimeout = errors.New("payment timed out")

	// ErrConflict is returned when an optimistic update loses a race with
	// a concurrent writer. The caller may reload and retry.
	ErrConflict = errors.New("record was modified concurrently")
)

// ValidationError reports a single failed precondition so the calling layer
// can render an actionable message rather than "operation failed".
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for the given field.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
