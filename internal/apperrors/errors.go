package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates that the caller could not be authenticated.
var ErrUnauthorized = errors.New("unauthorized")

// Ledger error taxonomy. Every ledger operation returns exactly one of these
// (or an infrastructure error) and leaves no partial state behind.
var (
	// ErrAccountNotFound is returned when an account id does not resolve.
	// It wraps ErrNotFound so generic not-found handling still applies.
	ErrAccountNotFound = fmt.Errorf("account not found: %w", ErrNotFound)

	// ErrForbidden is returned when the caller does not own the account.
	ErrForbidden = errors.New("not your account")

	// ErrInvalidAmount is returned for amounts <= 0 or with more than two
	// fractional digits. Amounts that would push a balance past
	// domain.MaxBalance are rejected the same way.
	ErrInvalidAmount = errors.New("amount must be greater than 0 with at most 2 decimal places")

	// ErrInsufficientFunds is returned when the locked balance is below the requested amount.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrSameAccount is returned when a transfer names the same account on both sides.
	ErrSameAccount = errors.New("cannot transfer to same account")

	// ErrContention is returned when a row lock could not be acquired within the
	// store's lock timeout, or the store aborted the transaction as a deadlock
	// victim. Callers may retry; the engine never does.
	ErrContention = errors.New("account is busy, please retry")
)

// AppError carries an HTTP-ish status code alongside a message and its cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the cause so errors.Is sees through AppError.
func (e *AppError) Unwrap() error {
	return e.Err
}
