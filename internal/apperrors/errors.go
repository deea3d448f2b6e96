package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates the request conflicts with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// Ledger rule violations. All of these are validation errors.
var (
	ErrInvalidTransition   = newValidationKind("invalid status transition")
	ErrCurrencyMismatch    = newValidationKind("currency mismatch")
	ErrInsufficientBalance = newValidationKind("insufficient balance")
	ErrInvalidAmount       = newValidationKind("invalid amount")
	ErrAccountInactive     = newValidationKind("account inactive")
	ErrAccountRequired     = newValidationKind("account required")
)

// ErrStaleStatus is returned when the caller's view of a document status is out of date.
var ErrStaleStatus = fmt.Errorf("%w: stale document status", ErrConflict)

// ErrConcurrencyTimeout indicates a row lock could not be acquired in time.
// The operation was rolled back and may be retried.
var ErrConcurrencyTimeout = errors.New("concurrency timeout")

// ErrIntegrity indicates stored data violates a ledger invariant.
var ErrIntegrity = errors.New("integrity error")

type validationKind struct {
	msg string
}

func newValidationKind(msg string) error { return &validationKind{msg: msg} }

func (v *validationKind) Error() string        { return v.msg }
func (v *validationKind) Is(target error) bool { return target == ErrValidation }

// AppError carries an HTTP-style status code alongside the underlying cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError wrapping ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewIntegrityError creates an AppError wrapping ErrIntegrity.
func NewIntegrityError(format string, args ...any) *AppError {
	return NewAppError(http.StatusInternalServerError, fmt.Sprintf(format, args...), ErrIntegrity)
}

// IsRetryable reports whether the failed operation can safely be retried as a whole.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrencyTimeout)
}

// IsValidation reports whether err is any kind of validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
