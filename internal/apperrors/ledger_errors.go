package apperrors

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvalidTransitionError describes a rejected status change.
type InvalidTransitionError struct {
	DocumentType string
	From         string
	To           string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %q to %q", ErrInvalidTransition, e.DocumentType, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// InsufficientBalanceError is returned when a decrease would take an account below zero.
type InsufficientBalanceError struct {
	AccountID string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("%s: account %s has %s, requested %s",
		ErrInsufficientBalance, e.AccountID, e.Balance.String(), e.Requested.String())
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }

// CurrencyMismatchError is returned when a document and its account disagree on currency.
type CurrencyMismatchError struct {
	AccountID        string
	AccountCurrency  string
	DocumentCurrency string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("%s: account %s is in %s, document is in %s",
		ErrCurrencyMismatch, e.AccountID, e.AccountCurrency, e.DocumentCurrency)
}

func (e *CurrencyMismatchError) Unwrap() error { return ErrCurrencyMismatch }
