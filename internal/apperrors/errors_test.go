package apperrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerErrorsAreValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"invalid transition", &apperrors.InvalidTransitionError{DocumentType: "receipt", From: "draft", To: "completed"}},
		{"insufficient balance", &apperrors.InsufficientBalanceError{AccountID: "a", Balance: decimal.NewFromInt(1), Requested: decimal.NewFromInt(2)}},
		{"currency mismatch", &apperrors.CurrencyMismatchError{AccountID: "a", AccountCurrency: "JPY", DocumentCurrency: "USD"}},
		{"wrapped amount", fmt.Errorf("receipt r1: %w", apperrors.ErrInvalidAmount)},
		{"inactive", apperrors.ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, apperrors.IsValidation(tt.err))
			assert.False(t, apperrors.IsRetryable(tt.err))
		})
	}
}

func TestSpecificErrorKinds(t *testing.T) {
	err := &apperrors.InsufficientBalanceError{AccountID: "acc-1", Balance: decimal.NewFromInt(100), Requested: decimal.NewFromInt(150)}
	assert.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	assert.NotErrorIs(t, err, apperrors.ErrCurrencyMismatch)
	assert.Contains(t, err.Error(), "acc-1")

	var target *apperrors.InsufficientBalanceError
	assert.True(t, errors.As(fmt.Errorf("apply: %w", err), &target))
	assert.True(t, target.Requested.Equal(decimal.NewFromInt(150)))
}

func TestRetryableAndConflict(t *testing.T) {
	timeout := fmt.Errorf("lock account acc-1: %w", apperrors.ErrConcurrencyTimeout)
	assert.True(t, apperrors.IsRetryable(timeout))
	assert.False(t, apperrors.IsValidation(timeout))

	assert.ErrorIs(t, apperrors.ErrStaleStatus, apperrors.ErrConflict)
}

func TestAppErrorUnwrap(t *testing.T) {
	err := apperrors.NewIntegrityError("statement %s has no extension", "sop-1")
	assert.ErrorIs(t, err, apperrors.ErrIntegrity)
	assert.Equal(t, 500, err.Code)
	assert.Contains(t, err.Error(), "sop-1")

	nf := apperrors.NewNotFoundError("account not found")
	assert.ErrorIs(t, nf, apperrors.ErrNotFound)
}
