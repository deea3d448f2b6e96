package domain_test

import (
	"testing"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		name    string
		docType domain.DocumentType
		from    domain.DocumentStatus
		to      domain.DocumentStatus
		by      domain.Initiator
		wantErr bool
	}{
		{"draft to issued", domain.Invoice, domain.StatusDraft, domain.StatusIssued, domain.InitiatorUser, false},
		{"receipt issued to completed", domain.Receipt, domain.StatusIssued, domain.StatusCompleted, domain.InitiatorUser, false},
		{"statement issued to completed", domain.StatementOfPayment, domain.StatusIssued, domain.StatusCompleted, domain.InitiatorUser, false},
		{"invoice cannot be completed by user", domain.Invoice, domain.StatusIssued, domain.StatusCompleted, domain.InitiatorUser, true},
		{"voucher completed by user rejected", domain.PaymentVoucher, domain.StatusIssued, domain.StatusCompleted, domain.InitiatorUser, true},
		{"voucher completed by propagation", domain.PaymentVoucher, domain.StatusIssued, domain.StatusCompleted, domain.InitiatorSystem, false},
		{"invoice paid by propagation", domain.Invoice, domain.StatusIssued, domain.StatusPaid, domain.InitiatorSystem, false},
		{"invoice paid by user rejected", domain.Invoice, domain.StatusIssued, domain.StatusPaid, domain.InitiatorUser, true},
		{"invoice back to issued by propagation", domain.Invoice, domain.StatusPaid, domain.StatusIssued, domain.InitiatorSystem, false},
		{"completed to issued by user rejected", domain.Receipt, domain.StatusCompleted, domain.StatusIssued, domain.InitiatorUser, true},
		{"completed to issued by system", domain.Receipt, domain.StatusCompleted, domain.StatusIssued, domain.InitiatorSystem, false},
		{"completed to cancelled", domain.Receipt, domain.StatusCompleted, domain.StatusCancelled, domain.InitiatorUser, false},
		{"draft to cancelled", domain.Invoice, domain.StatusDraft, domain.StatusCancelled, domain.InitiatorUser, false},
		{"reopen cancelled", domain.Receipt, domain.StatusCancelled, domain.StatusDraft, domain.InitiatorUser, false},
		{"draft straight to completed", domain.Receipt, domain.StatusDraft, domain.StatusCompleted, domain.InitiatorUser, true},
		{"cancelled to issued", domain.Receipt, domain.StatusCancelled, domain.StatusIssued, domain.InitiatorUser, true},
		{"issued to draft", domain.Receipt, domain.StatusIssued, domain.StatusDraft, domain.InitiatorUser, true},
		{"same status", domain.Receipt, domain.StatusIssued, domain.StatusIssued, domain.InitiatorUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := domain.ValidateTransition(tt.docType, tt.from, tt.to, tt.by)
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)
				assert.ErrorIs(t, err, apperrors.ErrValidation)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCompletingAndUncompletingTransitions(t *testing.T) {
	assert.True(t, domain.IsCompletingTransition(domain.StatusIssued, domain.StatusCompleted))
	assert.False(t, domain.IsCompletingTransition(domain.StatusCompleted, domain.StatusCompleted))
	assert.False(t, domain.IsCompletingTransition(domain.StatusDraft, domain.StatusIssued))

	assert.True(t, domain.IsUncompletingTransition(domain.StatusCompleted, domain.StatusCancelled))
	assert.True(t, domain.IsUncompletingTransition(domain.StatusCompleted, domain.StatusIssued))
	assert.False(t, domain.IsUncompletingTransition(domain.StatusCompleted, domain.StatusCompleted))
	assert.False(t, domain.IsUncompletingTransition(domain.StatusIssued, domain.StatusCancelled))
}
