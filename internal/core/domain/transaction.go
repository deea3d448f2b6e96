package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType indicates the direction of a ledger transaction.
type TransactionType string

const (
	Increase TransactionType = "increase"
	Decrease TransactionType = "decrease"
)

// Opposite returns the transaction type that undoes t.
func (t TransactionType) Opposite() TransactionType {
	if t == Increase {
		return Decrease
	}
	return Increase
}

// TransactionMetadata marks reversals and links them to the transaction they undo.
type TransactionMetadata struct {
	IsReversal            bool    `json:"is_reversal"`
	OriginalTransactionID *string `json:"original_transaction_id,omitempty"`
}

// Transaction is one immutable ledger entry against an account, caused by a document.
type Transaction struct {
	TransactionID string              `json:"transactionID"`
	AccountID     string              `json:"accountID"`
	DocumentID    string              `json:"documentID"`
	Type          TransactionType     `json:"type"`
	Amount        decimal.Decimal     `json:"amount"` // always > 0
	BalanceBefore decimal.Decimal     `json:"balanceBefore"`
	BalanceAfter  decimal.Decimal     `json:"balanceAfter"`
	Timestamp     time.Time           `json:"timestamp"`
	ApplicationNo int                 `json:"applicationNo"` // 1-based per document; 0 on reversals
	Metadata      TransactionMetadata `json:"metadata"`
	CreatedBy     string              `json:"createdBy"`
}

// SignedAmount returns +Amount for increases and -Amount for decreases.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Type == Decrease {
		return t.Amount.Neg()
	}
	return t.Amount
}

// IsReversal reports whether the transaction undoes another one.
func (t Transaction) IsReversal() bool {
	return t.Metadata.IsReversal
}

// TransactionFromSigned splits a signed amount into a type and a positive magnitude.
func TransactionFromSigned(signed decimal.Decimal) (TransactionType, decimal.Decimal) {
	if signed.IsNegative() {
		return Decrease, signed.Neg()
	}
	return Increase, signed
}
