package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityRecord is the audit entry emitted for every committed ledger transaction.
type ActivityRecord struct {
	TransactionID string          `json:"transaction_id"`
	DocumentID    string          `json:"document_id"`
	AccountID     string          `json:"account_id"`
	Type          TransactionType `json:"transaction_type"`
	Amount        decimal.Decimal `json:"amount"`
	BalanceBefore decimal.Decimal `json:"balance_before"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	Timestamp     time.Time       `json:"timestamp"`
	IsReversal    bool            `json:"is_reversal"`
	ActorID       string          `json:"actor_id"`
}

// NewActivityRecord derives the audit entry for a transaction.
func NewActivityRecord(txn Transaction) ActivityRecord {
	return ActivityRecord{
		TransactionID: txn.TransactionID,
		DocumentID:    txn.DocumentID,
		AccountID:     txn.AccountID,
		Type:          txn.Type,
		Amount:        txn.Amount,
		BalanceBefore: txn.BalanceBefore,
		BalanceAfter:  txn.BalanceAfter,
		Timestamp:     txn.Timestamp,
		IsReversal:    txn.IsReversal(),
		ActorID:       txn.CreatedBy,
	}
}
