package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction is a row of the ledger_transactions table. EntryNo is a
// BIGSERIAL used only for stable newest-first paging.
type Transaction struct {
	EntryNo               int64           `db:"entry_no"`
	TransactionID         string          `db:"transaction_id"`
	AccountID             string          `db:"account_id"`
	DocumentID            string          `db:"document_id"`
	TransactionType       string          `db:"transaction_type"`
	Amount                decimal.Decimal `db:"amount"`
	BalanceBefore         decimal.Decimal `db:"balance_before"`
	BalanceAfter          decimal.Decimal `db:"balance_after"`
	OccurredAt            time.Time       `db:"occurred_at"`
	ApplicationNo         int             `db:"application_no"`
	IsReversal            bool            `db:"is_reversal"`
	OriginalTransactionID *string         `db:"original_transaction_id"`
	CreatedBy             string          `db:"created_by"`
}
