package repositories

import (
	"context"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations over the ledger.
type TransactionReader interface {
	// ListTransactionsByAccount returns entries newest first. nextToken is the
	// opaque cursor returned by a previous call; the returned token is nil on the last page.
	ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)

	// SumSignedTransactions returns the signed sum of every entry for the account.
	SumSignedTransactions(ctx context.Context, accountID string) (decimal.Decimal, error)
}

// TransactionTxRepository is the ledger access available inside a unit of work.
type TransactionTxRepository interface {
	// FindLatestApplication returns the most recent non-reversal entry for the document.
	FindLatestApplication(ctx context.Context, documentID string) (*domain.Transaction, error)

	// FindReversalOf returns the reversal that references the given transaction, if any.
	FindReversalOf(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// CountApplications returns the number of non-reversal entries for the document.
	CountApplications(ctx context.Context, documentID string) (int, error)

	// InsertTransaction appends an entry. Violating the per-document
	// uniqueness constraints yields apperrors.ErrDuplicate.
	InsertTransaction(ctx context.Context, txn domain.Transaction) error
}
