package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/SscSPs/docledger/internal/models"
	"github.com/SscSPs/docledger/internal/utils/mapping"
	"github.com/SscSPs/docledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxTransactionRepository struct {
	BaseRepository
}

func newPgxTransactionRepository(pool *pgxpool.Pool) *PgxTransactionRepository {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionReader = (*PgxTransactionRepository)(nil)

const transactionColumns = `entry_no, transaction_id, account_id, document_id, transaction_type, amount,
		balance_before, balance_after, occurred_at, application_no, is_reversal, original_transaction_id, created_by`

func scanTransaction(row pgx.Row) (models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.EntryNo,
		&m.TransactionID,
		&m.AccountID,
		&m.DocumentID,
		&m.TransactionType,
		&m.Amount,
		&m.BalanceBefore,
		&m.BalanceAfter,
		&m.OccurredAt,
		&m.ApplicationNo,
		&m.IsReversal,
		&m.OriginalTransactionID,
		&m.CreatedBy,
	)
	return m, err
}

// ListTransactionsByAccount retrieves a page of an account's ledger, newest
// first, using the entry number as the cursor.
func (r *PgxTransactionRepository) ListTransactionsByAccount(ctx context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var before *int64
	if nextToken != nil && *nextToken != "" {
		n, err := pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		before = &n
	}

	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE account_id = $1 AND ($2::bigint IS NULL OR entry_no < $2)
		ORDER BY entry_no DESC
		LIMIT $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, before, fetchLimit)
	if err != nil {
		return nil, nil, mapPgError(err, "failed to query transactions for account "+accountID)
	}
	defer rows.Close()

	results := make([]models.Transaction, 0, fetchLimit)
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, mapPgError(err, "failed to scan transaction row for account "+accountID)
		}
		results = append(results, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, mapPgError(err, "error iterating transaction rows for account "+accountID)
	}

	var nextTokenVal *string
	if len(results) > limit {
		token := pagination.EncodeSequenceToken(results[limit-1].EntryNo)
		nextTokenVal = &token
		results = results[:limit]
	}
	return mapping.ToDomainTransactionSlice(results), nextTokenVal, nil
}

// SumSignedTransactions returns the signed total of the account's ledger.
func (r *PgxTransactionRepository) SumSignedTransactions(ctx context.Context, accountID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN transaction_type = 'decrease' THEN -amount ELSE amount END), 0)
		FROM ledger_transactions
		WHERE account_id = $1;
	`
	var total decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, accountID).Scan(&total); err != nil {
		return decimal.Zero, mapPgError(err, "failed to sum transactions of account "+accountID)
	}
	return total, nil
}

// --- unit of work helpers ---

func findLatestApplication(ctx context.Context, q querier, documentID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE document_id = $1 AND NOT is_reversal
		ORDER BY application_no DESC
		LIMIT 1;
	`
	m, err := scanTransaction(q.QueryRow(ctx, query, documentID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to find ledger entry of document %s", documentID))
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func findReversalOf(ctx context.Context, q querier, transactionID string) (*domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM ledger_transactions
		WHERE original_transaction_id = $1 AND is_reversal;
	`
	m, err := scanTransaction(q.QueryRow(ctx, query, transactionID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to find reversal of %s", transactionID))
	}
	txn := mapping.ToDomainTransaction(m)
	return &txn, nil
}

func countApplications(ctx context.Context, q querier, documentID string) (int, error) {
	var n int
	err := q.QueryRow(ctx, `SELECT COUNT(*) FROM ledger_transactions WHERE document_id = $1 AND NOT is_reversal;`, documentID).Scan(&n)
	if err != nil {
		return 0, mapPgError(err, fmt.Sprintf("failed to count applications of document %s", documentID))
	}
	return n, nil
}

func insertTransaction(ctx context.Context, q querier, txn domain.Transaction) error {
	if !txn.Amount.IsPositive() {
		return fmt.Errorf("transaction %s amount %s: %w", txn.TransactionID, txn.Amount.String(), apperrors.ErrInvalidAmount)
	}
	m := mapping.ToModelTransaction(txn)
	query := `
		INSERT INTO ledger_transactions (transaction_id, account_id, document_id, transaction_type, amount,
			balance_before, balance_after, occurred_at, application_no, is_reversal, original_transaction_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := q.Exec(ctx, query,
		m.TransactionID,
		m.AccountID,
		m.DocumentID,
		m.TransactionType,
		m.Amount,
		m.BalanceBefore,
		m.BalanceAfter,
		m.OccurredAt,
		m.ApplicationNo,
		m.IsReversal,
		m.OriginalTransactionID,
		m.CreatedBy,
	)
	return mapPgError(err, fmt.Sprintf("failed to insert transaction %s", m.TransactionID))
}
