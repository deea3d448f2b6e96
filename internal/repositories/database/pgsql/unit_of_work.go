package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxUnitOfWork runs ledger operations in one READ COMMITTED transaction.
// Row locks are taken with SELECT ... FOR UPDATE and bounded by lock_timeout.
type PgxUnitOfWork struct {
	BaseRepository
	lockTimeout time.Duration
}

func newPgxUnitOfWork(pool *pgxpool.Pool, lockTimeout time.Duration) *PgxUnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}, lockTimeout: lockTimeout}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// RunInTx implements portsrepo.UnitOfWork.
func (u *PgxUnitOfWork) RunInTx(ctx context.Context, fn func(ctx context.Context, repos portsrepo.TxRepositories) error) error {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = u.Rollback(ctx, tx) }()

	if u.lockTimeout > 0 {
		// SET does not accept bind parameters
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
		if _, err := tx.Exec(ctx, stmt); err != nil {
			return mapPgError(err, "failed to set lock timeout")
		}
	}

	if err := fn(ctx, &txRepositories{tx: tx}); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

// txRepositories binds every ledger query to one pgx.Tx.
type txRepositories struct {
	tx pgx.Tx
}

var (
	_ portsrepo.TxRepositories          = (*txRepositories)(nil)
	_ portsrepo.AccountTxRepository     = (*txRepositories)(nil)
	_ portsrepo.TransactionTxRepository = (*txRepositories)(nil)
	_ portsrepo.DocumentTxRepository    = (*txRepositories)(nil)
)

func (t *txRepositories) Accounts() portsrepo.AccountTxRepository         { return t }
func (t *txRepositories) Transactions() portsrepo.TransactionTxRepository { return t }
func (t *txRepositories) Documents() portsrepo.DocumentTxRepository       { return t }

func (t *txRepositories) LockAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return lockAccount(ctx, t.tx, accountID)
}

func (t *txRepositories) UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	return updateAccountBalance(ctx, t.tx, accountID, balance, userID, now)
}

func (t *txRepositories) FindLatestApplication(ctx context.Context, documentID string) (*domain.Transaction, error) {
	return findLatestApplication(ctx, t.tx, documentID)
}

func (t *txRepositories) FindReversalOf(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	return findReversalOf(ctx, t.tx, transactionID)
}

func (t *txRepositories) CountApplications(ctx context.Context, documentID string) (int, error) {
	return countApplications(ctx, t.tx, documentID)
}

func (t *txRepositories) InsertTransaction(ctx context.Context, txn domain.Transaction) error {
	return insertTransaction(ctx, t.tx, txn)
}

func (t *txRepositories) LockDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	return lockDocument(ctx, t.tx, documentID)
}

func (t *txRepositories) UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus, userID string, now time.Time) error {
	return updateDocumentStatus(ctx, t.tx, documentID, status, userID, now)
}

func (t *txRepositories) UpdateDocument(ctx context.Context, doc domain.Document) error {
	return updateDocument(ctx, t.tx, doc)
}

func (t *txRepositories) SoftDeleteDocument(ctx context.Context, documentID string, userID string, now time.Time) error {
	return softDeleteDocument(ctx, t.tx, documentID, userID, now)
}

func (t *txRepositories) SumSettledReceipts(ctx context.Context, invoiceID string) (decimal.Decimal, error) {
	return sumSettledReceipts(ctx, t.tx, invoiceID)
}

func (t *txRepositories) CountCompletedStatements(ctx context.Context, voucherID string) (int, error) {
	return countCompletedStatements(ctx, t.tx, voucherID)
}
