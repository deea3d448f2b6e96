package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/SscSPs/docledger/internal/models"
	"github.com/SscSPs/docledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, company_id, name, currency_code, country, initial_balance, current_balance,
		is_active, deleted_at, created_at, created_by, last_updated_at, last_updated_by`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.CompanyID,
		&m.Name,
		&m.CurrencyCode,
		&m.Country,
		&m.InitialBalance,
		&m.CurrentBalance,
		&m.IsActive,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	acc := mapping.ToDomainAccount(m)
	return &acc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (account_id, company_id, name, currency_code, country, initial_balance, current_balance,
			is_active, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.CompanyID,
		m.Name,
		m.CurrencyCode,
		m.Country,
		m.InitialBalance,
		m.CurrentBalance,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapPgError(err, fmt.Sprintf("failed to save account %s", m.AccountID))
}

// FindAccountByID retrieves a non-deleted account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND deleted_at IS NULL;`
	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to find account %s", accountID))
	}
	return acc, nil
}

// ListAccounts retrieves a paginated list of a company's accounts ordered by name.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE company_id = $1 AND deleted_at IS NULL
		ORDER BY name, account_id
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, limit, offset)
	if err != nil {
		return nil, mapPgError(err, "failed to list accounts")
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, mapPgError(err, "failed to scan account row")
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, mapPgError(err, "error iterating account rows")
	}
	return accounts, nil
}

// ListAccountIDs returns the ids of live accounts, optionally for one company.
func (r *PgxAccountRepository) ListAccountIDs(ctx context.Context, companyID string) ([]string, error) {
	query := `
		SELECT account_id FROM accounts
		WHERE deleted_at IS NULL AND ($1 = '' OR company_id = $1)
		ORDER BY account_id;
	`
	rows, err := r.Pool.Query(ctx, query, companyID)
	if err != nil {
		return nil, mapPgError(err, "failed to list account ids")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, mapPgError(err, "failed to collect account ids")
	}
	return ids, nil
}

// lockAccount selects the account row FOR UPDATE inside tx.
func lockAccount(ctx context.Context, q querier, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1 AND deleted_at IS NULL FOR UPDATE;`
	acc, err := scanAccount(q.QueryRow(ctx, query, accountID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to lock account %s", accountID))
	}
	return acc, nil
}

func updateAccountBalance(ctx context.Context, q querier, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET current_balance = $2, last_updated_at = $3, last_updated_by = $4
		WHERE account_id = $1;
	`
	tag, err := q.Exec(ctx, query, accountID, balance, now, userID)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to update balance of account %s", accountID))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account %s vanished while locked", accountID)
	}
	return nil
}
