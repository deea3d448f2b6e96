package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a non-deleted account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts for a company.
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)

	// ListAccountIDs returns the ids of every non-deleted account, optionally limited to one company.
	ListAccountIDs(ctx context.Context, companyID string) ([]string, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. CurrentBalance must equal InitialBalance.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}

// AccountTxRepository is the account access available inside a unit of work.
type AccountTxRepository interface {
	// LockAccount reads the account and holds an exclusive lock on it until the
	// unit of work ends. Returns apperrors.ErrNotFound for missing or deleted
	// accounts and apperrors.ErrConcurrencyTimeout when the lock is not granted in time.
	LockAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// UpdateAccountBalance writes the current balance of a locked account.
	UpdateAccountBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error
}
