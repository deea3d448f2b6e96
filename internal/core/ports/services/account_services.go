package services

import (
	"context"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/dto"
)

// AccountReaderSvc defines read operations on accounts and their ledger.
type AccountReaderSvc interface {
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)
	ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error)
	ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}

// AccountWriterSvc defines account creation.
type AccountWriterSvc interface {
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)
}

// BalanceVerifierSvc recomputes balances from the ledger and reports drift.
type BalanceVerifierSvc interface {
	VerifyBalance(ctx context.Context, accountID string) (*domain.BalanceCheck, error)
	VerifyAllBalances(ctx context.Context, companyID string) ([]domain.BalanceCheck, error)
}

// AccountSvcFacade combines all account service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	BalanceVerifierSvc
}
