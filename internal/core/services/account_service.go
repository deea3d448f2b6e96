package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
	"github.com/SscSPs/docledger/internal/dto"
)

type accountService struct {
	BaseService
	accounts     portsrepo.AccountRepositoryFacade
	transactions portsrepo.TransactionReader
}

// NewAccountService creates a new account service.
func NewAccountService(accounts portsrepo.AccountRepositoryFacade, transactions portsrepo.TransactionReader, opts ...BaseOption) portssvc.AccountSvcFacade {
	return &accountService{
		BaseService:  newBaseService(opts...),
		accounts:     accounts,
		transactions: transactions,
	}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	now := s.now()
	account := domain.Account{
		AccountID:      s.NewID(),
		CompanyID:      req.CompanyID,
		Name:           req.Name,
		CurrencyCode:   req.CurrencyCode,
		Country:        req.Country,
		InitialBalance: req.InitialBalance,
		CurrentBalance: req.InitialBalance,
		IsActive:       true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accounts.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account in repository", slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully in service", slog.String("account_id", account.AccountID))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accounts.FindAccountByID(ctx, accountID)
	if err != nil {
		// ErrNotFound is an expected outcome
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID in repository", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts retrieves a paginated list of a company's accounts.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accounts.ListAccounts(ctx, companyID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts from repository", slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// ListTransactions returns one page of an account's ledger, newest first.
func (s *accountService) ListTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.GetAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, next, err := s.transactions.ListTransactionsByAccount(ctx, accountID, limit, params.NextToken)
	if err != nil {
		if !apperrors.IsValidation(err) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return dto.ToListTransactionsResponse(txns, next), nil
}

// VerifyBalance recomputes the balance from the ledger without changing anything.
func (s *accountService) VerifyBalance(ctx context.Context, accountID string) (*domain.BalanceCheck, error) {
	account, err := s.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	total, err := s.transactions.SumSignedTransactions(ctx, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum transactions", slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to sum transactions of account %s: %w", accountID, err)
	}

	check := domain.NewBalanceCheck(*account, total)
	if !check.Consistent() {
		s.GetLogger(ctx).Error("Account balance drifted from ledger",
			slog.String("account_id", accountID),
			slog.String("current", check.CurrentBalance.String()),
			slog.String("expected", check.ExpectedBalance.String()),
			slog.String("drift", check.Drift.String()))
	}
	return &check, nil
}

// VerifyAllBalances checks every account of a company, or all accounts when companyID is empty.
func (s *accountService) VerifyAllBalances(ctx context.Context, companyID string) ([]domain.BalanceCheck, error) {
	ids, err := s.accounts.ListAccountIDs(ctx, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	checks := make([]domain.BalanceCheck, 0, len(ids))
	for _, id := range ids {
		check, err := s.VerifyBalance(ctx, id)
		if errors.Is(err, apperrors.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		checks = append(checks, *check)
	}
	return checks, nil
}
