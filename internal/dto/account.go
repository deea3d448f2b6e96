package dto

import (
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	CompanyID      string          `json:"companyID" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,len=3,uppercase"`
	Country        string          `json:"country" binding:"omitempty,len=2"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID      string          `json:"accountID"`
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	CurrencyCode   string          `json:"currencyCode"`
	Country        string          `json:"country"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	CreatedAt      time.Time       `json:"createdAt"`
	CreatedBy      string          `json:"createdBy"`
	LastUpdatedAt  time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy  string          `json:"lastUpdatedBy"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      acc.AccountID,
		CompanyID:      acc.CompanyID,
		Name:           acc.Name,
		CurrencyCode:   acc.CurrencyCode,
		Country:        acc.Country,
		InitialBalance: acc.InitialBalance,
		CurrentBalance: acc.CurrentBalance,
		IsActive:       acc.IsActive,
		CreatedAt:      acc.CreatedAt,
		CreatedBy:      acc.CreatedBy,
		LastUpdatedAt:  acc.LastUpdatedAt,
		LastUpdatedBy:  acc.LastUpdatedBy,
	}
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	CompanyID string `form:"companyID" binding:"required"`
	Limit     int    `form:"limit,default=20"`
	Offset    int    `form:"offset,default=0"`
}

// BalanceCheckResponse reports whether a stored balance matches its ledger.
type BalanceCheckResponse struct {
	AccountID        string          `json:"accountID"`
	InitialBalance   decimal.Decimal `json:"initialBalance"`
	TransactionTotal decimal.Decimal `json:"transactionTotal"`
	ExpectedBalance  decimal.Decimal `json:"expectedBalance"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	Drift            decimal.Decimal `json:"drift"`
	Consistent       bool            `json:"consistent"`
}

// ToBalanceCheckResponse converts a domain.BalanceCheck.
func ToBalanceCheckResponse(c *domain.BalanceCheck) BalanceCheckResponse {
	return BalanceCheckResponse{
		AccountID:        c.AccountID,
		InitialBalance:   c.InitialBalance,
		TransactionTotal: c.TransactionTotal,
		ExpectedBalance:  c.ExpectedBalance,
		CurrentBalance:   c.CurrentBalance,
		Drift:            c.Drift,
		Consistent:       c.Consistent(),
	}
}
