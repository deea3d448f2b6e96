package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a cash/bank account whose balance the ledger maintains.
// CurrentBalance always equals InitialBalance plus the signed sum of the
// account's transactions.
type Account struct {
	AccountID      string          `json:"accountID"`
	CompanyID      string          `json:"companyID"`
	Name           string          `json:"name"`
	CurrencyCode   string          `json:"currencyCode"`
	Country        string          `json:"country"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	IsActive       bool            `json:"isActive"`
	DeletedAt      *time.Time      `json:"deletedAt,omitempty"`
	AuditFields
}

// IsDeleted reports whether the account has been soft-deleted.
func (a Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// BalanceCheck is the result of recomputing an account balance from its transactions.
type BalanceCheck struct {
	AccountID        string          `json:"accountID"`
	InitialBalance   decimal.Decimal `json:"initialBalance"`
	TransactionTotal decimal.Decimal `json:"transactionTotal"`
	ExpectedBalance  decimal.Decimal `json:"expectedBalance"`
	CurrentBalance   decimal.Decimal `json:"currentBalance"`
	Drift            decimal.Decimal `json:"drift"`
}

// Consistent reports whether the stored balance matches the recomputed one.
func (b BalanceCheck) Consistent() bool {
	return b.Drift.IsZero()
}

// NewBalanceCheck builds a BalanceCheck for an account given the signed sum of its transactions.
func NewBalanceCheck(account Account, transactionTotal decimal.Decimal) BalanceCheck {
	expected := account.InitialBalance.Add(transactionTotal)
	return BalanceCheck{
		AccountID:        account.AccountID,
		InitialBalance:   account.InitialBalance,
		TransactionTotal: transactionTotal,
		ExpectedBalance:  expected,
		CurrentBalance:   account.CurrentBalance,
		Drift:            account.CurrentBalance.Sub(expected),
	}
}
