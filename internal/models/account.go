package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account is a row of the accounts table.
type Account struct {
	AccountID      string          `db:"account_id"`
	CompanyID      string          `db:"company_id"`
	Name           string          `db:"name"`
	CurrencyCode   string          `db:"currency_code"`
	Country        string          `db:"country"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	IsActive       bool            `db:"is_active"`
	DeletedAt      *time.Time      `db:"deleted_at"`
	AuditFields
}
