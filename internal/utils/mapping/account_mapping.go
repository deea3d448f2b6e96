package mapping

import (
	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/models"
)

// ToModelAccount converts a domain Account to a model Account
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		CompanyID:      d.CompanyID,
		Name:           d.Name,
		CurrencyCode:   d.CurrencyCode,
		Country:        d.Country,
		InitialBalance: d.InitialBalance,
		CurrentBalance: d.CurrentBalance,
		IsActive:       d.IsActive,
		DeletedAt:      d.DeletedAt,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		CompanyID:      m.CompanyID,
		Name:           m.Name,
		CurrencyCode:   m.CurrencyCode,
		Country:        m.Country,
		InitialBalance: m.InitialBalance,
		CurrentBalance: m.CurrentBalance,
		IsActive:       m.IsActive,
		DeletedAt:      m.DeletedAt,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainAccountSlice converts a slice of model Accounts to domain Accounts
func ToDomainAccountSlice(ms []models.Account) []domain.Account {
	ds := make([]domain.Account, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainAccount(m)
	}
	return ds
}
