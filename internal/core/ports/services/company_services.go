package services

import (
	"context"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/dto"
)

// CompanySvcFacade manages the company switches the ledger consults.
type CompanySvcFacade interface {
	// GetSettings returns the settings, defaulting to a disallowed negative balance when none are stored.
	GetSettings(ctx context.Context, companyID string) (*domain.CompanySettings, error)
	UpdateSettings(ctx context.Context, companyID string, req dto.UpdateCompanySettingsRequest) (*domain.CompanySettings, error)
}
