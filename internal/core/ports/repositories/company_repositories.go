package repositories

import (
	"context"

	"github.com/SscSPs/docledger/internal/core/domain"
)

// CompanySettingsReader reads company level switches.
type CompanySettingsReader interface {
	// FindCompanySettings returns apperrors.ErrNotFound when the company has no settings row.
	FindCompanySettings(ctx context.Context, companyID string) (*domain.CompanySettings, error)
}

// CompanySettingsWriter writes company level switches.
type CompanySettingsWriter interface {
	SaveCompanySettings(ctx context.Context, settings domain.CompanySettings) error
}

// CompanySettingsRepositoryFacade combines the company settings interfaces.
type CompanySettingsRepositoryFacade interface {
	CompanySettingsReader
	CompanySettingsWriter
}
