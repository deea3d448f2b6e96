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

type companyService struct {
	BaseService
	repo portsrepo.CompanySettingsRepositoryFacade
}

// NewCompanyService creates a new company settings service.
func NewCompanyService(repo portsrepo.CompanySettingsRepositoryFacade, opts ...BaseOption) portssvc.CompanySvcFacade {
	return &companyService{BaseService: newBaseService(opts...), repo: repo}
}

var _ portssvc.CompanySvcFacade = (*companyService)(nil)

func (s *companyService) GetSettings(ctx context.Context, companyID string) (*domain.CompanySettings, error) {
	settings, err := s.repo.FindCompanySettings(ctx, companyID)
	if errors.Is(err, apperrors.ErrNotFound) {
		return &domain.CompanySettings{CompanyID: companyID}, nil
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to read company settings", slog.String("company_id", companyID))
		return nil, err
	}
	return settings, nil
}

func (s *companyService) UpdateSettings(ctx context.Context, companyID string, req dto.UpdateCompanySettingsRequest) (*domain.CompanySettings, error) {
	if companyID == "" {
		return nil, fmt.Errorf("%w: company id is required", apperrors.ErrValidation)
	}
	if req.AllowNegativeBalance == nil {
		return nil, fmt.Errorf("%w: allowNegativeBalance is required", apperrors.ErrValidation)
	}

	settings := domain.CompanySettings{CompanyID: companyID, AllowNegativeBalance: *req.AllowNegativeBalance}
	if err := s.repo.SaveCompanySettings(ctx, settings); err != nil {
		s.LogError(ctx, err, "Failed to save company settings", slog.String("company_id", companyID))
		return nil, err
	}
	s.LogInfo(ctx, "Company settings updated",
		slog.String("company_id", companyID),
		slog.Bool("allow_negative_balance", settings.AllowNegativeBalance))
	return &settings, nil
}
