package memory

import (
	"context"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
)

func (s *Store) FindCompanySettings(_ context.Context, companyID string) (*domain.CompanySettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	settings, ok := s.settings[companyID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &settings, nil
}

func (s *Store) SaveCompanySettings(_ context.Context, settings domain.CompanySettings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[settings.CompanyID] = settings
	return nil
}
