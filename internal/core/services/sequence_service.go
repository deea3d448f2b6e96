package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
)

type sequenceService struct {
	BaseService
	repo     portsrepo.SequenceRepository
	location *time.Location
}

// NewSequenceService creates a numbering service. Day boundaries are taken in loc (UTC when nil).
func NewSequenceService(repo portsrepo.SequenceRepository, loc *time.Location, opts ...BaseOption) portssvc.SequenceSvcFacade {
	if loc == nil {
		loc = time.UTC
	}
	return &sequenceService{
		BaseService: newBaseService(opts...),
		repo:        repo,
		location:    loc,
	}
}

var _ portssvc.SequenceSvcFacade = (*sequenceService)(nil)

func (s *sequenceService) NextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error) {
	if err := validateSequenceTarget(companyID, docType); err != nil {
		return "", err
	}

	key := domain.NewSequenceKey(companyID, docType, s.Clock(), s.location)
	serial, err := s.repo.IncrementSequence(ctx, key)
	if err != nil {
		s.LogError(ctx, err, "Failed to increment document sequence",
			slog.String("company_id", companyID),
			slog.String("document_type", string(docType)),
			slog.String("date_key", key.DateKey))
		return "", fmt.Errorf("failed to issue %s number: %w", docType, err)
	}

	number := domain.FormatDocumentNumber(key, serial)
	s.Metrics.ObserveNumberIssued(docType)
	s.LogDebug(ctx, "Document number issued", slog.String("number", number))
	return number, nil
}

func (s *sequenceService) CurrentSequence(ctx context.Context, companyID string, docType domain.DocumentType, dateKey string) (int64, error) {
	key, err := s.key(companyID, docType, dateKey)
	if err != nil {
		return 0, err
	}
	return s.repo.CurrentSequence(ctx, key)
}

func (s *sequenceService) ResetSequence(ctx context.Context, companyID string, docType domain.DocumentType, dateKey string, value int64) error {
	key, err := s.key(companyID, docType, dateKey)
	if err != nil {
		return err
	}
	if value < 0 {
		return fmt.Errorf("%w: sequence value must not be negative", apperrors.ErrValidation)
	}
	if err := s.repo.ResetSequence(ctx, key, value); err != nil {
		s.LogError(ctx, err, "Failed to reset document sequence", slog.String("date_key", dateKey))
		return err
	}
	s.GetLogger(ctx).Warn("Document sequence reset",
		slog.String("company_id", companyID),
		slog.String("document_type", string(docType)),
		slog.String("date_key", dateKey),
		slog.Int64("value", value))
	return nil
}

func (s *sequenceService) key(companyID string, docType domain.DocumentType, dateKey string) (domain.SequenceKey, error) {
	if err := validateSequenceTarget(companyID, docType); err != nil {
		return domain.SequenceKey{}, err
	}
	if _, err := time.Parse(domain.DateKeyLayout, dateKey); err != nil {
		return domain.SequenceKey{}, fmt.Errorf("%w: date key %q is not YYYYMMDD", apperrors.ErrValidation, dateKey)
	}
	return domain.SequenceKey{CompanyID: companyID, DocumentType: docType, DateKey: dateKey}, nil
}

func validateSequenceTarget(companyID string, docType domain.DocumentType) error {
	if companyID == "" {
		return fmt.Errorf("%w: company id is required", apperrors.ErrValidation)
	}
	if !docType.Valid() {
		return fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, docType)
	}
	return nil
}
