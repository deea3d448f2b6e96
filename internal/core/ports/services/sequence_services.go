package services

import (
	"context"

	"github.com/SscSPs/docledger/internal/core/domain"
)

// SequenceSvcFacade issues and administers document numbers.
type SequenceSvcFacade interface {
	// NextDocumentNumber returns a fresh PREFIX-YYYYMMDD-NNN number.
	NextDocumentNumber(ctx context.Context, companyID string, docType domain.DocumentType) (string, error)
	CurrentSequence(ctx context.Context, companyID string, docType domain.DocumentType, dateKey string) (int64, error)
	ResetSequence(ctx context.Context, companyID string, docType domain.DocumentType, dateKey string, value int64) error
}
