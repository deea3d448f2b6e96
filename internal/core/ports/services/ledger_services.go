package services

import (
	"context"

	"github.com/SscSPs/docledger/internal/core/domain"
)

// LedgerSvcFacade exposes the ledger engine for a single document. Both
// operations are idempotent and safe to retry after apperrors.ErrConcurrencyTimeout.
type LedgerSvcFacade interface {
	ApplyOnCompletion(ctx context.Context, documentID string, actorID string) (*domain.LedgerResult, error)
	ReverseOnUncompletion(ctx context.Context, documentID string, actorID string) (*domain.LedgerResult, error)
}
