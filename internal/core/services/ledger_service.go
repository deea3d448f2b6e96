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

// ledgerService runs the ledger engine for one document per unit of work.
// It lets operators retry a posting or reversal after a failure.
type ledgerService struct {
	BaseService
	uow    portsrepo.UnitOfWork
	engine *ledgerEngine
}

// NewLedgerService creates a new ledger service.
func NewLedgerService(uow portsrepo.UnitOfWork, companies portsrepo.CompanySettingsReader, opts ...BaseOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		BaseService: newBaseService(opts...),
		uow:         uow,
	}
	svc.engine = &ledgerEngine{BaseService: &svc.BaseService, companies: companies}
	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) ApplyOnCompletion(ctx context.Context, documentID string, actorID string) (*domain.LedgerResult, error) {
	defer s.Metrics.ObserveDuration("apply", time.Now())

	var result domain.LedgerResult
	err := s.uow.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		doc, err := lockLiveDocument(ctx, repos, documentID)
		if err != nil {
			return err
		}
		if doc.Status != domain.StatusCompleted {
			return fmt.Errorf("%w: document %s is %s, not completed", apperrors.ErrValidation, documentID, doc.Status)
		}
		result, err = s.engine.apply(ctx, repos, *doc, actorID)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to apply document to ledger", slog.String("document_id", documentID))
		return nil, err
	}

	s.publish(ctx, []domain.LedgerResult{result})
	s.LogInfo(ctx, "Ledger apply finished", slog.String("document_id", documentID), slog.String("outcome", string(result.Outcome)))
	return &result, nil
}

func (s *ledgerService) ReverseOnUncompletion(ctx context.Context, documentID string, actorID string) (*domain.LedgerResult, error) {
	defer s.Metrics.ObserveDuration("reverse", time.Now())

	var result domain.LedgerResult
	err := s.uow.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		doc, err := repos.Documents().LockDocument(ctx, documentID)
		if err != nil {
			return fmt.Errorf("failed to lock document %s: %w", documentID, err)
		}
		if doc.Status == domain.StatusCompleted && !doc.IsDeleted() {
			return fmt.Errorf("%w: document %s is still completed", apperrors.ErrValidation, documentID)
		}
		result, err = s.engine.reverse(ctx, repos, *doc, actorID)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to reverse document in ledger", slog.String("document_id", documentID))
		return nil, err
	}

	s.publish(ctx, []domain.LedgerResult{result})
	s.LogInfo(ctx, "Ledger reverse finished", slog.String("document_id", documentID), slog.String("outcome", string(result.Outcome)))
	return &result, nil
}

func lockLiveDocument(ctx context.Context, repos portsrepo.TxRepositories, documentID string) (*domain.Document, error) {
	doc, err := repos.Documents().LockDocument(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock document %s: %w", documentID, err)
	}
	if doc.IsDeleted() {
		return nil, fmt.Errorf("document %s is deleted: %w", documentID, apperrors.ErrNotFound)
	}
	return doc, nil
}
