package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
	"github.com/SscSPs/docledger/internal/dto"
)

// documentService applies the ledger consequences of document changes.
// Every public operation runs in a single unit of work: the status write,
// ledger entries and propagated statuses commit together or not at all.
type documentService struct {
	BaseService
	uow        portsrepo.UnitOfWork
	documents  portsrepo.DocumentRepositoryFacade
	accounts   portsrepo.AccountReader
	sequences  portssvc.SequenceSvcFacade
	engine     *ledgerEngine
	propagator *propagator
}

// NewDocumentService creates a new document service.
func NewDocumentService(
	uow portsrepo.UnitOfWork,
	documents portsrepo.DocumentRepositoryFacade,
	accounts portsrepo.AccountReader,
	companies portsrepo.CompanySettingsReader,
	sequences portssvc.SequenceSvcFacade,
	opts ...BaseOption,
) portssvc.DocumentSvcFacade {
	svc := &documentService{
		BaseService: newBaseService(opts...),
		uow:         uow,
		documents:   documents,
		accounts:    accounts,
		sequences:   sequences,
	}
	svc.engine = &ledgerEngine{BaseService: &svc.BaseService, companies: companies}
	svc.propagator = &propagator{BaseService: &svc.BaseService}
	return svc
}

var _ portssvc.DocumentSvcFacade = (*documentService)(nil)

func (s *documentService) GetDocument(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := s.documents.FindDocumentByID(ctx, documentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get document", slog.String("document_id", documentID))
		}
		return nil, err
	}
	return doc, nil
}

func (s *documentService) CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, userID string) (*domain.Document, error) {
	if err := s.validateCreate(ctx, req); err != nil {
		s.GetLogger(ctx).Warn("Invalid create document request", slog.String("error", err.Error()))
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.StatusDraft
	}

	number, err := s.sequences.NextDocumentNumber(ctx, req.CompanyID, req.Type)
	if err != nil {
		return nil, err
	}

	now := s.now()
	doc := domain.Document{
		DocumentID:   s.NewID(),
		CompanyID:    req.CompanyID,
		AccountID:    req.AccountID,
		Type:         req.Type,
		Number:       number,
		Status:       status,
		CurrencyCode: req.CurrencyCode,
		Amount:       req.Amount,
		Payload:      payloadFromRequest(req),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.documents.SaveDocument(ctx, doc); err != nil {
		s.LogError(ctx, err, "Failed to save document", slog.String("document_number", number))
		return nil, fmt.Errorf("failed to save document %s: %w", number, err)
	}

	s.LogInfo(ctx, "Document created",
		slog.String("document_id", doc.DocumentID),
		slog.String("document_number", doc.Number),
		slog.String("type", string(doc.Type)))
	return &doc, nil
}

func (s *documentService) validateCreate(ctx context.Context, req dto.CreateDocumentRequest) error {
	if !req.Type.Valid() {
		return fmt.Errorf("%w: unknown document type %q", apperrors.ErrValidation, req.Type)
	}
	if req.Status != "" && req.Status != domain.StatusDraft && req.Status != domain.StatusIssued {
		return fmt.Errorf("%w: documents start as draft or issued", apperrors.ErrValidation)
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("document amount %s: %w", req.Amount.String(), apperrors.ErrInvalidAmount)
	}
	if req.TotalDeducted != nil {
		if req.Type != domain.StatementOfPayment {
			return fmt.Errorf("%w: total deducted only applies to statements of payment", apperrors.ErrValidation)
		}
		if !req.TotalDeducted.IsPositive() {
			return fmt.Errorf("total deducted %s: %w", req.TotalDeducted.String(), apperrors.ErrInvalidAmount)
		}
	}
	return s.validateReferences(ctx, req.CompanyID, req.Type, req.AccountID, req.LinkedDocumentID)
}

// validateReferences checks that a referenced account and linked document
// exist and belong to companyID. Nil references are skipped.
func (s *documentService) validateReferences(ctx context.Context, companyID string, docType domain.DocumentType, accountID, linkedID *string) error {
	if accountID != nil {
		acc, err := s.accounts.FindAccountByID(ctx, *accountID)
		if err != nil {
			return fmt.Errorf("account %s: %w", *accountID, err)
		}
		if acc.CompanyID != companyID {
			return fmt.Errorf("%w: account %s belongs to another company", apperrors.ErrValidation, acc.AccountID)
		}
	}
	if linkedID != nil {
		want, ok := linkTarget(docType)
		if !ok {
			return fmt.Errorf("%w: %s documents cannot link to another document", apperrors.ErrValidation, docType)
		}
		linked, err := s.documents.FindDocumentByID(ctx, *linkedID)
		if err != nil {
			return fmt.Errorf("linked document %s: %w", *linkedID, err)
		}
		if linked.Type != want || linked.CompanyID != companyID || linked.IsDeleted() {
			return fmt.Errorf("%w: linked document %s must be a %s of the same company", apperrors.ErrValidation, linked.DocumentID, want)
		}
	}
	return nil
}

func linkTarget(t domain.DocumentType) (domain.DocumentType, bool) {
	switch t {
	case domain.Receipt:
		return domain.Invoice, true
	case domain.StatementOfPayment:
		return domain.PaymentVoucher, true
	}
	return "", false
}

func payloadFromRequest(req dto.CreateDocumentRequest) domain.DocumentPayload {
	switch req.Type {
	case domain.Invoice:
		return &domain.InvoicePayload{DueDate: req.DueDate}
	case domain.Receipt:
		return &domain.ReceiptPayload{LinkedInvoiceID: req.LinkedDocumentID}
	case domain.PaymentVoucher:
		return &domain.PaymentVoucherPayload{Payee: req.Payee}
	case domain.StatementOfPayment:
		return &domain.StatementOfPaymentPayload{LinkedVoucherID: req.LinkedDocumentID, TotalDeducted: req.TotalDeducted}
	}
	return nil
}

func (s *documentService) ChangeStatus(ctx context.Context, change domain.StatusChange) (*domain.ChangeResult, error) {
	defer s.Metrics.ObserveDuration("change_status", time.Now())

	if !change.From.Valid() || !change.To.Valid() {
		return nil, fmt.Errorf("%w: unknown status in %q -> %q", apperrors.ErrValidation, change.From, change.To)
	}
	if change.Initiator == "" {
		change.Initiator = domain.InitiatorUser
	}

	logger := s.GetLogger(ctx).With(
		slog.String("document_id", change.DocumentID),
		slog.String("from", string(change.From)),
		slog.String("to", string(change.To)))

	var result *domain.ChangeResult
	err := s.uow.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		doc, err := lockLiveDocument(ctx, repos, change.DocumentID)
		if err != nil {
			return err
		}
		if doc.Status != change.From {
			return fmt.Errorf("document %s is %s, request expected %s: %w", doc.DocumentID, doc.Status, change.From, apperrors.ErrStaleStatus)
		}
		if err := domain.ValidateTransition(doc.Type, change.From, change.To, change.Initiator); err != nil {
			return err
		}
		result = &domain.ChangeResult{Document: doc}
		if change.From == change.To {
			return nil
		}

		before := *doc
		now := s.now()
		if err := repos.Documents().UpdateDocumentStatus(ctx, doc.DocumentID, change.To, change.ActorID, now); err != nil {
			return fmt.Errorf("failed to update status of document %s: %w", doc.DocumentID, err)
		}
		doc.Status = change.To
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = change.ActorID

		switch {
		case domain.IsCompletingTransition(change.From, change.To):
			r, err := s.engine.apply(ctx, repos, *doc, change.ActorID)
			if err != nil {
				return err
			}
			result.Ledger = append(result.Ledger, r)
		case domain.IsUncompletingTransition(change.From, change.To):
			r, err := s.engine.reverse(ctx, repos, before, change.ActorID)
			if err != nil {
				return err
			}
			result.Ledger = append(result.Ledger, r)
		}

		result.Propagated, err = s.propagator.propagate(ctx, repos, before, *doc)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to change document status",
			slog.String("document_id", change.DocumentID),
			slog.String("from", string(change.From)),
			slog.String("to", string(change.To)))
		return nil, err
	}

	s.publish(ctx, result.Ledger)
	logger.Info("Document status changed", slog.Int("ledger_entries", countWrites(result.Ledger)), slog.Int("propagated", len(result.Propagated)))
	return result, nil
}

func (s *documentService) EditDocument(ctx context.Context, documentID string, req dto.EditDocumentRequest, userID string) (*domain.ChangeResult, error) {
	defer s.Metrics.ObserveDuration("edit", time.Now())

	var result *domain.ChangeResult
	err := s.uow.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		doc, err := lockLiveDocument(ctx, repos, documentID)
		if err != nil {
			return err
		}
		before := *doc
		after, err := applyEdit(before, req)
		if err != nil {
			return err
		}
		if err := s.validateReferences(ctx, before.CompanyID, before.Type, req.AccountID, req.LinkedDocumentID); err != nil {
			return err
		}
		after.LastUpdatedAt = s.now()
		after.LastUpdatedBy = userID
		result = &domain.ChangeResult{Document: &after}

		reapply := false
		if before.Status == domain.StatusCompleted {
			reapply, err = ledgerFieldsChanged(before, after)
			if err != nil {
				return err
			}
		}

		if reapply {
			// lock both accounts in id order before reversing
			if err := lockAccounts(ctx, repos, before.AccountID, after.AccountID); err != nil {
				return err
			}
			r, err := s.engine.reverse(ctx, repos, before, userID)
			if err != nil {
				return err
			}
			result.Ledger = append(result.Ledger, r)
		}
		if err := repos.Documents().UpdateDocument(ctx, after); err != nil {
			return fmt.Errorf("failed to update document %s: %w", documentID, err)
		}
		if reapply {
			r, err := s.engine.apply(ctx, repos, after, userID)
			if err != nil {
				return err
			}
			result.Ledger = append(result.Ledger, r)
		}

		result.Propagated, err = s.propagator.propagate(ctx, repos, before, after)
		for _, p := range result.Propagated {
			if p.DocumentID == after.DocumentID {
				result.Document.Status = p.To
			}
		}
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to edit document", slog.String("document_id", documentID))
		return nil, err
	}

	s.publish(ctx, result.Ledger)
	s.LogInfo(ctx, "Document edited",
		slog.String("document_id", documentID),
		slog.Int("ledger_entries", countWrites(result.Ledger)))
	return result, nil
}

func (s *documentService) DeleteDocument(ctx context.Context, documentID string, userID string) (*domain.ChangeResult, error) {
	defer s.Metrics.ObserveDuration("delete", time.Now())

	var result *domain.ChangeResult
	err := s.uow.RunInTx(ctx, func(ctx context.Context, repos portsrepo.TxRepositories) error {
		doc, err := repos.Documents().LockDocument(ctx, documentID)
		if err != nil {
			return fmt.Errorf("failed to lock document %s: %w", documentID, err)
		}
		result = &domain.ChangeResult{Document: doc}
		if doc.IsDeleted() {
			return nil
		}

		before := *doc
		now := s.now()
		if err := repos.Documents().SoftDeleteDocument(ctx, documentID, userID, now); err != nil {
			return fmt.Errorf("failed to delete document %s: %w", documentID, err)
		}
		doc.DeletedAt = &now
		doc.LastUpdatedAt = now
		doc.LastUpdatedBy = userID

		if before.Status == domain.StatusCompleted {
			r, err := s.engine.reverse(ctx, repos, before, userID)
			if err != nil {
				return err
			}
			result.Ledger = append(result.Ledger, r)
		}

		result.Propagated, err = s.propagator.propagate(ctx, repos, before, *doc)
		return err
	})
	if err != nil {
		s.logFailure(ctx, err, "Failed to delete document", slog.String("document_id", documentID))
		return nil, err
	}

	s.publish(ctx, result.Ledger)
	s.LogInfo(ctx, "Document deleted", slog.String("document_id", documentID))
	return result, nil
}

// applyEdit returns a copy of doc with the requested changes.
func applyEdit(doc domain.Document, req dto.EditDocumentRequest) (domain.Document, error) {
	out := doc
	if req.AccountID != nil {
		out.AccountID = req.AccountID
	}
	if req.CurrencyCode != nil {
		out.CurrencyCode = *req.CurrencyCode
	}
	if req.Amount != nil {
		if !req.Amount.IsPositive() {
			return domain.Document{}, fmt.Errorf("document amount %s: %w", req.Amount.String(), apperrors.ErrInvalidAmount)
		}
		out.Amount = *req.Amount
	}

	switch p := doc.Payload.(type) {
	case *domain.ReceiptPayload:
		c := *p
		if req.LinkedDocumentID != nil {
			c.LinkedInvoiceID = req.LinkedDocumentID
		}
		out.Payload = &c
	case *domain.StatementOfPaymentPayload:
		c := *p
		if req.LinkedDocumentID != nil {
			c.LinkedVoucherID = req.LinkedDocumentID
		}
		if req.TotalDeducted != nil {
			c.TotalDeducted = req.TotalDeducted
		}
		out.Payload = &c
	case nil:
		if doc.Type == domain.StatementOfPayment && (req.TotalDeducted != nil || req.LinkedDocumentID != nil) {
			out.Payload = &domain.StatementOfPaymentPayload{LinkedVoucherID: req.LinkedDocumentID, TotalDeducted: req.TotalDeducted}
		}
	}

	if req.TotalDeducted != nil {
		if doc.Type != domain.StatementOfPayment {
			return domain.Document{}, fmt.Errorf("%w: total deducted only applies to statements of payment", apperrors.ErrValidation)
		}
		if !req.TotalDeducted.IsPositive() {
			return domain.Document{}, fmt.Errorf("total deducted %s: %w", req.TotalDeducted.String(), apperrors.ErrInvalidAmount)
		}
	}
	if req.LinkedDocumentID != nil {
		if _, ok := linkTarget(doc.Type); !ok {
			return domain.Document{}, fmt.Errorf("%w: %s documents cannot link to another document", apperrors.ErrValidation, doc.Type)
		}
	}
	return out, nil
}

// ledgerFieldsChanged reports whether an edit changes what the document posts.
func ledgerFieldsChanged(before, after domain.Document) (bool, error) {
	if !before.Type.AffectsLedger() {
		return false, nil
	}
	if stringValue(before.AccountID) != stringValue(after.AccountID) || before.CurrencyCode != after.CurrencyCode {
		return true, nil
	}
	oldEffect, _, err := ledgerEffect(before)
	if err != nil {
		return false, err
	}
	newEffect, _, err := ledgerEffect(after)
	if err != nil {
		return false, err
	}
	return !oldEffect.Equal(newEffect), nil
}

// lockAccounts locks the distinct non-empty accounts in ascending id order.
func lockAccounts(ctx context.Context, repos portsrepo.TxRepositories, ids ...*string) error {
	var ordered []string
	for _, id := range ids {
		if v := stringValue(id); v != "" && !slices.Contains(ordered, v) {
			ordered = append(ordered, v)
		}
	}
	slices.Sort(ordered)
	for _, id := range ordered {
		if _, err := repos.Accounts().LockAccount(ctx, id); err != nil {
			return fmt.Errorf("failed to lock account %s: %w", id, err)
		}
	}
	return nil
}

func stringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func countWrites(results []domain.LedgerResult) int {
	n := 0
	for _, r := range results {
		if r.Wrote() {
			n++
		}
	}
	return n
}
