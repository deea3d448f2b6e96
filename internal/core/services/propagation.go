package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
)

// propagator re-derives the status of invoices and vouchers from the
// receipts and statements linked to them.
type propagator struct {
	*BaseService
}

// propagate recomputes every document linked to doc before or after a change.
func (p *propagator) propagate(ctx context.Context, repos portsrepo.TxRepositories, before, after domain.Document) ([]domain.PropagatedStatus, error) {
	if after.Type == domain.Invoice {
		return p.propagateInvoiceTotal(ctx, repos, before, after)
	}

	var recompute func(context.Context, portsrepo.TxRepositories, string) (*domain.PropagatedStatus, error)
	switch after.Type {
	case domain.Receipt:
		recompute = p.recomputeInvoice
	case domain.StatementOfPayment:
		recompute = p.recomputeVoucher
	default:
		return nil, nil
	}

	var targets []string
	for _, id := range []*string{before.LinkedDocumentID(), after.LinkedDocumentID()} {
		if id == nil || *id == "" || (len(targets) == 1 && targets[0] == *id) {
			continue
		}
		targets = append(targets, *id)
	}

	var changed []domain.PropagatedStatus
	for _, id := range targets {
		status, err := recompute(ctx, repos, id)
		if err != nil {
			return nil, err
		}
		if status != nil {
			changed = append(changed, *status)
		}
	}
	return changed, nil
}

// propagateInvoiceTotal re-derives an invoice's own status when its total changes.
func (p *propagator) propagateInvoiceTotal(ctx context.Context, repos portsrepo.TxRepositories, before, after domain.Document) ([]domain.PropagatedStatus, error) {
	if before.Amount.Equal(after.Amount) || after.IsDeleted() {
		return nil, nil
	}
	status, err := p.recomputeInvoice(ctx, repos, after.DocumentID)
	if err != nil || status == nil {
		return nil, err
	}
	return []domain.PropagatedStatus{*status}, nil
}

// recomputeInvoice marks an issued invoice paid once its settled receipts
// cover the total and returns a paid invoice to issued when they no longer do.
func (p *propagator) recomputeInvoice(ctx context.Context, repos portsrepo.TxRepositories, invoiceID string) (*domain.PropagatedStatus, error) {
	invoice, ok, err := p.lockLinked(ctx, repos, invoiceID, domain.Invoice)
	if err != nil || !ok {
		return nil, err
	}
	if invoice.Status != domain.StatusIssued && invoice.Status != domain.StatusPaid {
		return nil, nil
	}

	settled, err := repos.Documents().SumSettledReceipts(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("failed to sum receipts of invoice %s: %w", invoiceID, err)
	}

	target := domain.StatusIssued
	if settled.GreaterThanOrEqual(invoice.Amount) {
		target = domain.StatusPaid
	}
	p.LogDebug(ctx, "Recomputed invoice settlement",
		slog.String("invoice_id", invoiceID),
		slog.String("settled", settled.String()),
		slog.String("total", invoice.Amount.String()))
	return p.setStatus(ctx, repos, invoice, target)
}

// recomputeVoucher completes an issued voucher while a completed statement
// links to it and returns it to issued when none does.
func (p *propagator) recomputeVoucher(ctx context.Context, repos portsrepo.TxRepositories, voucherID string) (*domain.PropagatedStatus, error) {
	voucher, ok, err := p.lockLinked(ctx, repos, voucherID, domain.PaymentVoucher)
	if err != nil || !ok {
		return nil, err
	}
	if voucher.Status != domain.StatusIssued && voucher.Status != domain.StatusCompleted {
		return nil, nil
	}

	completed, err := repos.Documents().CountCompletedStatements(ctx, voucherID)
	if err != nil {
		return nil, fmt.Errorf("failed to count statements of voucher %s: %w", voucherID, err)
	}

	target := domain.StatusIssued
	if completed > 0 {
		target = domain.StatusCompleted
	}
	return p.setStatus(ctx, repos, voucher, target)
}

func (p *propagator) lockLinked(ctx context.Context, repos portsrepo.TxRepositories, id string, want domain.DocumentType) (*domain.Document, bool, error) {
	doc, err := repos.Documents().LockDocument(ctx, id)
	if errors.Is(err, apperrors.ErrNotFound) {
		p.GetLogger(ctx).Warn("Linked document not found, skipping propagation",
			slog.String("document_id", id),
			slog.String("expected_type", string(want)))
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to lock linked %s %s: %w", want, id, err)
	}
	if doc.Type != want || doc.IsDeleted() {
		return nil, false, nil
	}
	return doc, true, nil
}

func (p *propagator) setStatus(ctx context.Context, repos portsrepo.TxRepositories, doc *domain.Document, target domain.DocumentStatus) (*domain.PropagatedStatus, error) {
	if doc.Status == target {
		return nil, nil
	}
	if err := domain.ValidateTransition(doc.Type, doc.Status, target, domain.InitiatorSystem); err != nil {
		return nil, err
	}
	if err := repos.Documents().UpdateDocumentStatus(ctx, doc.DocumentID, target, domain.SystemActorID, p.now()); err != nil {
		return nil, fmt.Errorf("failed to update status of %s %s: %w", doc.Type, doc.DocumentID, err)
	}
	p.LogInfo(ctx, "Propagated linked document status",
		slog.String("document_id", doc.DocumentID),
		slog.String("from", string(doc.Status)),
		slog.String("to", string(target)))
	return &domain.PropagatedStatus{DocumentID: doc.DocumentID, Type: doc.Type, From: doc.Status, To: target}, nil
}
