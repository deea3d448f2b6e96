package dto

import (
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest defines the data needed to register a document with the ledger.
// LinkedDocumentID is the invoice for a receipt and the voucher for a statement of payment.
type CreateDocumentRequest struct {
	CompanyID        string                `json:"companyID" binding:"required"`
	Type             domain.DocumentType   `json:"type" binding:"required,doctype"`
	Status           domain.DocumentStatus `json:"status" binding:"omitempty,oneof=draft issued"`
	AccountID        *string               `json:"accountID"`
	CurrencyCode     string                `json:"currencyCode" binding:"required,len=3,uppercase"`
	Amount           decimal.Decimal       `json:"amount"`
	LinkedDocumentID *string               `json:"linkedDocumentID"`
	TotalDeducted    *decimal.Decimal      `json:"totalDeducted"`
	DueDate          *time.Time            `json:"dueDate"`
	Payee            string                `json:"payee"`
}

// ChangeStatusRequest carries an explicit status pair.
type ChangeStatusRequest struct {
	FromStatus domain.DocumentStatus `json:"fromStatus" binding:"required,docstatus"`
	ToStatus   domain.DocumentStatus `json:"toStatus" binding:"required,docstatus"`
}

// EditDocumentRequest changes ledger-relevant fields. Nil fields are left unchanged.
type EditDocumentRequest struct {
	AccountID        *string          `json:"accountID"`
	CurrencyCode     *string          `json:"currencyCode" binding:"omitempty,len=3,uppercase"`
	Amount           *decimal.Decimal `json:"amount"`
	TotalDeducted    *decimal.Decimal `json:"totalDeducted"`
	LinkedDocumentID *string          `json:"linkedDocumentID"`
}

// DocumentResponse defines the data returned for a document.
type DocumentResponse struct {
	DocumentID       string                `json:"documentID"`
	CompanyID        string                `json:"companyID"`
	AccountID        *string               `json:"accountID,omitempty"`
	Type             domain.DocumentType   `json:"type"`
	Number           string                `json:"number"`
	Status           domain.DocumentStatus `json:"status"`
	CurrencyCode     string                `json:"currencyCode"`
	Amount           decimal.Decimal       `json:"amount"`
	LinkedDocumentID *string               `json:"linkedDocumentID,omitempty"`
	TotalDeducted    *decimal.Decimal      `json:"totalDeducted,omitempty"`
	DueDate          *time.Time            `json:"dueDate,omitempty"`
	Payee            string                `json:"payee,omitempty"`
	Deleted          bool                  `json:"deleted"`
	CreatedAt        time.Time             `json:"createdAt"`
	CreatedBy        string                `json:"createdBy"`
	LastUpdatedAt    time.Time             `json:"lastUpdatedAt"`
	LastUpdatedBy    string                `json:"lastUpdatedBy"`
}

// ToDocumentResponse flattens a document and its extension.
func ToDocumentResponse(doc *domain.Document) DocumentResponse {
	res := DocumentResponse{
		DocumentID:       doc.DocumentID,
		CompanyID:        doc.CompanyID,
		AccountID:        doc.AccountID,
		Type:             doc.Type,
		Number:           doc.Number,
		Status:           doc.Status,
		CurrencyCode:     doc.CurrencyCode,
		Amount:           doc.Amount,
		LinkedDocumentID: doc.LinkedDocumentID(),
		Deleted:          doc.IsDeleted(),
		CreatedAt:        doc.CreatedAt,
		CreatedBy:        doc.CreatedBy,
		LastUpdatedAt:    doc.LastUpdatedAt,
		LastUpdatedBy:    doc.LastUpdatedBy,
	}
	switch p := doc.Payload.(type) {
	case *domain.InvoicePayload:
		res.DueDate = p.DueDate
	case *domain.PaymentVoucherPayload:
		res.Payee = p.Payee
	case *domain.StatementOfPaymentPayload:
		res.TotalDeducted = p.TotalDeducted
	}
	return res
}

// LedgerEntryResult describes one ledger step of a document change.
type LedgerEntryResult struct {
	Outcome     domain.LedgerOutcome `json:"outcome"`
	Transaction *TransactionResponse `json:"transaction,omitempty"`
}

// ChangeResultResponse is returned by status, edit and delete operations.
type ChangeResultResponse struct {
	Document   DocumentResponse          `json:"document"`
	Ledger     []LedgerEntryResult       `json:"ledger"`
	Propagated []domain.PropagatedStatus `json:"propagated"`
}

// ToChangeResultResponse converts a domain.ChangeResult.
func ToChangeResultResponse(r *domain.ChangeResult) ChangeResultResponse {
	res := ChangeResultResponse{
		Document:   ToDocumentResponse(r.Document),
		Ledger:     make([]LedgerEntryResult, 0, len(r.Ledger)),
		Propagated: r.Propagated,
	}
	if res.Propagated == nil {
		res.Propagated = []domain.PropagatedStatus{}
	}
	for _, l := range r.Ledger {
		res.Ledger = append(res.Ledger, ToLedgerEntryResult(l))
	}
	return res
}

// ToLedgerEntryResult converts a domain.LedgerResult.
func ToLedgerEntryResult(r domain.LedgerResult) LedgerEntryResult {
	entry := LedgerEntryResult{Outcome: r.Outcome}
	if r.Transaction != nil {
		t := ToTransactionResponse(*r.Transaction)
		entry.Transaction = &t
	}
	return entry
}
