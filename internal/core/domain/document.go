package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DocumentType identifies the kind of business document.
type DocumentType string

const (
	Invoice            DocumentType = "invoice"
	Receipt            DocumentType = "receipt"
	PaymentVoucher     DocumentType = "payment_voucher"
	StatementOfPayment DocumentType = "statement_of_payment"
)

var documentPrefixes = map[DocumentType]string{
	Invoice:            "INV",
	Receipt:            "RCP",
	PaymentVoucher:     "PV",
	StatementOfPayment: "SOP",
}

// Prefix returns the document number prefix for the type.
func (t DocumentType) Prefix() string {
	return documentPrefixes[t]
}

// Valid reports whether t is a known document type.
func (t DocumentType) Valid() bool {
	_, ok := documentPrefixes[t]
	return ok
}

// AffectsLedger reports whether completing a document of this type moves money.
func (t DocumentType) AffectsLedger() bool {
	return t == Receipt || t == StatementOfPayment
}

// ParseDocumentType converts a raw string into a DocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	t := DocumentType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown document type %q", s)
	}
	return t, nil
}

// DocumentStatus is the lifecycle status of a document.
type DocumentStatus string

const (
	StatusDraft     DocumentStatus = "draft"
	StatusIssued    DocumentStatus = "issued"
	StatusPaid      DocumentStatus = "paid"
	StatusCompleted DocumentStatus = "completed"
	StatusCancelled DocumentStatus = "cancelled"
)

// Valid reports whether s is a known status.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusIssued, StatusPaid, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Document is the common header shared by every document type. The
// type-specific extension lives in Payload; a nil Payload means the
// extension record does not exist.
type Document struct {
	DocumentID   string          `json:"documentID"`
	CompanyID    string          `json:"companyID"`
	AccountID    *string         `json:"accountID,omitempty"`
	Type         DocumentType    `json:"type"`
	Number       string          `json:"number"`
	Status       DocumentStatus  `json:"status"`
	CurrencyCode string          `json:"currencyCode"`
	Amount       decimal.Decimal `json:"amount"`
	Payload      DocumentPayload `json:"-"`
	DeletedAt    *time.Time      `json:"deletedAt,omitempty"`
	AuditFields
}

// IsDeleted reports whether the document has been soft-deleted.
func (d Document) IsDeleted() bool {
	return d.DeletedAt != nil
}

// LinkedDocumentID returns the invoice linked to a receipt or the voucher
// linked to a statement of payment.
func (d Document) LinkedDocumentID() *string {
	switch p := d.Payload.(type) {
	case *ReceiptPayload:
		return p.LinkedInvoiceID
	case *StatementOfPaymentPayload:
		return p.LinkedVoucherID
	}
	return nil
}

// DocumentPayload is the type-specific part of a document.
type DocumentPayload interface {
	DocumentType() DocumentType
	sealed()
}

// InvoicePayload is the invoice extension. The invoice total is the document amount.
type InvoicePayload struct {
	DueDate *time.Time `json:"dueDate,omitempty"`
}

// ReceiptPayload is the receipt extension.
type ReceiptPayload struct {
	LinkedInvoiceID *string `json:"linkedInvoiceID,omitempty"`
}

// PaymentVoucherPayload is the payment voucher extension.
type PaymentVoucherPayload struct {
	Payee string `json:"payee,omitempty"`
}

// StatementOfPaymentPayload is the statement of payment extension.
// TotalDeducted, when set, is the amount actually taken from the account.
type StatementOfPaymentPayload struct {
	LinkedVoucherID *string          `json:"linkedVoucherID,omitempty"`
	TotalDeducted   *decimal.Decimal `json:"totalDeducted,omitempty"`
}

func (*InvoicePayload) DocumentType() DocumentType            { return Invoice }
func (*ReceiptPayload) DocumentType() DocumentType            { return Receipt }
func (*PaymentVoucherPayload) DocumentType() DocumentType     { return PaymentVoucher }
func (*StatementOfPaymentPayload) DocumentType() DocumentType { return StatementOfPayment }

func (*InvoicePayload) sealed()            {}
func (*ReceiptPayload) sealed()            {}
func (*PaymentVoucherPayload) sealed()     {}
func (*StatementOfPaymentPayload) sealed() {}

// NewPayload returns an empty payload for the given document type.
func NewPayload(t DocumentType) DocumentPayload {
	switch t {
	case Invoice:
		return &InvoicePayload{}
	case Receipt:
		return &ReceiptPayload{}
	case PaymentVoucher:
		return &PaymentVoucherPayload{}
	case StatementOfPayment:
		return &StatementOfPaymentPayload{}
	}
	return nil
}
