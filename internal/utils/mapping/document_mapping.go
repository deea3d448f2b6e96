package mapping

import (
	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelDocument splits a domain Document into its header row and, when the
// payload is present, its extension row.
func ToModelDocument(d domain.Document) (models.Document, *models.DocumentExtension) {
	header := models.Document{
		DocumentID:   d.DocumentID,
		CompanyID:    d.CompanyID,
		AccountID:    d.AccountID,
		DocumentType: string(d.Type),
		Number:       d.Number,
		Status:       string(d.Status),
		CurrencyCode: d.CurrencyCode,
		Amount:       d.Amount,
		DeletedAt:    d.DeletedAt,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	return header, ToModelExtension(d.DocumentID, d.Payload)
}

// ToModelExtension flattens a payload into an extension row. A nil payload has no row.
func ToModelExtension(documentID string, p domain.DocumentPayload) *models.DocumentExtension {
	ext := &models.DocumentExtension{DocumentID: documentID}
	switch v := p.(type) {
	case *domain.InvoicePayload:
		ext.DueDate = v.DueDate
	case *domain.ReceiptPayload:
		ext.LinkedDocumentID = v.LinkedInvoiceID
	case *domain.PaymentVoucherPayload:
		if v.Payee != "" {
			payee := v.Payee
			ext.Payee = &payee
		}
	case *domain.StatementOfPaymentPayload:
		ext.LinkedDocumentID = v.LinkedVoucherID
		if v.TotalDeducted != nil {
			ext.TotalDeducted = decimal.NewNullDecimal(*v.TotalDeducted)
		}
	default:
		return nil
	}
	return ext
}

// ToDomainDocument joins a header row with its optional extension row.
func ToDomainDocument(m models.Document, ext *models.DocumentExtension) domain.Document {
	d := domain.Document{
		DocumentID:   m.DocumentID,
		CompanyID:    m.CompanyID,
		AccountID:    m.AccountID,
		Type:         domain.DocumentType(m.DocumentType),
		Number:       m.Number,
		Status:       domain.DocumentStatus(m.Status),
		CurrencyCode: m.CurrencyCode,
		Amount:       m.Amount,
		DeletedAt:    m.DeletedAt,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
	if ext != nil {
		d.Payload = toDomainPayload(d.Type, *ext)
	}
	return d
}

func toDomainPayload(t domain.DocumentType, ext models.DocumentExtension) domain.DocumentPayload {
	switch t {
	case domain.Invoice:
		return &domain.InvoicePayload{DueDate: ext.DueDate}
	case domain.Receipt:
		return &domain.ReceiptPayload{LinkedInvoiceID: ext.LinkedDocumentID}
	case domain.PaymentVoucher:
		p := &domain.PaymentVoucherPayload{}
		if ext.Payee != nil {
			p.Payee = *ext.Payee
		}
		return p
	case domain.StatementOfPayment:
		p := &domain.StatementOfPaymentPayload{LinkedVoucherID: ext.LinkedDocumentID}
		if ext.TotalDeducted.Valid {
			total := ext.TotalDeducted.Decimal
			p.TotalDeducted = &total
		}
		return p
	}
	return nil
}
