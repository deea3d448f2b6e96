package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Document is a row of the documents table.
type Document struct {
	DocumentID   string          `db:"document_id"`
	CompanyID    string          `db:"company_id"`
	AccountID    *string         `db:"account_id"`
	DocumentType string          `db:"document_type"`
	Number       string          `db:"document_number"`
	Status       string          `db:"status"`
	CurrencyCode string          `db:"currency_code"`
	Amount       decimal.Decimal `db:"amount"`
	DeletedAt    *time.Time      `db:"deleted_at"`
	AuditFields
}

// DocumentExtension is a row of document_extensions. One table carries the
// columns of every type; columns that do not apply to a type stay NULL.
type DocumentExtension struct {
	DocumentID       string              `db:"document_id"`
	LinkedDocumentID *string             `db:"linked_document_id"`
	TotalDeducted    decimal.NullDecimal `db:"total_deducted"`
	DueDate          *time.Time          `db:"due_date"`
	Payee            *string             `db:"payee"`
}
