package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DocumentReader defines read operations for documents.
type DocumentReader interface {
	// FindDocumentByID returns a document with its extension, including soft-deleted ones.
	FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error)
}

// DocumentWriter defines write operations for documents outside a unit of work.
type DocumentWriter interface {
	// SaveDocument persists a new document header and its extension.
	SaveDocument(ctx context.Context, doc domain.Document) error
}

// DocumentRepositoryFacade combines the document repository interfaces.
type DocumentRepositoryFacade interface {
	DocumentReader
	DocumentWriter
}

// DocumentTxRepository is the document access available inside a unit of work.
type DocumentTxRepository interface {
	// LockDocument reads the document and holds an exclusive lock on it until the unit of work ends.
	LockDocument(ctx context.Context, documentID string) (*domain.Document, error)

	UpdateDocumentStatus(ctx context.Context, documentID string, status domain.DocumentStatus, userID string, now time.Time) error

	// UpdateDocument rewrites the ledger-relevant fields and the extension.
	UpdateDocument(ctx context.Context, doc domain.Document) error

	SoftDeleteDocument(ctx context.Context, documentID string, userID string, now time.Time) error

	// SumSettledReceipts sums the amounts of non-deleted receipts linked to the
	// invoice whose status is completed or paid, as seen by the unit of work.
	SumSettledReceipts(ctx context.Context, invoiceID string) (decimal.Decimal, error)

	// CountCompletedStatements counts non-deleted completed statements of payment linked to the voucher.
	CountCompletedStatements(ctx context.Context, voucherID string) (int, error)
}
