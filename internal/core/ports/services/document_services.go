package services

import (
	"context"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/dto"
)

// DocumentReaderSvc defines read operations on documents.
type DocumentReaderSvc interface {
	GetDocument(ctx context.Context, documentID string) (*domain.Document, error)
}

// DocumentLifecycleSvc applies the ledger consequences of document changes.
// Each call commits atomically or not at all.
type DocumentLifecycleSvc interface {
	// ChangeStatus validates and applies an explicit status transition,
	// posting or reversing ledger entries and propagating linked statuses.
	ChangeStatus(ctx context.Context, change domain.StatusChange) (*domain.ChangeResult, error)

	// EditDocument changes ledger-relevant fields. A completed document whose
	// account or amount changes is reversed and re-applied.
	EditDocument(ctx context.Context, documentID string, req dto.EditDocumentRequest, userID string) (*domain.ChangeResult, error)

	// DeleteDocument soft-deletes a document, reversing it first when completed.
	DeleteDocument(ctx context.Context, documentID string, userID string) (*domain.ChangeResult, error)
}

// DocumentWriterSvc creates documents.
type DocumentWriterSvc interface {
	CreateDocument(ctx context.Context, req dto.CreateDocumentRequest, userID string) (*domain.Document, error)
}

// DocumentSvcFacade combines all document service interfaces.
type DocumentSvcFacade interface {
	DocumentReaderSvc
	DocumentWriterSvc
	DocumentLifecycleSvc
}
