package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/SscSPs/docledger/internal/models"
	"github.com/SscSPs/docledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxDocumentRepository struct {
	BaseRepository
}

func newPgxDocumentRepository(pool *pgxpool.Pool) *PgxDocumentRepository {
	return &PgxDocumentRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DocumentRepositoryFacade = (*PgxDocumentRepository)(nil)

const documentSelect = `
	SELECT d.document_id, d.company_id, d.account_id, d.document_type, d.document_number, d.status,
		d.currency_code, d.amount, d.deleted_at, d.created_at, d.created_by, d.last_updated_at, d.last_updated_by,
		e.document_id, e.linked_document_id, e.total_deducted, e.due_date, e.payee
	FROM documents d
	LEFT JOIN document_extensions e ON e.document_id = d.document_id
	WHERE d.document_id = $1`

func scanDocument(row pgx.Row) (*domain.Document, error) {
	var m models.Document
	var ext models.DocumentExtension
	var extID *string
	err := row.Scan(
		&m.DocumentID,
		&m.CompanyID,
		&m.AccountID,
		&m.DocumentType,
		&m.Number,
		&m.Status,
		&m.CurrencyCode,
		&m.Amount,
		&m.DeletedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&extID,
		&ext.LinkedDocumentID,
		&ext.TotalDeducted,
		&ext.DueDate,
		&ext.Payee,
	)
	if err != nil {
		return nil, err
	}
	var extRow *models.DocumentExtension
	if extID != nil {
		ext.DocumentID = *extID
		extRow = &ext
	}
	doc := mapping.ToDomainDocument(m, extRow)
	return &doc, nil
}

// SaveDocument inserts the header and extension in one transaction.
func (r *PgxDocumentRepository) SaveDocument(ctx context.Context, doc domain.Document) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	header, ext := mapping.ToModelDocument(doc)
	query := `
		INSERT INTO documents (document_id, company_id, account_id, document_type, document_number, status,
			currency_code, amount, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err = tx.Exec(ctx, query,
		header.DocumentID,
		header.CompanyID,
		header.AccountID,
		header.DocumentType,
		header.Number,
		header.Status,
		header.CurrencyCode,
		header.Amount,
		header.CreatedAt,
		header.CreatedBy,
		header.LastUpdatedAt,
		header.LastUpdatedBy,
	)
	if err != nil {
		return mapPgError(err, fmt.Sprintf("failed to save document %s", header.Number))
	}
	if err := upsertExtension(ctx, tx, ext); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// FindDocumentByID returns a document, including soft-deleted ones.
func (r *PgxDocumentRepository) FindDocumentByID(ctx context.Context, documentID string) (*domain.Document, error) {
	doc, err := scanDocument(r.Pool.QueryRow(ctx, documentSelect+";", documentID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to find document %s", documentID))
	}
	return doc, nil
}

func upsertExtension(ctx context.Context, q querier, ext *models.DocumentExtension) error {
	if ext == nil {
		return nil
	}
	query := `
		INSERT INTO document_extensions (document_id, linked_document_id, total_deducted, due_date, payee)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (document_id) DO UPDATE
		SET linked_document_id = EXCLUDED.linked_document_id,
			total_deducted = EXCLUDED.total_deducted,
			due_date = EXCLUDED.due_date,
			payee = EXCLUDED.payee;
	`
	_, err := q.Exec(ctx, query, ext.DocumentID, ext.LinkedDocumentID, ext.TotalDeducted, ext.DueDate, ext.Payee)
	return mapPgError(err, fmt.Sprintf("failed to write extension of document %s", ext.DocumentID))
}

// --- unit of work helpers ---

func lockDocument(ctx context.Context, q querier, documentID string) (*domain.Document, error) {
	doc, err := scanDocument(q.QueryRow(ctx, documentSelect+" FOR UPDATE OF d;", documentID))
	if err != nil {
		return nil, mapPgError(err, fmt.Sprintf("failed to lock document %s", documentID))
	}
	return doc, nil
}

func execOne(ctx context.Context, q querier, msg string, query string, args ...any) error {
	tag, err := q.Exec(ctx, query, args...)
	if err != nil {
		return mapPgError(err, msg)
	}
	if tag.RowsAffected() == 0 {
		return mapPgError(pgx.ErrNoRows, msg)
	}
	return nil
}

func updateDocumentStatus(ctx context.Context, q querier, documentID string, status domain.DocumentStatus, userID string, now time.Time) error {
	return execOne(ctx, q, fmt.Sprintf("failed to update status of document %s", documentID), `
		UPDATE documents SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE document_id = $1;`,
		documentID, string(status), now, userID)
}

func updateDocument(ctx context.Context, q querier, doc domain.Document) error {
	header, ext := mapping.ToModelDocument(doc)
	err := execOne(ctx, q, fmt.Sprintf("failed to update document %s", doc.DocumentID), `
		UPDATE documents SET account_id = $2, currency_code = $3, amount = $4, last_updated_at = $5, last_updated_by = $6
		WHERE document_id = $1;`,
		header.DocumentID, header.AccountID, header.CurrencyCode, header.Amount, header.LastUpdatedAt, header.LastUpdatedBy)
	if err != nil {
		return err
	}
	return upsertExtension(ctx, q, ext)
}

func softDeleteDocument(ctx context.Context, q querier, documentID string, userID string, now time.Time) error {
	return execOne(ctx, q, fmt.Sprintf("failed to delete document %s", documentID), `
		UPDATE documents SET deleted_at = $2, last_updated_at = $2, last_updated_by = $3
		WHERE document_id = $1 AND deleted_at IS NULL;`,
		documentID, now, userID)
}

func sumSettledReceipts(ctx context.Context, q querier, invoiceID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(d.amount), 0)
		FROM documents d
		JOIN document_extensions e ON e.document_id = d.document_id
		WHERE e.linked_document_id = $1
			AND d.document_type = 'receipt'
			AND d.deleted_at IS NULL
			AND d.status IN ('completed', 'paid');
	`
	var total decimal.Decimal
	if err := q.QueryRow(ctx, query, invoiceID).Scan(&total); err != nil {
		return decimal.Zero, mapPgError(err, fmt.Sprintf("failed to sum receipts of invoice %s", invoiceID))
	}
	return total, nil
}

func countCompletedStatements(ctx context.Context, q querier, voucherID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM documents d
		JOIN document_extensions e ON e.document_id = d.document_id
		WHERE e.linked_document_id = $1
			AND d.document_type = 'statement_of_payment'
			AND d.deleted_at IS NULL
			AND d.status = 'completed';
	`
	var n int
	if err := q.QueryRow(ctx, query, voucherID).Scan(&n); err != nil {
		return 0, mapPgError(err, fmt.Sprintf("failed to count statements of voucher %s", voucherID))
	}
	return n, nil
}
