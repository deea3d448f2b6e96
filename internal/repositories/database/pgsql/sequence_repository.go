package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSequenceRepository keeps numbering counters in document_sequences. Each
// call is its own statement so numbering never waits on ledger row locks.
type PgxSequenceRepository struct {
	BaseRepository
}

func newPgxSequenceRepository(pool *pgxpool.Pool) *PgxSequenceRepository {
	return &PgxSequenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

func (r *PgxSequenceRepository) IncrementSequence(ctx context.Context, key domain.SequenceKey) (int64, error) {
	query := `
		INSERT INTO document_sequences (company_id, document_type, date_key, last_value)
		VALUES ($1, $2, $3, 1)
		ON CONFLICT (company_id, document_type, date_key)
		DO UPDATE SET last_value = document_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	err := r.Pool.QueryRow(ctx, query, key.CompanyID, string(key.DocumentType), key.DateKey).Scan(&value)
	if err != nil {
		return 0, mapPgError(err, fmt.Sprintf("failed to increment sequence %s/%s/%s", key.CompanyID, key.DocumentType, key.DateKey))
	}
	return value, nil
}

func (r *PgxSequenceRepository) CurrentSequence(ctx context.Context, key domain.SequenceKey) (int64, error) {
	query := `
		SELECT last_value FROM document_sequences
		WHERE company_id = $1 AND document_type = $2 AND date_key = $3;
	`
	var value int64
	err := r.Pool.QueryRow(ctx, query, key.CompanyID, string(key.DocumentType), key.DateKey).Scan(&value)
	if err != nil {
		mapped := mapPgError(err, "failed to read sequence")
		if errors.Is(mapped, apperrors.ErrNotFound) {
			return 0, nil
		}
		return 0, mapped
	}
	return value, nil
}

func (r *PgxSequenceRepository) ResetSequence(ctx context.Context, key domain.SequenceKey, value int64) error {
	if value < 0 {
		return fmt.Errorf("%w: sequence value must not be negative", apperrors.ErrValidation)
	}
	query := `
		INSERT INTO document_sequences (company_id, document_type, date_key, last_value)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (company_id, document_type, date_key)
		DO UPDATE SET last_value = EXCLUDED.last_value;
	`
	_, err := r.Pool.Exec(ctx, query, key.CompanyID, string(key.DocumentType), key.DateKey, value)
	return mapPgError(err, "failed to reset sequence")
}
