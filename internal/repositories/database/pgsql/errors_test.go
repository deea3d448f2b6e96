package pgsql

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestMapPgError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"no rows", pgx.ErrNoRows, apperrors.ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: codeUniqueViolation, ConstraintName: "ux_ledger_application"}, apperrors.ErrDuplicate},
		{"lock timeout", &pgconn.PgError{Code: codeLockNotAvailable}, apperrors.ErrConcurrencyTimeout},
		{"deadlock", &pgconn.PgError{Code: codeDeadlockDetected}, apperrors.ErrConcurrencyTimeout},
		{"serialization", &pgconn.PgError{Code: codeSerializationFailure}, apperrors.ErrConcurrencyTimeout},
		{"wrapped lock timeout", fmt.Errorf("exec: %w", &pgconn.PgError{Code: codeLockNotAvailable}), apperrors.ErrConcurrencyTimeout},
		{"deadline", context.DeadlineExceeded, apperrors.ErrConcurrencyTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, mapPgError(tt.err, "op"), tt.want)
		})
	}
}

func TestMapPgError_PassesThroughOthers(t *testing.T) {
	assert.NoError(t, mapPgError(nil, "op"))

	cause := errors.New("connection reset")
	err := mapPgError(cause, "op")
	assert.ErrorIs(t, err, cause)
	assert.False(t, apperrors.IsRetryable(err))

	err = mapPgError(&pgconn.PgError{Code: "23503"}, "op")
	assert.False(t, errors.Is(err, apperrors.ErrDuplicate))
}
