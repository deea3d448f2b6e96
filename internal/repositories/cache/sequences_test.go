package cache

import (
	"context"
	"testing"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestSequenceKey(t *testing.T) {
	key := domain.SequenceKey{CompanyID: "c-42", DocumentType: domain.StatementOfPayment, DateKey: "20250314"}
	assert.Equal(t, "seq:c-42:statement_of_payment:20250314", sequenceKey(key))
}

func TestResetSequence_RejectsNegative(t *testing.T) {
	// the client is never dialed because validation fails first
	repo := NewSequenceRepository(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}))
	err := repo.ResetSequence(context.Background(), domain.SequenceKey{}, -1)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
