package repositories

import (
	"context"

	"github.com/SscSPs/docledger/internal/core/domain"
)

// SequenceRepository stores document numbering counters.
type SequenceRepository interface {
	// IncrementSequence atomically increments the counter for key, creating it
	// at 1 if absent, and returns the new value. It never takes account locks.
	IncrementSequence(ctx context.Context, key domain.SequenceKey) (int64, error)

	// CurrentSequence returns the last issued value, 0 if none.
	CurrentSequence(ctx context.Context, key domain.SequenceKey) (int64, error)

	// ResetSequence sets the counter to value. Administrative use only.
	ResetSequence(ctx context.Context, key domain.SequenceKey, value int64) error
}
