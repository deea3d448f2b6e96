package memory

import (
	"context"
	"fmt"

	"github.com/SscSPs/docledger/internal/apperrors"
	"github.com/SscSPs/docledger/internal/core/domain"
)

func (s *Store) IncrementSequence(_ context.Context, key domain.SequenceKey) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[key]++
	return s.sequences[key], nil
}

func (s *Store) CurrentSequence(_ context.Context, key domain.SequenceKey) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sequences[key], nil
}

func (s *Store) ResetSequence(_ context.Context, key domain.SequenceKey, value int64) error {
	if value < 0 {
		return fmt.Errorf("%w: sequence value must not be negative", apperrors.ErrValidation)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sequences[key] = value
	return nil
}
