package memory

import (
	"context"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// ListTransactionsByAccount pages through entries newest first. Entry numbers
// are positions in the append-only slice.
func (s *Store) ListTransactionsByAccount(_ context.Context, accountID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	before := int64(-1)
	if nextToken != nil && *nextToken != "" {
		n, err := pagination.DecodeSequenceToken(*nextToken)
		if err != nil {
			return nil, nil, err
		}
		before = n
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Transaction, 0, limit)
	var lastEntry int64
	for i := len(s.transactions) - 1; i >= 0; i-- {
		entryNo := int64(i + 1)
		if before >= 0 && entryNo >= before {
			continue
		}
		txn := s.transactions[i]
		if txn.AccountID != accountID {
			continue
		}
		if len(out) == limit {
			token := pagination.EncodeSequenceToken(lastEntry)
			return out, &token, nil
		}
		out = append(out, txn)
		lastEntry = entryNo
	}
	return out, nil, nil
}

func (s *Store) SumSignedTransactions(_ context.Context, accountID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := decimal.Zero
	for _, txn := range s.transactions {
		if txn.AccountID == accountID {
			total = total.Add(txn.SignedAmount())
		}
	}
	return total, nil
}
