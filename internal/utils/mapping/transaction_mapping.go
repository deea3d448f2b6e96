package mapping

import (
	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/SscSPs/docledger/internal/models"
)

// ToModelTransaction converts a domain Transaction to a model Transaction.
// EntryNo is assigned by the database.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID:         d.TransactionID,
		AccountID:             d.AccountID,
		DocumentID:            d.DocumentID,
		TransactionType:       string(d.Type),
		Amount:                d.Amount,
		BalanceBefore:         d.BalanceBefore,
		BalanceAfter:          d.BalanceAfter,
		OccurredAt:            d.Timestamp,
		ApplicationNo:         d.ApplicationNo,
		IsReversal:            d.Metadata.IsReversal,
		OriginalTransactionID: d.Metadata.OriginalTransactionID,
		CreatedBy:             d.CreatedBy,
	}
}

// ToDomainTransaction converts a model Transaction to a domain Transaction
func ToDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		AccountID:     m.AccountID,
		DocumentID:    m.DocumentID,
		Type:          domain.TransactionType(m.TransactionType),
		Amount:        m.Amount,
		BalanceBefore: m.BalanceBefore,
		BalanceAfter:  m.BalanceAfter,
		Timestamp:     m.OccurredAt,
		ApplicationNo: m.ApplicationNo,
		Metadata: domain.TransactionMetadata{
			IsReversal:            m.IsReversal,
			OriginalTransactionID: m.OriginalTransactionID,
		},
		CreatedBy: m.CreatedBy,
	}
}

// ToDomainTransactionSlice converts a slice of model Transactions to domain Transactions
func ToDomainTransactionSlice(ms []models.Transaction) []domain.Transaction {
	ds := make([]domain.Transaction, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTransaction(m)
	}
	return ds
}
