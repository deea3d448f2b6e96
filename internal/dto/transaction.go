package dto

import (
	"time"

	"github.com/SscSPs/docledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListTransactionsParams defines query parameters for listing an account's ledger.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=200"`
	NextToken *string `form:"nextToken"`
}

// TransactionResponse is one ledger entry.
type TransactionResponse struct {
	TransactionID         string                 `json:"transactionID"`
	AccountID             string                 `json:"accountID"`
	DocumentID            string                 `json:"documentID"`
	Type                  domain.TransactionType `json:"type"`
	Amount                decimal.Decimal        `json:"amount"`
	BalanceBefore         decimal.Decimal        `json:"balanceBefore"`
	BalanceAfter          decimal.Decimal        `json:"balanceAfter"`
	Timestamp             time.Time              `json:"timestamp"`
	IsReversal            bool                   `json:"isReversal"`
	OriginalTransactionID *string                `json:"originalTransactionID,omitempty"`
}

// ListTransactionsResponse is one page of ledger entries.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:         t.TransactionID,
		AccountID:             t.AccountID,
		DocumentID:            t.DocumentID,
		Type:                  t.Type,
		Amount:                t.Amount,
		BalanceBefore:         t.BalanceBefore,
		BalanceAfter:          t.BalanceAfter,
		Timestamp:             t.Timestamp,
		IsReversal:            t.Metadata.IsReversal,
		OriginalTransactionID: t.Metadata.OriginalTransactionID,
	}
}

// ToListTransactionsResponse converts a page of transactions.
func ToListTransactionsResponse(txns []domain.Transaction, nextToken *string) *ListTransactionsResponse {
	res := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = ToTransactionResponse(t)
	}
	return &ListTransactionsResponse{Transactions: res, NextToken: nextToken}
}
