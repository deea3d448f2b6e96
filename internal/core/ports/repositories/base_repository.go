package repositories

import (
	"context"
)

// TxRepositories gives access to the repositories bound to one unit of work.
type TxRepositories interface {
	Accounts() AccountTxRepository
	Transactions() TransactionTxRepository
	Documents() DocumentTxRepository
}

// UnitOfWork runs a function atomically. Every write made through the
// TxRepositories handed to fn is committed together when fn returns nil and
// discarded when it returns an error. Row locks taken inside fn are held until
// the unit ends.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
