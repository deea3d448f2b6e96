package pgsql

import (
	"time"

	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every Postgres repository. Units of work give
// up waiting for a row lock after lockTimeout.
func NewRepositoryProvider(dbPool *pgxpool.Pool, lockTimeout time.Duration) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	companyRepo := newPgxCompanyRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:     accountRepo,
		TransactionRepo: newPgxTransactionRepository(dbPool),
		DocumentRepo:    newPgxDocumentRepository(dbPool),
		SequenceRepo:    newPgxSequenceRepository(dbPool),
		CompanyRepo:     companyRepo,
		UnitOfWork:      newPgxUnitOfWork(dbPool, lockTimeout),
	}
}
