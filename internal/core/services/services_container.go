package services

import (
	"github.com/SscSPs/docledger/internal/activity"
	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
	"github.com/SscSPs/docledger/internal/metrics"
	"github.com/SscSPs/docledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, emitter activity.Emitter, ledgerMetrics *metrics.Ledger) *portssvc.ServiceContainer {
	opts := []BaseOption{WithActivityEmitter(emitter), WithMetrics(ledgerMetrics)}
	container := &portssvc.ServiceContainer{}

	// numbering first since documents depend on it
	container.Sequence = NewSequenceService(repos.SequenceRepo, cfg.SequenceLocation, opts...)
	container.Company = NewCompanyService(repos.CompanyRepo, opts...)
	container.Account = NewAccountService(repos.AccountRepo, repos.TransactionRepo, opts...)
	container.Ledger = NewLedgerService(repos.UnitOfWork, repos.CompanyRepo, opts...)
	container.Document = NewDocumentService(
		repos.UnitOfWork,
		repos.DocumentRepo,
		repos.AccountRepo,
		repos.CompanyRepo,
		container.Sequence,
		opts...,
	)

	return container
}
