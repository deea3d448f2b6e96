// Package storage opens the repositories selected by configuration.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	portsrepo "github.com/SscSPs/docledger/internal/core/ports/repositories"
	"github.com/SscSPs/docledger/internal/platform/config"
	"github.com/SscSPs/docledger/internal/repositories/cache"
	"github.com/SscSPs/docledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/docledger/internal/repositories/memory"
	"github.com/SscSPs/docledger/pkg/database"
)

// Storage is an opened set of repositories and the connections behind them.
type Storage struct {
	Repos   portsrepo.RepositoryProvider
	closers []func()
}

// Close releases every connection opened by Open, newest first.
func (s *Storage) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
}

// Open connects the configured storage driver and sequence backend.
// Postgres migrations run first when migrate is set.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, migrate bool) (*Storage, error) {
	s := &Storage{}

	switch cfg.StorageDriver {
	case config.DriverPostgres:
		if migrate {
			logger.Info("Running database migrations...")
			if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
				return nil, err
			}
		}
		pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
		if err != nil {
			return nil, fmt.Errorf("initialize database pool: %w", err)
		}
		s.closers = append(s.closers, func() { database.ClosePgxPool(pool) })
		s.Repos = pgsql.NewRepositoryProvider(pool, cfg.LockTimeout)
		logger.Info("Database connection pool established.")
	case config.DriverMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		s.Repos = memory.NewRepositoryProvider(memory.NewStore(memory.WithLockTimeout(cfg.LockTimeout)))
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	switch {
	case cfg.SequenceBackend == config.DriverRedis:
		client, err := cache.NewClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			s.Close()
			return nil, err
		}
		s.closers = append(s.closers, func() {
			if err := client.Close(); err != nil {
				logger.Error("Error closing redis client", slog.String("error", err.Error()))
			}
		})
		s.Repos.SequenceRepo = cache.NewSequenceRepository(client)
		logger.Info("Document numbers issued from redis", slog.String("addr", cfg.RedisAddr))
	case cfg.SequenceBackend == config.DriverMemory && cfg.StorageDriver != config.DriverMemory:
		logger.Warn("Document number counters are kept in memory and restart from zero")
		s.Repos.SequenceRepo = memory.NewStore()
	}

	return s, nil
}
