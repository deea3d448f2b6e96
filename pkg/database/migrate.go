package database

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// MigrationStatus describes the schema version after a migration run.
type MigrationStatus struct {
	Version uint
	Dirty   bool
	Applied bool
}

// RunMigrations applies every pending "up" migration found at migrationsPath
// (a golang-migrate source URL such as file://migrations).
func RunMigrations(databaseURL, migrationsPath string, logger *slog.Logger) (MigrationStatus, error) {
	var status MigrationStatus

	// Using pgx/v5/stdlib driver to be compatible with the main pool
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return status, fmt.Errorf("open database for migrations: %w", err)
	}
	defer func() {
		if cerr := migrationDB.Close(); cerr != nil {
			logger.Error("Error closing migration DB connection", slog.String("error", cerr.Error()))
		}
	}()
	if err := migrationDB.Ping(); err != nil {
		return status, fmt.Errorf("ping database for migrations: %w", err)
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		return status, fmt.Errorf("create postgres driver for migrations: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(migrationsPath, "postgres", driver)
	if err != nil {
		return status, fmt.Errorf("create migrate instance: %w", err)
	}

	upErr := m.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return status, fmt.Errorf("apply migrations: %w", upErr)
	}
	status.Applied = upErr == nil

	version, dirty, verr := m.Version()
	if verr != nil && !errors.Is(verr, migrate.ErrNilVersion) {
		return status, fmt.Errorf("read migration version: %w", verr)
	}
	status.Version, status.Dirty = version, dirty

	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return status, fmt.Errorf("migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return status, fmt.Errorf("migration database: %w", dbErr)
	}

	if status.Applied {
		logger.Info("Database migrations applied successfully.", slog.Uint64("version", uint64(status.Version)))
	} else {
		logger.Info("No new migrations to apply.", slog.Uint64("version", uint64(status.Version)))
	}
	return status, nil
}
