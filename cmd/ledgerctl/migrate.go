package main

import (
	"fmt"
	"log/slog"

	"github.com/SscSPs/docledger/internal/platform/config"
	"github.com/SscSPs/docledger/internal/platform/logger"
	"github.com/SscSPs/docledger/pkg/database"
	"github.com/spf13/cobra"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Example: `  # Apply migrations from the default directory
  ledgerctl migrate

  # Use another migrations source
  MIGRATIONS_PATH=file:///opt/docledger/migrations ledgerctl migrate`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logger.WithComponent("migrate")
			if a.cfg.StorageDriver != config.DriverPostgres {
				return fmt.Errorf("migrations require STORAGE_DRIVER=%s", config.DriverPostgres)
			}

			log.Info().Str("source", a.cfg.MigrationsPath).Msg("Running database migrations")
			status, err := database.RunMigrations(a.cfg.DatabaseURL, a.cfg.MigrationsPath, slog.Default())
			if err != nil {
				return err
			}
			if status.Dirty {
				return fmt.Errorf("schema version %d is dirty, fix it manually before retrying", status.Version)
			}

			log.Info().Uint("version", status.Version).Bool("applied", status.Applied).Msg("Migrations finished")
			fmt.Fprintf(cmd.OutOrStdout(), "schema version %d\n", status.Version)
			return nil
		},
	}
}
