package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/docledger/internal/activity"
	portssvc "github.com/SscSPs/docledger/internal/core/ports/services"
	"github.com/SscSPs/docledger/internal/core/services"
	"github.com/SscSPs/docledger/internal/platform/config"
	"github.com/SscSPs/docledger/internal/platform/logger"
	"github.com/SscSPs/docledger/internal/platform/storage"
	"github.com/spf13/cobra"
)

var version = "1.0.0"

// app is the state shared by subcommands once the root pre-run has loaded config.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Administer the document ledger",
		Long: `ledgerctl runs administrative tasks against the ledger store configured
through the same environment variables as the API server (PGSQL_URL,
STORAGE_DRIVER, SEQUENCE_BACKEND, REDIS_ADDR, ...).`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := logger.Setup(logger.LogConfig{Level: logLevel, Format: logFormat, Output: cmd.ErrOrStderr()}); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			cfg, err := config.LoadConfig()
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")

	rootCmd.AddCommand(
		newMigrateCmd(a),
		newVerifyCmd(a),
		newNextNumberCmd(a),
		newSequenceCmd(a),
		newResetSequenceCmd(a),
	)
	return rootCmd
}

// withServices opens storage, builds the services and hands them to fn.
func (a *app) withServices(ctx context.Context, fn func(*portssvc.ServiceContainer) error) error {
	store, err := storage.Open(ctx, a.cfg, slog.Default(), false)
	if err != nil {
		return err
	}
	defer store.Close()

	return fn(services.NewServiceContainer(a.cfg, store.Repos, activity.Nop{}, nil))
}
