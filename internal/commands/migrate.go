package commands

import (
	"context"
	"fmt"

	"github.com/Behyna/transaction-ledger/internal/config"
	"github.com/Behyna/transaction-ledger/internal/database"
	"github.com/spf13/cobra"
)

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the transactions table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrate(cmd.Context(), *configPath)
		},
	}
}

func runMigrate(ctx context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// migrate explicitly below, once
	cfg.Database.AutoMigrate = false

	if ctx == nil {
		ctx = context.Background()
	}

	db, err := database.NewConnection(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	return database.Migrate(db, logger)
}
