package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snipurl/snipurl/internal/config"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the store schema and exit",
		Long: `Create the users and short_urls tables (postgres) or the unique
indexes on email, key and secret_key (mongo). Safe to run repeatedly.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			logger := initLogger(cfg)

			store, backend, err := openStore(ctx, cfg, logger)
			if err != nil {
				return err
			}
			defer store.Close(ctx)

			if err := store.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate %s store: %w", backend, err)
			}

			logger.Info("migration complete", "backend", string(backend))
			return nil
		},
	}
}
