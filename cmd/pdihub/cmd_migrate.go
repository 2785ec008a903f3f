package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdihub/pdihub/internal/config"
	"github.com/pdihub/pdihub/internal/db"
	"github.com/pdihub/pdihub/internal/db/migrations"
	"github.com/pdihub/pdihub/internal/dbpool"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			log := newLogger(cfg.LogLevel)
			ctx := context.Background()

			pool, err := dbpool.NewPool(ctx, cfg.DatabaseURL.Value())
			if err != nil {
				return fmt.Errorf("connect database: %w", err)
			}
			defer pool.Close()

			if err := db.RunMigrations(ctx, pool, log, migrations.FS); err != nil {
				return fmt.Errorf("run migrations: %w", err)
			}

			log.Info("migrations applied")

			return nil
		},
	}
}
