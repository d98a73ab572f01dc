package main

import (
	root "riskblock"
	"riskblock/pkg/logger"
	"riskblock/pkg/serrors"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCommand constructs the 'migrate' subcommand that applies the run
// history migrations to the latest version using goose.
func migrateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Migrates the run history database to the latest version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext("migrate")
			defer cancel()

			if !a.cfg.Database.Enabled {
				return serrors.With(serrors.ErrBadRequest, "database is disabled, set DATABASE_ENABLED=true")
			}

			strg, closeStrg, err := getPostgres(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer closeStrg()

			if err := strg.Migrate(ctx, root.Migrations); err != nil {
				logger.Error(ctx, "could not migrate database", zap.Error(err))

				return err //nolint: wrapcheck
			}
			logger.Info(ctx, "database migrated")

			return nil
		},
	}

	return cmd
}
