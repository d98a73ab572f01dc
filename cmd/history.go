package main

import (
	"encoding/json"
	"fmt"
	"riskblock/internal/api/handler/v1handler"
	"riskblock/pkg/domain"
	"riskblock/pkg/logger"
	"riskblock/pkg/serrors"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func historyCommand(a *app) *cobra.Command {
	var (
		kind   string
		limit  uint
		cursor string
		runID  string
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Lists recorded discover and push runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := runContext("history")
			defer cancel()

			if !a.cfg.Database.Enabled {
				return serrors.With(serrors.ErrBadRequest, "run history needs the database, set DATABASE_ENABLED=true")
			}

			strg, closeStrg, err := getPostgres(ctx, a.cfg)
			if err != nil {
				return err
			}
			defer closeStrg()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if runID != "" {
				id, err := uuid.Parse(runID)
				if err != nil {
					return serrors.With(serrors.ErrBadRequest, "invalid run id %q", runID)
				}
				run, rejections, err := strg.RunByID(ctx, domain.RunID(id))
				if err != nil {
					return fmt.Errorf("could not get run: %w", err)
				}
				if run == nil {
					return serrors.With(serrors.ErrNotFound, "run %s not found", id)
				}
				if rejections == nil {
					rejections = []domain.Rejection{}
				}

				return enc.Encode(v1handler.RunDetails{Run: *run, Rejections: rejections}) //nolint: wrapcheck
			}

			runKind, err := v1handler.ParseKind(kind)
			if err != nil {
				return err //nolint: wrapcheck
			}
			var before time.Time
			if cursor != "" {
				before, err = time.Parse(time.RFC3339Nano, cursor)
				if err != nil {
					return serrors.With(serrors.ErrBadRequest, "invalid cursor %q", cursor)
				}
			}

			runs, err := strg.RecentRuns(ctx, runKind, before, limit)
			if err != nil {
				return fmt.Errorf("could not list runs: %w", err)
			}

			if asJSON {
				items := runs.Runs
				if items == nil {
					items = []domain.SyncRun{}
				}

				return enc.Encode(v1handler.RunList{Items: items, NextCursor: runs.NextCursor}) //nolint: wrapcheck
			}

			for _, r := range runs.Runs {
				logger.Info(ctx, "run",
					zap.Stringer("id", r.ID),
					zap.String("kind", string(r.Kind)),
					zap.String("target", r.Target),
					zap.String("status", string(r.Status)),
					zap.String("list", r.ListName),
					zap.Int("submitted", r.Submitted),
					zap.Int("added", r.Added),
					zap.Int("rejected", r.Rejected),
					zap.Bool("fallback", r.Fallback),
					zap.String("lastError", r.LastError),
					zap.Time("createdAt", r.CreatedAt))
			}
			if runs.NextCursor != nil {
				logger.Info(ctx, "more runs available",
					zap.String("cursor", runs.NextCursor.Format(time.RFC3339Nano)))
			}

			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "Only runs of this kind (discover or push)")
	cmd.Flags().UintVar(&limit, "limit", 20, "Maximum number of runs to list")
	cmd.Flags().StringVar(&cursor, "cursor", "", "List runs created before this RFC 3339 time")
	cmd.Flags().StringVar(&runID, "id", "", "Show a single run with its rejections")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print runs as JSON")

	return cmd
}
