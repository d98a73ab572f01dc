package main

import (
	"context"
	"fmt"
	"riskblock/internal/destinations"
	"riskblock/pkg/logger"
	"riskblock/pkg/serrors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// defaultPushLevels are pushed when push gets no arguments.
var defaultPushLevels = []string{"high", "medium"} //nolint: gochecknoglobals

// pushTargets splits push arguments into risk levels and an input file.
// Arguments ending in .json select file mode (the last one wins); high,
// medium and low in any case are risk levels; anything else is ignored.
func pushTargets(args []string) ([]string, string) {
	var (
		levels []string
		file   string
	)
	for _, arg := range args {
		switch lower := strings.ToLower(arg); {
		case strings.HasSuffix(arg, ".json"):
			file = arg
		case lower == "high", lower == "medium", lower == "low":
			levels = append(levels, lower)
		}
	}
	if len(levels) == 0 && file == "" {
		levels = defaultPushLevels
	}

	return levels, file
}

func pushCommand(a *app) *cobra.Command {
	var (
		listName string
		dryRun   bool
	)

	cmd := &cobra.Command{
		Use:   "push [high|medium|low|<file>.json ...]",
		Short: "Adds collected URLs to the destination list of each risk level",
		Example: `  riskblock push
  riskblock push high
  riskblock push output_high.json --list-name "Blocked Apps"
  riskblock push medium --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			levels, file := pushTargets(args)

			return withPusher(a, dryRun, func(ctx context.Context, p *destinations.Pusher) error {
				if file != "" {
					return pushFile(ctx, p, file, listName)
				}

				return pushLevels(ctx, p, levels)
			})
		},
	}
	cmd.Flags().StringVar(&listName, "list-name", "", "Destination list for a file (default: guessed from the file name)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Build destinations and resolve the list without changing anything")

	return cmd
}

func pushFile(ctx context.Context, p *destinations.Pusher, file, listName string) error {
	ctx = logger.WithFields(ctx, zap.String("file", file))
	logger.Info(ctx, "processing file")

	report, err := p.ProcessFile(ctx, file, listName)
	if err != nil {
		logger.Error(ctx, "failed to process file", zap.Error(err))

		return fmt.Errorf("could not process %s: %w", file, err)
	}
	logReport(ctx, report)
	logger.Info(ctx, "file processing completed successfully")

	return nil
}

func pushLevels(ctx context.Context, p *destinations.Pusher, levels []string) error {
	succeeded := 0
	for _, level := range levels {
		ctx := logger.WithFields(ctx, zap.String("risk", level))
		logger.Info(ctx, "processing risk applications")

		report, err := p.ProcessRiskLevel(ctx, level)
		if err != nil {
			logger.Error(ctx, "failed to process risk applications", zap.Error(err))

			continue
		}
		logReport(ctx, report)
		succeeded++
	}

	logger.Info(ctx, "all processing completed",
		zap.String("successfullyProcessed", fmt.Sprintf("%d/%d", succeeded, len(levels))))
	if succeeded < len(levels) {
		return serrors.With(serrors.ErrRejected, "%d of %d risk levels failed", len(levels)-succeeded, len(levels))
	}

	return nil
}

func logReport(ctx context.Context, r *destinations.Report) {
	logger.Info(ctx, "push result",
		zap.String("list", r.ListName),
		zap.Int64("listID", int64(r.ListID)),
		zap.Int("submitted", r.Submitted),
		zap.Int("added", r.Added),
		zap.Int("rejected", r.Rejected),
		zap.Bool("fallback", r.Fallback),
		zap.Bool("dryRun", r.DryRun),
		zap.Stringer("historyID", r.RunID))
}

// withPusher checks the Policies credentials, authenticates and runs fn
// with a ready pusher.
func withPusher(a *app, dryRun bool, fn func(ctx context.Context, p *destinations.Pusher) error) error {
	ctx, cancel := runContext("push")
	defer cancel()

	if err := a.cfg.Umbrella.Policies.Validate(); err != nil {
		logger.Error(ctx, "missing Policies credentials in environment or .env", zap.Error(err))

		return err //nolint: wrapcheck
	}

	d, err := a.deps(ctx)
	if err != nil {
		return err
	}
	defer d.close(ctx)

	creds := a.cfg.Umbrella.Policies
	client, err := d.umbrellaClient(ctx, creds.Key, creds.Secret)
	if err != nil {
		logger.Error(ctx, "authentication failed", zap.Error(err))

		return err
	}

	options := destinations.NewOptions(a.cfg)
	options.DryRun = dryRun

	return fn(ctx, destinations.New(client, d.storage, d.instruments, options))
}
