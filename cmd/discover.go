package main

import (
	"context"
	"fmt"
	"riskblock/internal/discovery"
	"riskblock/pkg/logger"
	"riskblock/pkg/serrors"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// collectKeyword is the legacy way of asking discover for collection mode.
const collectKeyword = "collect-urls"

type collectFlags struct {
	inputFile  string
	outputFile string
}

func (f *collectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inputFile, "input-file", "",
		"Applications file to collect URLs from (default "+discovery.DefaultInputFile+")")
	cmd.Flags().StringVar(&f.outputFile, "output-file", "",
		"URL collection file to write (default <input>_urls.json)")
}

// discoverMode resolves the words given to discover into a risk level, or
// reports collection mode.
func discoverMode(args []string, collectFlag bool) (string, bool) {
	level := strings.TrimSpace(strings.Join(args, " "))
	if collectFlag || strings.EqualFold(level, collectKeyword) {
		return "", true
	}

	return level, false
}

func discoverCommand(a *app) *cobra.Command {
	var (
		collect bool
		flags   collectFlags
	)

	cmd := &cobra.Command{
		Use:   "discover <risk-level>",
		Short: "Fetches applications of a risk level and collects their URLs into output_<level>.json",
		Example: `  riskblock discover medium
  riskblock discover very high
  riskblock discover --collect-urls --input-file high.json --output-file output_medium.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, collectMode := discoverMode(args, collect)
			if collectMode {
				return runCollect(a, flags)
			}
			if level == "" {
				return serrors.With(serrors.ErrBadRequest, "a risk level or --collect-urls is required")
			}

			return withDiscovery(a, "discover", func(ctx context.Context, s *discovery.Service) error {
				ctx = logger.WithFields(ctx, zap.String("risk", level))
				res, err := s.Run(ctx, level)
				if err != nil {
					return fmt.Errorf("could not discover %s risk applications: %w", level, err)
				}
				logger.Info(ctx, "discovery completed",
					zap.Int("apps", res.Apps),
					zap.Int("urls", res.URLs),
					zap.String("file", res.OutputFile))

				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&collect, "collect-urls", false, "Collect URLs from an existing applications file")
	flags.register(cmd)

	return cmd
}

func collectCommand(a *app) *cobra.Command {
	var flags collectFlags

	cmd := &cobra.Command{
		Use:   collectKeyword,
		Short: "Collects URLs for the applications stored in an applications file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(a, flags)
		},
	}
	flags.register(cmd)

	return cmd
}

func runCollect(a *app, flags collectFlags) error {
	return withDiscovery(a, collectKeyword, func(ctx context.Context, s *discovery.Service) error {
		res, err := s.CollectFromFile(ctx, flags.inputFile, flags.outputFile)
		if err != nil {
			return fmt.Errorf("could not collect urls: %w", err)
		}
		logger.Info(ctx, "url collection completed",
			zap.Int("apps", res.Apps),
			zap.Int("urls", res.URLs),
			zap.String("file", res.OutputFile))

		return nil
	})
}

// withDiscovery checks the App Discovery credentials, authenticates and
// runs fn with a ready service.
func withDiscovery(a *app, command string, fn func(ctx context.Context, s *discovery.Service) error) error {
	ctx, cancel := runContext(command)
	defer cancel()

	if err := a.cfg.Umbrella.AppDiscovery.Validate(); err != nil {
		logger.Error(ctx, "missing App Discovery credentials in environment or .env", zap.Error(err))

		return err //nolint: wrapcheck
	}

	d, err := a.deps(ctx)
	if err != nil {
		return err
	}
	defer d.close(ctx)

	creds := a.cfg.Umbrella.AppDiscovery
	client, err := d.umbrellaClient(ctx, creds.Key, creds.Secret)
	if err != nil {
		logger.Error(ctx, "authentication failed", zap.Error(err))

		return err
	}

	svc := discovery.New(client, d.storage, d.instruments, discovery.NewOptions(a.cfg))
	if err := fn(ctx, svc); err != nil {
		logger.Error(ctx, "command failed", zap.Error(err))

		return err
	}

	return nil
}
