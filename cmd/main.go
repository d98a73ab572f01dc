// Package main provides the riskblock CLI. It wires the discover, collect-urls,
// push, migrate and history subcommands, loads configuration and initializes
// logging before any of them runs.
package main

import (
	"context"
	"os"
	"riskblock/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:               "riskblock",
		Short:             "Blocks risky App Discovery applications through Umbrella destination lists",
		SilenceUsage:      true,
		PersistentPreRunE: a.load,
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "config.yml", "Config file path (optional)")

	rootCmd.AddCommand(
		discoverCommand(a),
		collectCommand(a),
		pushCommand(a),
		migrateCommand(a),
		historyCommand(a),
	)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	err := rootCmd.Execute()
	logger.Sync(ctx)
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
