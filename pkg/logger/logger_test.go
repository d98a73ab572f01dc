package logger_test

import (
	"context"
	"log/slog"
	"riskblock/pkg/logger"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		level       string
		debug       bool
		wantErr     bool
	}{
		{name: "development defaults to debug", environment: logger.DevelopmentEnvironment, debug: true},
		{name: "production defaults to info", environment: logger.ProductionEnvironment, debug: false},
		{name: "level override", environment: logger.DevelopmentEnvironment, level: "warn", debug: false},
		{name: "invalid level", environment: logger.ProductionEnvironment, level: "chatty", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := logger.Setup(tt.environment, tt.level)
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger.Get(context.Background()))
			require.Equal(t, tt.debug, logger.IsDebug(context.Background()))
		})
	}
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	customLogger := zap.NewExample()

	l := logger.Get(logger.WithLogger(ctx, customLogger))
	require.Equal(t, customLogger, l)
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	ctx = logger.WithFields(ctx, zap.String("runID", "abc"), zap.Int("batch", 2))
	logger.Info(ctx, "batch submitted")

	entries := logs.All()
	require.Len(t, entries, 1)
	require.Equal(t, "batch submitted", entries[0].Message)
	fields := entries[0].ContextMap()
	require.Equal(t, "abc", fields["runID"])
	require.EqualValues(t, 2, fields["batch"])
}

func TestLoggingFunctions(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := logger.WithLogger(context.Background(), zap.New(core))

	logger.Debug(ctx, "debug message")
	logger.Info(ctx, "info message")
	logger.Warn(ctx, "warn message")
	logger.Error(ctx, "error message")

	require.Equal(t, 4, logs.Len())
	require.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
	require.NotPanics(t, func() { logger.Sync(ctx) })
}

func TestSetup_BridgesSlog(t *testing.T) {
	require.NoError(t, logger.Setup(logger.DevelopmentEnvironment, ""))
	require.NotPanics(t, func() {
		slog.Info("routed through zap", "key", "value")
	})
}
