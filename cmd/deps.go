package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"riskblock/internal/api"
	"riskblock/internal/config"
	"riskblock/pkg/logger"
	"riskblock/pkg/metrics"
	"riskblock/pkg/storage"
	"riskblock/pkg/storage/memory"
	"riskblock/pkg/storage/postgres"
	"riskblock/pkg/umbrella/umbrellaapi"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app carries state shared by every subcommand once the root command has
// loaded the configuration.
type app struct {
	configPath string
	cfg        *config.Config
}

func (a *app) load(_ *cobra.Command, _ []string) error {
	log.Println("loading config ...")
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("could not load config: %w", err)
	}
	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		return fmt.Errorf("could not setup logger: %w", err)
	}
	a.cfg = cfg

	return nil
}

// runContext returns a context cancelled on SIGINT/SIGTERM that carries a
// runID field for log correlation.
func runContext(command string) (context.Context, context.CancelFunc) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	ctx = logger.WithFields(ctx, zap.String("runID", uuid.NewString()), zap.String("command", command))

	return ctx, cancel
}

// getPostgres creates a PostgreSQL client using configuration values and returns it
// along with a cleanup function to close the connection pool.
func getPostgres(ctx context.Context, cfg *config.Config) (*postgres.PgSQL, func(), error) {
	pgsql, err := postgres.New(ctx, postgres.Options{
		Username:           cfg.Database.Username,
		Password:           cfg.Database.Password,
		Host:               cfg.Database.Host,
		Port:               cfg.Database.Port,
		Database:           cfg.Database.DatabaseName,
		ConnMaxLifetime:    cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime:    cfg.Database.ConnMaxIdleTime,
		MaxOpenConnections: cfg.Database.MaxOpenConnections,
		MaxIdleConnections: cfg.Database.MaxIdleConnections,
		SslMode:            cfg.Database.SslMode,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("could not create postgres storage: %w", err)
	}

	return pgsql, func() {
		logger.Info(ctx, "closing postgres client...")
		if err := pgsql.Close(); err != nil {
			logger.Warn(ctx, "could not close postgres connection", zap.Error(err))
		}
	}, nil
}

// getStorage returns the run history store: PostgreSQL when the database is
// enabled, an in-process store otherwise.
func getStorage(ctx context.Context, cfg *config.Config) (storage.Storage, func(), error) {
	if !cfg.Database.Enabled {
		logger.Debug(ctx, "database disabled, keeping run history in memory")

		return memory.New(), func() {}, nil
	}

	pgsql, closePg, err := getPostgres(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	return pgsql, closePg, nil
}

// deps are the components shared by commands that talk to Umbrella.
type deps struct {
	cfg         *config.Config
	storage     storage.Storage
	provider    *metrics.Provider
	instruments *metrics.Instruments
	httpClient  *http.Client
	closers     []func(ctx context.Context)
}

func (a *app) deps(ctx context.Context) (*deps, error) {
	provider, err := metrics.NewProvider()
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	instruments, err := metrics.NewInstruments(provider.MeterProvider)
	if err != nil {
		return nil, fmt.Errorf("could not create instruments: %w", err)
	}

	d := &deps{
		cfg:         a.cfg,
		provider:    provider,
		instruments: instruments,
		httpClient: &http.Client{
			Timeout:   a.cfg.Umbrella.HTTPTimeout,
			Transport: metrics.Transport(http.DefaultTransport, instruments),
		},
	}

	strg, closeStrg, err := getStorage(ctx, a.cfg)
	if err != nil {
		return nil, err
	}
	d.storage = strg
	d.closers = append(d.closers, func(context.Context) { closeStrg() })

	if a.cfg.Metrics.Addr != "" {
		d.closers = append(d.closers, startServer(ctx, a.cfg, api.Deps{Registry: provider.Registry, Storage: strg}))
	}

	return d, nil
}

// close exports metrics and releases resources in reverse order.
func (d *deps) close(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), d.cfg.GracefulShutdownTimeout)
	defer cancel()

	if url := d.cfg.Metrics.PushGatewayURL; url != "" {
		if err := d.provider.Push(shutdownCtx, url, d.cfg.Metrics.JobName); err != nil {
			logger.Warn(ctx, "could not push metrics", zap.Error(err))
		} else {
			logger.Info(ctx, "pushed metrics", zap.String("gateway", url))
		}
	}
	if path := d.cfg.Metrics.Textfile; path != "" {
		if err := d.provider.WriteTextfile(path); err != nil {
			logger.Warn(ctx, "could not write metrics textfile", zap.Error(err))
		} else {
			logger.Info(ctx, "wrote metrics textfile", zap.String("file", path))
		}
	}

	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i](shutdownCtx)
	}
	if err := d.provider.Shutdown(shutdownCtx); err != nil {
		logger.Warn(ctx, "could not shutdown metrics provider", zap.Error(err))
	}
}

// umbrellaClient exchanges the key pair for a token and returns an API
// client bearing it.
func (d *deps) umbrellaClient(ctx context.Context, key, secret string) (*umbrellaapi.Client, error) {
	logger.Info(ctx, "getting access token...")
	auth := umbrellaapi.NewAuthenticator(d.httpClient, d.cfg.Umbrella.BaseURL, key, secret)
	token, err := auth.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get access token: %w", err)
	}

	fields := []zap.Field{zap.String("tokenType", token.TokenType)}
	if !token.ExpiresAt.IsZero() {
		fields = append(fields,
			zap.Time("expiresAt", token.ExpiresAt),
			zap.Duration("validFor", time.Until(token.ExpiresAt).Round(time.Second)))
	}
	logger.Info(ctx, "got access token", fields...)

	return umbrellaapi.New(d.httpClient, d.cfg.Umbrella.BaseURL, token.AccessToken), nil
}

// startServer runs the ops server in the background and returns its stop function.
func startServer(ctx context.Context, cfg *config.Config, apiDeps api.Deps) func(ctx context.Context) {
	server := api.NewServer(apiDeps, api.NewOptions(cfg))

	go func() {
		logger.Info(ctx, "starting ops server...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Error(ctx, "could not start ops server", zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping ops server...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop ops server", zap.Error(err))
		}
	}
}
