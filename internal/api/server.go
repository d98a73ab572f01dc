// Package api configures the ops HTTP server: Prometheus metrics, health,
// the run history API and pprof. It runs next to a command while it works.
package api

import (
	"net/http"
	"riskblock/internal/api/handler/v1handler"
	"riskblock/internal/config"
	"riskblock/pkg/controller"
	"riskblock/pkg/storage"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HealthPath is where the health report is served.
const HealthPath = "/healthz"

// Options holds configuration for the ops server.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":9090".
	Addr string
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// RequestTimeout bounds every request except pprof profiles, which
	// choose their own duration.
	RequestTimeout time.Duration
	// HealthTimeout bounds all health checks together.
	HealthTimeout time.Duration
}

// NewOptions constructs an Options value from the provided application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:              cfg.Metrics.Addr,
		MetricsPath:       cfg.Metrics.Path,
		ReadHeaderTimeout: 5 * time.Second,
		RequestTimeout:    30 * time.Second,
		HealthTimeout:     3 * time.Second,
	}
}

// Deps are the components the ops server exposes.
type Deps struct {
	// Registry is gathered on MetricsPath.
	Registry *prometheus.Registry
	// Storage backs the run history API and the storage health check. It may be nil.
	Storage storage.Storage
}

// NewServer wires up and returns a configured *http.Server. It serves:
// - Prometheus metrics (MetricsPath) from deps.Registry
// - a health report (HealthPath) probing storage
// - the v1 run history API
// - pprof endpoints for profiling
func NewServer(deps Deps, opts Options) *http.Server {
	mux := http.NewServeMux()

	// prometheus
	mux.Handle(opts.MetricsPath, promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{
		Registry:          deps.Registry,
		EnableOpenMetrics: true,
	}))

	// health
	checks := map[string]controller.HealthCheck{}
	if deps.Storage != nil {
		checks["storage"] = deps.Storage.Ping
	}
	mux.Handle(HealthPath, withTimeout(controller.Health(opts.HealthTimeout, checks), opts.RequestTimeout))

	// v1 api
	if deps.Storage != nil {
		api := http.NewServeMux()
		v1handler.New(v1handler.Deps{Runs: deps.Storage}).Register(api)
		mux.Handle("/v1/", withTimeout(api, opts.RequestTimeout))
	}

	// pprof
	mux.Handle(controller.PprofPrefix, controller.PprofMux())

	handler := controller.WithLogger(opts.MetricsPath, HealthPath)(mux)

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
	}
}

func withTimeout(h http.Handler, d time.Duration) http.Handler {
	if d <= 0 {
		return h
	}

	return http.TimeoutHandler(h, d, `{"error":"request timed out"}`)
}
