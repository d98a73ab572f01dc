// Package metrics records API traffic and sync outcomes with OpenTelemetry
// instruments exported through a dedicated Prometheus registry. The registry
// can be scraped by the ops server, pushed to a Pushgateway or written to a
// node_exporter textfile when a run ends.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/push"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// DefaultBuckets provides a common set of histogram buckets in seconds that can
// be reused across the application for latency metrics.
var DefaultBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10} //nolint: gochecknoglobals

// Provider owns the Prometheus registry and the OpenTelemetry meter provider
// feeding it.
type Provider struct {
	Registry      *prometheus.Registry
	MeterProvider *sdkmetric.MeterProvider
}

// NewProvider creates a registry with Go runtime collectors and an otel
// meter provider exporting into it.
func NewProvider() (*Provider, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	exp, err := otelprom.New(otelprom.WithRegisterer(reg))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}

	return &Provider{
		Registry:      reg,
		MeterProvider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)),
	}, nil
}

// Push sends the current metrics to a Pushgateway, replacing the job's group.
func (p *Provider) Push(ctx context.Context, gatewayURL, job string) error {
	if err := push.New(gatewayURL, job).Gatherer(p.Registry).PushContext(ctx); err != nil {
		return fmt.Errorf("could not push metrics: %w", err)
	}

	return nil
}

// WriteTextfile writes the current metrics in the text exposition format,
// suitable for the node_exporter textfile collector.
func (p *Provider) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, p.Registry); err != nil {
		return fmt.Errorf("could not write metrics textfile: %w", err)
	}

	return nil
}

// Shutdown flushes and stops the meter provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if err := p.MeterProvider.Shutdown(ctx); err != nil {
		return fmt.Errorf("could not shutdown meter provider: %w", err)
	}

	return nil
}
