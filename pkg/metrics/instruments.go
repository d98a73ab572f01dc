package metrics

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "riskblock"

// Instruments are the counters and histograms recorded during a run.
// A nil *Instruments is valid and records nothing.
type Instruments struct {
	requests     metric.Int64Counter
	duration     metric.Float64Histogram
	destinations metric.Int64Counter
	fallbacks    metric.Int64Counter
	apps         metric.Int64Counter
	urls         metric.Int64Counter
}

// NewInstruments creates the instruments on mp.
func NewInstruments(mp metric.MeterProvider) (*Instruments, error) {
	m := mp.Meter(meterName)

	requests, err := m.Int64Counter("riskblock.api.requests",
		metric.WithDescription("Umbrella API requests by method, route and status code"))
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	duration, err := m.Float64Histogram("riskblock.api.request.duration",
		metric.WithDescription("Umbrella API request latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(DefaultBuckets...))
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	destinations, err := m.Int64Counter("riskblock.destinations",
		metric.WithDescription("Destinations submitted to lists by outcome"))
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	fallbacks, err := m.Int64Counter("riskblock.destinations.fallbacks",
		metric.WithDescription("Uploads that fell back to individual submission"))
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	apps, err := m.Int64Counter("riskblock.discovery.apps",
		metric.WithDescription("Applications matching the requested risk level"))
	if err != nil {
		return nil, err //nolint: wrapcheck
	}
	urls, err := m.Int64Counter("riskblock.discovery.urls",
		metric.WithDescription("URLs collected from application metadata"))
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	return &Instruments{
		requests:     requests,
		duration:     duration,
		destinations: destinations,
		fallbacks:    fallbacks,
		apps:         apps,
		urls:         urls,
	}, nil
}

// RecordRequest records one API call. status is 0 for transport failures.
func (i *Instruments) RecordRequest(ctx context.Context, method, route string, status int, d time.Duration) {
	if i == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String("method", method),
		attribute.String("route", route),
		attribute.String("code", statusLabel(status)),
	)
	i.requests.Add(ctx, 1, attrs)
	i.duration.Record(ctx, d.Seconds(), attrs)
}

// AddDestinations records the outcome of an upload into list.
func (i *Instruments) AddDestinations(ctx context.Context, list string, added, rejected int) {
	if i == nil {
		return
	}

	i.destinations.Add(ctx, int64(added), metric.WithAttributes(
		attribute.String("list", list), attribute.String("outcome", "added")))
	i.destinations.Add(ctx, int64(rejected), metric.WithAttributes(
		attribute.String("list", list), attribute.String("outcome", "rejected")))
}

// AddFallback records a switch to individual submission.
func (i *Instruments) AddFallback(ctx context.Context, list string) {
	if i == nil {
		return
	}

	i.fallbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("list", list)))
}

// AddApps records applications matched for a risk level.
func (i *Instruments) AddApps(ctx context.Context, risk string, n int) {
	if i == nil {
		return
	}

	i.apps.Add(ctx, int64(n), metric.WithAttributes(attribute.String("risk", risk)))
}

// AddURLs records URLs collected for a risk level.
func (i *Instruments) AddURLs(ctx context.Context, risk string, n int) {
	if i == nil {
		return
	}

	i.urls.Add(ctx, int64(n), metric.WithAttributes(attribute.String("risk", risk)))
}

func statusLabel(status int) string {
	if status == 0 {
		return "error"
	}

	return strconv.Itoa(status)
}

// Transport wraps next so every request is recorded on i. Numeric path
// segments are replaced with {id} to keep the route label bounded.
func Transport(next http.RoundTripper, i *Instruments) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return roundTripper{next: next, instruments: i}
}

type roundTripper struct {
	next        http.RoundTripper
	instruments *Instruments
}

func (rt roundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := rt.next.RoundTrip(r)

	status := 0
	if err == nil {
		status = resp.StatusCode
	}
	rt.instruments.RecordRequest(r.Context(), r.Method, Route(r.URL.Path), status, time.Since(start))

	return resp, err //nolint: wrapcheck
}

// Route replaces numeric path segments with {id}.
func Route(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p == "" {
			continue
		}
		if _, err := strconv.ParseInt(p, 10, 64); err == nil {
			parts[i] = "{id}"
		}
	}

	return strings.Join(parts, "/")
}
