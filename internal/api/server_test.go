package api_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"riskblock/internal/api"
	"riskblock/pkg/domain"
	"riskblock/pkg/metrics"
	"riskblock/pkg/storage/memory"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *metrics.Provider) {
	t.Helper()

	provider, err := metrics.NewProvider()
	require.NoError(t, err)
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	st := memory.New()
	_, err = st.StoreRun(context.Background(), domain.SyncRun{Kind: domain.RunKindPush, Target: "high", Status: domain.RunStatusRunning})
	require.NoError(t, err)

	srv := api.NewServer(api.Deps{Registry: provider.Registry, Storage: st}, api.Options{
		MetricsPath:    "/metrics",
		RequestTimeout: 5 * time.Second,
		HealthTimeout:  time.Second,
	})
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)

	return ts, provider
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	res, err := http.Get(url) //nolint: noctx
	require.NoError(t, err)
	defer res.Body.Close()

	b, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	return res.StatusCode, string(b)
}

func TestServer_metrics(t *testing.T) {
	ts, provider := newTestServer(t)

	instruments, err := metrics.NewInstruments(provider.MeterProvider)
	require.NoError(t, err)
	instruments.AddFallback(context.Background(), "High Risk Apps URLs")

	status, body := get(t, ts.URL+"/metrics")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, "riskblock_destinations_fallbacks")
	require.Contains(t, body, "go_goroutines")
}

func TestServer_health(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := get(t, ts.URL+"/healthz")
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"status":"ok","checks":{"storage":"ok"}}`, body)
}

func TestServer_runs(t *testing.T) {
	ts, _ := newTestServer(t)

	status, body := get(t, ts.URL+"/v1/runs?kind=push")
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, body, `"target":"high"`)
}

func TestServer_pprof(t *testing.T) {
	ts, _ := newTestServer(t)

	status, _ := get(t, ts.URL+"/debug/pprof/")
	require.Equal(t, http.StatusOK, status)
}

func TestServer_unknownPath(t *testing.T) {
	ts, _ := newTestServer(t)

	status, _ := get(t, ts.URL+"/v2/runs")
	require.Equal(t, http.StatusNotFound, status)
}
