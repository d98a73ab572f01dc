package controller

import (
	"context"
	"maps"
	"net/http"
	"slices"
	"time"
)

// HealthCheck returns nil when the dependency it probes is usable.
type HealthCheck func(ctx context.Context) error

// HealthReport is the body written by Health.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health runs every check with timeout and responds 200 when all pass and
// 503 otherwise. Failed checks report their error message.
func Health(timeout time.Duration, checks map[string]HealthCheck) http.Handler {
	names := slices.Sorted(maps.Keys(checks))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		report := HealthReport{Status: "ok"}
		status := http.StatusOK
		for _, name := range names {
			if report.Checks == nil {
				report.Checks = make(map[string]string, len(names))
			}
			if err := checks[name](ctx); err != nil {
				report.Checks[name] = err.Error()
				report.Status = "unavailable"
				status = http.StatusServiceUnavailable

				continue
			}
			report.Checks[name] = "ok"
		}

		WriteJSON(ctx, w, status, report)
	})
}
