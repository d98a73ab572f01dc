package controller

import (
	"context"
	"net"
	"net/http"
	"riskblock/pkg/logger"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// statusRecorder wraps http.ResponseWriter to capture the final HTTP status
// code written by the downstream handler.
type statusRecorder struct {
	http.ResponseWriter

	status int
}

// WriteHeader records the status code and forwards the call to the underlying writer.
func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// GetClientIP returns the originating client address, preferring
// X-Forwarded-For and X-Real-IP over the connection's remote address.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xrip := r.Header.Get("X-Real-IP"); xrip != "" {
		return xrip
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}

	return ip
}

// CtxKey is a string-based type used for storing values in request contexts.
type CtxKey string

// RequestIDKey is the context key under which the current request ID is stored.
const RequestIDKey CtxKey = "requestID"

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-Id"

// WithLogger returns a middleware that injects a request-scoped logger and
// request ID into the context, then logs the request once the handler
// finishes. Scrapes and probes log at debug level so they do not drown out
// run logs.
func WithLogger(quiet ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)

			ctx := context.WithValue(r.Context(), RequestIDKey, requestID)
			ctx = logger.WithFields(ctx, zap.String(string(RequestIDKey), requestID))

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r.WithContext(ctx))

			log := logger.Info
			if isQuiet(r.URL.Path, quiet) && rec.status < http.StatusBadRequest {
				log = logger.Debug
			}
			log(ctx, "ops request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("latency", time.Since(start)),
				zap.String("clientIP", GetClientIP(r)),
				zap.String("userAgent", r.UserAgent()),
			)
		})
	}
}

func isQuiet(path string, quiet []string) bool {
	for _, p := range quiet {
		if path == p || strings.HasPrefix(path, strings.TrimSuffix(p, "/")+"/") {
			return true
		}
	}

	return false
}
