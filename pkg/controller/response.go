package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"riskblock/pkg/logger"
	"riskblock/pkg/serrors"

	"go.uber.org/zap"
)

// ErrorBody is the JSON body of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as JSON with the given status code.
func WriteJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(ctx, "could not write response", zap.Error(err))
	}
}

// WriteError maps the error's kind to a status code and writes it as an
// ErrorBody. Internal errors are logged and their message is hidden.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusOf(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
		msg = http.StatusText(status)
	}

	WriteJSON(ctx, w, status, ErrorBody{Error: msg})
}

// StatusOf returns the HTTP status code for an error kind.
func StatusOf(err error) int {
	var k serrors.Kind
	if !errors.As(err, &k) {
		return http.StatusInternalServerError
	}

	switch k {
	case serrors.ErrNotFound:
		return http.StatusNotFound
	case serrors.ErrBadRequest:
		return http.StatusBadRequest
	case serrors.ErrUnauthorized:
		return http.StatusUnauthorized
	case serrors.ErrForbidden:
		return http.StatusForbidden
	case serrors.ErrConflict:
		return http.StatusConflict
	case serrors.ErrTimeout:
		return http.StatusGatewayTimeout
	case serrors.ErrUnavailable:
		return http.StatusServiceUnavailable
	case serrors.ErrRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
