// Package v1handler serves the read-only run history API under /v1.
package v1handler

import (
	"net/http"
	"riskblock/pkg/storage"
)

// Deps are the dependencies of the v1 handlers.
type Deps struct {
	Runs storage.RunStorage
}

// Handler implements the v1 run history endpoints.
type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	return &Handler{deps: deps}
}

// Register adds the v1 routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /v1/runs", h.ListRuns)
	mux.HandleFunc("GET /v1/runs/{id}", h.GetRun)
}
