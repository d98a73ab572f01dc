package v1handler

import (
	"net/http"
	"riskblock/pkg/controller"
	"riskblock/pkg/domain"
	"riskblock/pkg/serrors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// MaxLimit caps the page size of ListRuns.
const MaxLimit = 100

// RunList is one page of runs. NextCursor is passed back as ?cursor= to
// fetch the following page.
type RunList struct {
	Items      []domain.SyncRun `json:"items"`
	NextCursor *time.Time       `json:"nextCursor"`
}

// RunDetails is a run with the destinations the API rejected during it.
type RunDetails struct {
	Run        domain.SyncRun     `json:"run"`
	Rejections []domain.Rejection `json:"rejections"`
}

// ListRuns returns recent runs, newest first. Query parameters: kind
// (discover or push), limit and cursor (RFC 3339).
func (h *Handler) ListRuns(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	kind, err := ParseKind(q.Get("kind"))
	if err != nil {
		controller.WriteError(ctx, w, err)

		return
	}

	var limit uint64
	if v := q.Get("limit"); v != "" {
		limit, err = strconv.ParseUint(v, 10, 32)
		if err != nil || limit == 0 || limit > MaxLimit {
			controller.WriteError(ctx, w, serrors.With(serrors.ErrBadRequest, "limit must be between 1 and %d", MaxLimit))

			return
		}
	}

	var cursor time.Time
	if v := q.Get("cursor"); v != "" {
		cursor, err = time.Parse(time.RFC3339Nano, v)
		if err != nil {
			controller.WriteError(ctx, w, serrors.With(serrors.ErrBadRequest, "invalid cursor %q", v))

			return
		}
	}

	runs, err := h.deps.Runs.RecentRuns(ctx, kind, cursor, uint(limit))
	if err != nil {
		controller.WriteError(ctx, w, err)

		return
	}

	items := runs.Runs
	if items == nil {
		items = []domain.SyncRun{}
	}
	controller.WriteJSON(ctx, w, http.StatusOK, RunList{Items: items, NextCursor: runs.NextCursor})
}

// GetRun returns a run and its rejections.
func (h *Handler) GetRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		controller.WriteError(ctx, w, serrors.With(serrors.ErrBadRequest, "invalid run id %q", r.PathValue("id")))

		return
	}

	run, rejections, err := h.deps.Runs.RunByID(ctx, domain.RunID(id))
	if err != nil {
		controller.WriteError(ctx, w, err)

		return
	}
	if run == nil {
		controller.WriteError(ctx, w, serrors.With(serrors.ErrNotFound, "run %s not found", id))

		return
	}

	if rejections == nil {
		rejections = []domain.Rejection{}
	}
	controller.WriteJSON(ctx, w, http.StatusOK, RunDetails{Run: *run, Rejections: rejections})
}

// ParseKind accepts "discover" and "push" in any case. An empty string
// matches every kind.
func ParseKind(s string) (domain.RunKind, error) {
	switch kind := domain.RunKind(strings.ToUpper(strings.TrimSpace(s))); kind {
	case "", domain.RunKindDiscover, domain.RunKindPush:
		return kind, nil
	default:
		return "", serrors.With(serrors.ErrBadRequest, "unknown run kind %q", s)
	}
}
