//go:generate mockgen -package mockstorage -source=run.go -destination=mock/mockstorage.go *

package storage

import (
	"context"
	"riskblock/pkg/domain"
	"time"
)

// RunUpdates holds the final state of a run. Totals are always written.
type RunUpdates struct {
	Status    domain.RunStatus
	ListID    domain.DestinationListID
	ListName  string
	Submitted int
	Added     int
	Rejected  int
	Fallback  bool
	// LastError is stored as NULL when empty.
	LastError string
}

// RecentRuns groups a page of runs together with an optional NextCursor used
// for pagination.
type RecentRuns struct {
	Runs []domain.SyncRun
	// NextCursor is the created_at to pass as the cursor for the next page.
	// It is nil when there is no next page.
	NextCursor *time.Time
}

// RunStorage records sync runs and the destinations rejected during them.
type RunStorage interface {
	// StoreRun inserts a new run and returns it with generated fields set.
	StoreRun(ctx context.Context, run domain.SyncRun) (*domain.SyncRun, error)
	// FinishRun applies updates to a run and appends its rejections. It returns
	// nil when the run does not exist.
	FinishRun(ctx context.Context,
		id domain.RunID,
		updates RunUpdates,
		rejections []domain.Rejection) (*domain.SyncRun, error)
	// RunByID returns a run and its rejections, or a nil run when not found.
	RunByID(ctx context.Context, id domain.RunID) (*domain.SyncRun, []domain.Rejection, error)
	// RecentRuns returns runs created before the optional cursor, newest
	// first. An empty kind matches every kind.
	RecentRuns(ctx context.Context, kind domain.RunKind, cursor time.Time, limit uint) (RecentRuns, error)
}

// DefaultRunsLimit is used by RecentRuns when no limit is given.
const DefaultRunsLimit uint = 20
