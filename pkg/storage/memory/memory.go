// Package memory is a process-local storage.Storage used when no history
// database is configured. Transactions buffer writes and apply them on
// Commit.
package memory

import (
	"context"
	"riskblock/pkg/domain"
	"riskblock/pkg/storage"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type state struct {
	runs       map[domain.RunID]domain.SyncRun
	rejections map[domain.RunID][]domain.Rejection
}

func (s state) clone() state {
	out := state{
		runs:       make(map[domain.RunID]domain.SyncRun, len(s.runs)),
		rejections: make(map[domain.RunID][]domain.Rejection, len(s.rejections)),
	}
	for id, r := range s.runs {
		out.runs[id] = r
	}
	for id, r := range s.rejections {
		out.rejections[id] = slices.Clone(r)
	}

	return out
}

// Memory implements storage.Storage in memory.
type Memory struct {
	mu    *sync.Mutex
	state *state
	// parent is set on transactional handles.
	parent *Memory
	done   bool
	now    func() time.Time
}

var _ storage.Storage = (*Memory)(nil)

// New returns an empty store.
func New() *Memory {
	return &Memory{
		mu: &sync.Mutex{},
		state: &state{
			runs:       map[domain.RunID]domain.SyncRun{},
			rejections: map[domain.RunID][]domain.Rejection{},
		},
		now: time.Now,
	}
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Begin snapshots the current state into a transactional handle.
func (m *Memory) Begin(context.Context) (storage.TxStorage, error) {
	if m.parent != nil {
		return nil, storage.ErrAlreadyInTx
	}

	m.mu.Lock()
	snapshot := m.state.clone()
	m.mu.Unlock()

	return &Memory{
		mu:     &sync.Mutex{},
		state:  &snapshot,
		parent: m,
		now:    m.now,
	}, nil
}

// Commit replaces the parent state with the transaction's state.
func (m *Memory) Commit() error {
	if m.parent == nil || m.done {
		return storage.ErrNotInTx
	}
	m.done = true

	m.parent.mu.Lock()
	defer m.parent.mu.Unlock()
	*m.parent.state = *m.state

	return nil
}

// Rollback discards the transaction's state.
func (m *Memory) Rollback() error {
	if m.parent == nil || m.done {
		return storage.ErrNotInTx
	}
	m.done = true

	return nil
}

// WithTx runs cb inside a transaction.
func (m *Memory) WithTx(ctx context.Context, cb func(storage storage.AllStorage) error) error {
	tx, err := m.Begin(ctx)
	if err != nil {
		return err
	}

	if err := cb(tx); err != nil {
		_ = tx.Rollback()

		return err
	}

	return tx.Commit()
}

// StoreRun inserts a run. A zero ID is replaced with a random one.
func (m *Memory) StoreRun(_ context.Context, run domain.SyncRun) (*domain.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if uuid.UUID(run.ID) == uuid.Nil {
		run.ID = domain.RunID(uuid.New())
	}
	run.CreatedAt = m.now()
	run.UpdatedAt = time.Time{}
	m.state.runs[run.ID] = run

	return &run, nil
}

// FinishRun applies updates and appends rejections.
func (m *Memory) FinishRun(_ context.Context,
	id domain.RunID,
	updates storage.RunUpdates,
	rejections []domain.Rejection) (*domain.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.state.runs[id]
	if !ok {
		return nil, nil
	}

	run.Status = updates.Status
	run.ListID = updates.ListID
	run.ListName = updates.ListName
	run.Submitted = updates.Submitted
	run.Added = updates.Added
	run.Rejected = updates.Rejected
	run.Fallback = updates.Fallback
	run.LastError = updates.LastError
	run.UpdatedAt = m.now()
	m.state.runs[id] = run
	m.state.rejections[id] = append(m.state.rejections[id], rejections...)

	return &run, nil
}

// RunByID returns a run and its rejections.
func (m *Memory) RunByID(_ context.Context, id domain.RunID) (*domain.SyncRun, []domain.Rejection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	run, ok := m.state.runs[id]
	if !ok {
		return nil, nil, nil
	}

	return &run, slices.Clone(m.state.rejections[id]), nil
}

// RecentRuns returns runs newest first.
func (m *Memory) RecentRuns(_ context.Context,
	kind domain.RunKind,
	cursor time.Time,
	limit uint) (storage.RecentRuns, error) {
	if limit == 0 {
		limit = storage.DefaultRunsLimit
	}

	m.mu.Lock()
	runs := make([]domain.SyncRun, 0, len(m.state.runs))
	for _, r := range m.state.runs {
		if kind != "" && r.Kind != kind {
			continue
		}
		if !cursor.IsZero() && !r.CreatedAt.Before(cursor) {
			continue
		}
		runs = append(runs, r)
	}
	m.mu.Unlock()

	slices.SortFunc(runs, func(a, b domain.SyncRun) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		return slices.Compare(b.ID[:], a.ID[:])
	})

	var next *time.Time
	if uint(len(runs)) > limit {
		runs = runs[:limit]
		next = &runs[len(runs)-1].CreatedAt
	}

	return storage.RecentRuns{Runs: runs, NextCursor: next}, nil
}
