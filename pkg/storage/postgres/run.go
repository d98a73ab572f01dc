package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"riskblock/pkg/domain"
	"riskblock/pkg/storage"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const (
	runsTable       = "sync_runs"
	rejectionsTable = "destination_rejections"
)

// StoreRun inserts a run. A zero ID is replaced with a random one.
func (p *PgSQL) StoreRun(ctx context.Context, run domain.SyncRun) (*domain.SyncRun, error) {
	var row PgRun
	row.FromDomain(run)

	var result PgRun
	if _, err := p.Builder.Insert(runsTable).
		Rows(row).
		Returning(&PgRun{}).
		Executor().ScanStructContext(ctx, &result); err != nil {
		return nil, fmt.Errorf("could not store run into pg: %w", err)
	}

	return result.ToDomain(), nil
}

// FinishRun updates the run and inserts its rejections atomically. When
// called outside a transaction it opens one.
func (p *PgSQL) FinishRun(ctx context.Context,
	id domain.RunID,
	updates storage.RunUpdates,
	rejections []domain.Rejection) (*domain.SyncRun, error) {
	if _, ok := p.DB.(*sql.DB); ok {
		var run *domain.SyncRun
		err := p.WithTx(ctx, func(tx storage.AllStorage) error {
			var err error
			run, err = tx.FinishRun(ctx, id, updates, rejections)

			return err
		})

		return run, err
	}

	var row PgRun
	found, err := p.Builder.Update(runsTable).
		Set(goqu.Record{
			"status":     string(updates.Status),
			"list_id":    sql.NullInt64{Int64: int64(updates.ListID), Valid: updates.ListID != 0},
			"list_name":  sql.NullString{String: updates.ListName, Valid: updates.ListName != ""},
			"submitted":  updates.Submitted,
			"added":      updates.Added,
			"rejected":   updates.Rejected,
			"fallback":   updates.Fallback,
			"last_error": sql.NullString{String: updates.LastError, Valid: updates.LastError != ""},
			"updated_at": goqu.L("CURRENT_TIMESTAMP"),
		}).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Returning(&PgRun{}).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, fmt.Errorf("could not update run in pg: %w", err)
	}
	if !found {
		return nil, nil
	}

	if len(rejections) > 0 {
		if _, err := p.Builder.Insert(rejectionsTable).
			Rows(pgRejectionsFromDomain(id, rejections)).
			Executor().ExecContext(ctx); err != nil {
			return nil, fmt.Errorf("could not store rejections into pg: %w", err)
		}
	}

	return row.ToDomain(), nil
}

// RunByID returns a run with its rejections in insertion order.
func (p *PgSQL) RunByID(ctx context.Context, id domain.RunID) (*domain.SyncRun, []domain.Rejection, error) {
	var row PgRun
	found, err := p.Builder.From(runsTable).
		Where(goqu.I("id").Eq(uuid.UUID(id))).
		Executor().ScanStructContext(ctx, &row)
	if err != nil {
		return nil, nil, fmt.Errorf("could not fetch run by id: %w", err)
	}
	if !found {
		return nil, nil, nil
	}

	var rejections []PgRejection
	if err := p.Builder.From(rejectionsTable).
		Where(goqu.I("run_id").Eq(uuid.UUID(id))).
		Order(goqu.I("id").Asc()).
		Executor().ScanStructsContext(ctx, &rejections); err != nil {
		return nil, nil, fmt.Errorf("could not fetch rejections: %w", err)
	}

	return row.ToDomain(), pgRejectionsToDomain(rejections), nil
}

// RecentRuns returns runs ordered by created_at DESC, id DESC.
func (p *PgSQL) RecentRuns(ctx context.Context,
	kind domain.RunKind,
	cursor time.Time,
	limit uint) (storage.RecentRuns, error) {
	if limit == 0 {
		limit = storage.DefaultRunsLimit
	}

	var w []goqu.Expression
	if kind != "" {
		w = append(w, goqu.I("kind").Eq(string(kind)))
	}
	if !cursor.IsZero() {
		w = append(w, goqu.I("created_at").Lt(cursor))
	}

	// fetch one extra to determine if there is a next page
	ds := p.Builder.From(runsTable).
		Where(w...).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(limit + 1)

	var rows []PgRun
	if err := ds.Executor().ScanStructsContext(ctx, &rows); err != nil {
		return storage.RecentRuns{}, fmt.Errorf("could not fetch recent runs from pg: %w", err)
	}

	var nextCursor *time.Time
	if uint(len(rows)) > limit {
		rows = rows[:limit]
		nextCursor = &rows[len(rows)-1].CreatedAt
	}

	return storage.RecentRuns{
		Runs:       pgRunsToDomain(rows),
		NextCursor: nextCursor,
	}, nil
}
