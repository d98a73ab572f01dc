package postgres

import (
	"database/sql"
	"riskblock/pkg/domain"
	"time"

	"github.com/google/uuid"
)

type PgRun struct {
	ID     uuid.UUID `db:"id"`
	Kind   string    `db:"kind"`
	Target string    `db:"target"`
	Status string    `db:"status"`

	ListID   sql.NullInt64  `db:"list_id"`
	ListName sql.NullString `db:"list_name"`

	Submitted int  `db:"submitted"`
	Added     int  `db:"added"`
	Rejected  int  `db:"rejected"`
	Fallback  bool `db:"fallback"`

	LastError sql.NullString `db:"last_error"`

	CreatedAt time.Time    `db:"created_at" goqu:"skipinsert"`
	UpdatedAt sql.NullTime `db:"updated_at" goqu:"skipinsert"`
}

func (p *PgRun) ToDomain() *domain.SyncRun {
	return &domain.SyncRun{
		ID:        domain.RunID(p.ID),
		Kind:      domain.RunKind(p.Kind),
		Target:    p.Target,
		Status:    domain.RunStatus(p.Status),
		ListID:    domain.DestinationListID(p.ListID.Int64),
		ListName:  p.ListName.String,
		Submitted: p.Submitted,
		Added:     p.Added,
		Rejected:  p.Rejected,
		Fallback:  p.Fallback,
		LastError: p.LastError.String,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt.Time,
	}
}

func (p *PgRun) FromDomain(run domain.SyncRun) {
	id := uuid.UUID(run.ID)
	if id == uuid.Nil {
		id = uuid.New()
	}

	*p = PgRun{
		ID:     id,
		Kind:   string(run.Kind),
		Target: run.Target,
		Status: string(run.Status),
		ListID: sql.NullInt64{
			Int64: int64(run.ListID),
			Valid: run.ListID != 0,
		},
		ListName: sql.NullString{
			String: run.ListName,
			Valid:  run.ListName != "",
		},
		Submitted: run.Submitted,
		Added:     run.Added,
		Rejected:  run.Rejected,
		Fallback:  run.Fallback,
		LastError: sql.NullString{
			String: run.LastError,
			Valid:  run.LastError != "",
		},
	}
}

type PgRejection struct {
	ID          int64          `db:"id"          goqu:"skipinsert"`
	RunID       uuid.UUID      `db:"run_id"`
	Destination string         `db:"destination"`
	Reason      sql.NullString `db:"reason"`
	CreatedAt   time.Time      `db:"created_at"  goqu:"skipinsert"`
}

func pgRejectionsFromDomain(runID domain.RunID, rejections []domain.Rejection) []PgRejection {
	out := make([]PgRejection, len(rejections))
	for i, r := range rejections {
		out[i] = PgRejection{
			RunID:       uuid.UUID(runID),
			Destination: r.Destination,
			Reason: sql.NullString{
				String: r.Reason,
				Valid:  r.Reason != "",
			},
		}
	}

	return out
}

func pgRejectionsToDomain(rows []PgRejection) []domain.Rejection {
	out := make([]domain.Rejection, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Rejection{Destination: r.Destination, Reason: r.Reason.String})
	}

	return out
}

func pgRunsToDomain(rows []PgRun) []domain.SyncRun {
	out := make([]domain.SyncRun, 0, len(rows))
	for _, r := range rows {
		out = append(out, *r.ToDomain())
	}

	return out
}
