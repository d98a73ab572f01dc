package postgres_test

import (
	"context"
	"riskblock/pkg/domain"
	"riskblock/pkg/storage"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestPgSQL_Runs(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()

	t.Run("store and finish with rejections", func(t *testing.T) {
		run, err := pg.StoreRun(ctx, newRun(domain.RunKindPush, "high"))
		require.NoError(t, err)
		require.Equal(t, domain.RunStatusRunning, run.Status)
		require.False(t, run.CreatedAt.IsZero())

		finished, err := pg.FinishRun(ctx, run.ID, storage.RunUpdates{
			Status:    domain.RunStatusCompleted,
			ListID:    17,
			ListName:  "High Risk Apps URLs",
			Submitted: 3,
			Added:     1,
			Rejected:  2,
			Fallback:  true,
		}, []domain.Rejection{
			{Destination: "google.com", Reason: "high-volume domain"},
			{Destination: "bad..domain", Reason: ""},
		})
		require.NoError(t, err)
		require.Equal(t, domain.RunStatusCompleted, finished.Status)
		require.Equal(t, domain.DestinationListID(17), finished.ListID)
		require.True(t, finished.Fallback)
		require.False(t, finished.UpdatedAt.IsZero())

		got, rejections, err := pg.RunByID(ctx, run.ID)
		require.NoError(t, err)
		require.Equal(t, 2, got.Rejected)
		require.Equal(t, []domain.Rejection{
			{Destination: "google.com", Reason: "high-volume domain"},
			{Destination: "bad..domain"},
		}, rejections)
	})

	t.Run("finish unknown run", func(t *testing.T) {
		res, err := pg.FinishRun(ctx, domain.RunID(uuid.New()), storage.RunUpdates{
			Status: domain.RunStatusFailed,
		}, nil)
		require.NoError(t, err)
		require.Nil(t, res)
	})

	t.Run("store generates id", func(t *testing.T) {
		run, err := pg.StoreRun(ctx, domain.SyncRun{
			Kind:   domain.RunKindDiscover,
			Target: "low",
			Status: domain.RunStatusRunning,
		})
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, uuid.UUID(run.ID))
	})
}

func TestPgSQL_RecentRuns(t *testing.T) {
	pg, cleanup := setupTestDB(t)
	t.Cleanup(cleanup)

	ctx := context.Background()

	for _, target := range []string{"high", "medium", "low"} {
		_, err := pg.StoreRun(ctx, newRun(domain.RunKindPush, target))
		require.NoError(t, err)
		// created_at has microsecond precision; keep rows strictly ordered
		time.Sleep(5 * time.Millisecond)
	}
	_, err := pg.StoreRun(ctx, newRun(domain.RunKindDiscover, "high"))
	require.NoError(t, err)

	page, err := pg.RecentRuns(ctx, domain.RunKindPush, time.Time{}, 2)
	require.NoError(t, err)
	require.Len(t, page.Runs, 2)
	require.Equal(t, "low", page.Runs[0].Target)
	require.Equal(t, "medium", page.Runs[1].Target)
	require.NotNil(t, page.NextCursor)

	page, err = pg.RecentRuns(ctx, domain.RunKindPush, *page.NextCursor, 2)
	require.NoError(t, err)
	require.Len(t, page.Runs, 1)
	require.Equal(t, "high", page.Runs[0].Target)
	require.Nil(t, page.NextCursor)

	all, err := pg.RecentRuns(ctx, "", time.Time{}, 0)
	require.NoError(t, err)
	require.Len(t, all.Runs, 4)
	require.Equal(t, domain.RunKindDiscover, all.Runs[0].Kind)
}
