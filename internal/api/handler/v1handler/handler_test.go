package v1handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"riskblock/internal/api/handler/v1handler"
	"riskblock/pkg/domain"
	"riskblock/pkg/serrors"
	"riskblock/pkg/storage"
	"riskblock/pkg/storage/memory"
	mockstorage "riskblock/pkg/storage/mock"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func serve(t *testing.T, runs storage.RunStorage, target string) *httptest.ResponseRecorder {
	t.Helper()

	mux := http.NewServeMux()
	v1handler.New(v1handler.Deps{Runs: runs}).Register(mux)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))

	return rec
}

func TestListRuns(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	_, err := st.StoreRun(ctx, domain.SyncRun{Kind: domain.RunKindDiscover, Target: "high", Status: domain.RunStatusCompleted})
	require.NoError(t, err)
	pushed, err := st.StoreRun(ctx, domain.SyncRun{Kind: domain.RunKindPush, Target: "high", Status: domain.RunStatusRunning})
	require.NoError(t, err)

	rec := serve(t, st, "/v1/runs?kind=push")
	require.Equal(t, http.StatusOK, rec.Code)

	var list v1handler.RunList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 1)
	require.Equal(t, pushed.ID, list.Items[0].ID)
	require.Nil(t, list.NextCursor)

	rec = serve(t, st, "/v1/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
}

func TestListRuns_emptyIsArray(t *testing.T) {
	rec := serve(t, memory.New(), "/v1/runs")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"items":[],"nextCursor":null}`, rec.Body.String())
}

func TestListRuns_passesQuery(t *testing.T) {
	ctrl := gomock.NewController(t)
	runs := mockstorage.NewMockRunStorage(ctrl)

	cursor := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	runs.EXPECT().RecentRuns(gomock.Any(), domain.RunKindDiscover, cursor, uint(5)).
		Return(storage.RecentRuns{}, nil)

	rec := serve(t, runs, "/v1/runs?kind=Discover&limit=5&cursor=2026-10-01T12:00:00Z")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestListRuns_badRequest(t *testing.T) {
	for _, target := range []string{
		"/v1/runs?kind=scan",
		"/v1/runs?limit=0",
		"/v1/runs?limit=101",
		"/v1/runs?limit=abc",
		"/v1/runs?cursor=yesterday",
	} {
		rec := serve(t, memory.New(), target)
		require.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestListRuns_storageError(t *testing.T) {
	ctrl := gomock.NewController(t)
	runs := mockstorage.NewMockRunStorage(ctrl)
	runs.EXPECT().RecentRuns(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(storage.RecentRuns{}, errors.New("pool closed"))

	rec := serve(t, runs, "/v1/runs")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func TestGetRun(t *testing.T) {
	ctx := context.Background()
	st := memory.New()
	run, err := st.StoreRun(ctx, domain.SyncRun{Kind: domain.RunKindPush, Target: "high", Status: domain.RunStatusRunning})
	require.NoError(t, err)
	_, err = st.FinishRun(ctx, run.ID, storage.RunUpdates{Status: domain.RunStatusCompleted, Submitted: 2, Added: 1, Rejected: 1},
		[]domain.Rejection{{Destination: "google.com", Reason: "high-volume domain"}})
	require.NoError(t, err)

	rec := serve(t, st, "/v1/runs/"+run.ID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	var details v1handler.RunDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	require.Equal(t, run.ID, details.Run.ID)
	require.Equal(t, domain.RunStatusCompleted, details.Run.Status)
	require.Equal(t, []domain.Rejection{{Destination: "google.com", Reason: "high-volume domain"}}, details.Rejections)
}

func TestGetRun_errors(t *testing.T) {
	rec := serve(t, memory.New(), "/v1/runs/not-a-uuid")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(t, memory.New(), "/v1/runs/"+uuid.NewString())
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestParseKind(t *testing.T) {
	k, err := v1handler.ParseKind(" push ")
	require.NoError(t, err)
	require.Equal(t, domain.RunKindPush, k)

	k, err = v1handler.ParseKind("")
	require.NoError(t, err)
	require.Empty(t, k)

	_, err = v1handler.ParseKind("scan")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}
