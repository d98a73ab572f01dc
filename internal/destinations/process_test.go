package destinations_test

import (
	"context"
	"path/filepath"
	"riskblock/internal/destinations"
	"riskblock/pkg/domain"
	"riskblock/pkg/jsonfile"
	"riskblock/pkg/serrors"
	"riskblock/pkg/storage/memory"
	"riskblock/pkg/umbrella"
	mockumbrella "riskblock/pkg/umbrella/mock"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func writeCollection(t *testing.T, path string, c domain.URLCollection) {
	t.Helper()

	require.NoError(t, jsonfile.Write(path, c))
}

func zoomCollection() domain.URLCollection {
	return domain.URLCollection{
		"Zoom": {
			AppID:    "2",
			URLs:     []string{"https://zoom.us", "https://zoom.us/j/1"},
			URLCount: 2,
		},
	}
}

func newProcessPusher(t *testing.T, dir string, dryRun bool) (*mockumbrella.MockPolicies, *memory.Memory, *destinations.Pusher) {
	t.Helper()

	ctrl := gomock.NewController(t)
	policies := mockumbrella.NewMockPolicies(ctrl)
	st := memory.New()
	p := destinations.New(policies, st, nil, destinations.Options{InputDir: dir, DryRun: dryRun})

	return policies, st, p
}

func TestProcessRiskLevel(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, filepath.Join(dir, "output_high.json"), zoomCollection())
	policies, st, p := newProcessPusher(t, dir, false)

	want := []domain.Destination{
		{Destination: "zoom.us", Type: domain.DestinationTypeDomain, Comment: "From high risk app: Zoom (ID: 2)"},
		{Destination: "https://zoom.us/j/1", Type: domain.DestinationTypeURL, Comment: "From high risk app: Zoom (ID: 2)"},
	}

	gomock.InOrder(
		policies.EXPECT().DestinationLists(gomock.Any()).Return([]domain.DestinationList{}, nil),
		policies.EXPECT().CreateDestinationList(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req umbrella.CreateListReq) (*domain.DestinationList, error) {
				require.Equal(t, "High Risk Apps URLs", req.Name)

				return &domain.DestinationList{ID: listID, Name: req.Name}, nil
			}),
		policies.EXPECT().DestinationList(gomock.Any(), listID).Return(withCount(0), nil),
		policies.EXPECT().AddDestinations(gomock.Any(), listID, want).Return(statusOK, nil),
	)

	report, err := p.ProcessRiskLevel(context.Background(), "High")
	require.NoError(t, err)
	require.Equal(t, listID, report.ListID)
	require.Equal(t, "High Risk Apps URLs", report.ListName)
	require.Equal(t, filepath.Join(dir, "output_high.json"), report.File)
	require.Equal(t, 2, report.Submitted)
	require.Equal(t, 2, report.Added)
	require.NotZero(t, report.RunID)

	run, rejections, err := st.RunByID(context.Background(), report.RunID)
	require.NoError(t, err)
	require.Empty(t, rejections)
	require.Equal(t, domain.RunKindPush, run.Kind)
	require.Equal(t, domain.RunStatusCompleted, run.Status)
	require.Equal(t, "high", run.Target)
	require.Equal(t, listID, run.ListID)
	require.Equal(t, 2, run.Submitted)
	require.Equal(t, 2, run.Added)
}

func TestProcessRiskLevel_missingFileFailsRun(t *testing.T) {
	_, st, p := newProcessPusher(t, t.TempDir(), false)

	_, err := p.ProcessRiskLevel(context.Background(), "low")
	require.ErrorIs(t, err, serrors.ErrNotFound)

	runs, err := st.RecentRuns(context.Background(), domain.RunKindPush, time.Time{}, 10)
	require.NoError(t, err)
	require.Len(t, runs.Runs, 1)
	require.Equal(t, domain.RunStatusFailed, runs.Runs[0].Status)
	require.NotEmpty(t, runs.Runs[0].LastError)
}

func TestProcessFile_noDestinations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	writeCollection(t, path, domain.URLCollection{"Empty": {AppID: "1", URLs: []string{}}})
	_, _, p := newProcessPusher(t, dir, false)

	_, err := p.ProcessFile(context.Background(), path, "Custom")
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestProcessFile_recordsRejections(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.json")
	writeCollection(t, path, domain.URLCollection{
		"Search": {AppID: "", URLs: []string{"https://google.com", "https://a.com"}, URLCount: 2},
	})
	policies, st, p := newProcessPusher(t, dir, false)

	gomock.InOrder(
		policies.EXPECT().DestinationLists(gomock.Any()).
			Return([]domain.DestinationList{{ID: listID, Name: "Custom"}}, nil),
		policies.EXPECT().DestinationList(gomock.Any(), listID).Return(withCount(0), nil),
		policies.EXPECT().AddDestinations(gomock.Any(), listID, gomock.Len(2)).Return(&umbrella.AddDestinationsRes{
			Shape:         umbrella.ShapeEmbeddedError,
			HasStatusCode: true,
			StatusCode:    400,
			Message:       `{\"google.com\":\"high-volume domain\"}`,
		}, nil),
		policies.EXPECT().DestinationList(gomock.Any(), listID).Return(withCount(1), nil),
	)

	report, err := p.ProcessFile(context.Background(), path, "Custom")
	require.NoError(t, err)
	require.Equal(t, 1, report.Added)
	require.Equal(t, 1, report.Rejected)

	run, rejections, err := st.RunByID(context.Background(), report.RunID)
	require.NoError(t, err)
	require.Equal(t, path, run.Target)
	require.Equal(t, "Custom", run.ListName)
	require.Equal(t, 1, run.Rejected)
	require.Equal(t, []domain.Rejection{{Destination: "google.com", Reason: "high-volume domain"}}, rejections)
}

func TestProcessRiskLevel_dryRun(t *testing.T) {
	dir := t.TempDir()
	writeCollection(t, filepath.Join(dir, "output_medium.json"), zoomCollection())
	policies, st, p := newProcessPusher(t, dir, true)

	policies.EXPECT().DestinationLists(gomock.Any()).Return(nil, nil)

	report, err := p.ProcessRiskLevel(context.Background(), "medium")
	require.NoError(t, err)
	require.True(t, report.DryRun)
	require.Zero(t, report.ListID)
	require.Equal(t, "Medium Risk Apps URLs", report.ListName)
	require.Equal(t, 2, report.Submitted)
	require.Zero(t, report.Added)

	runs, err := st.RecentRuns(context.Background(), "", time.Time{}, 10)
	require.NoError(t, err)
	require.Empty(t, runs.Runs)
}
