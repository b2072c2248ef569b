package ingest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"homeservices/internal/catalog"
	"homeservices/internal/platform/upstream"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchServices(ctx context.Context) ([]upstream.Record, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]upstream.Record), args.Error(1)
}

type mockUpserter struct {
	mock.Mock
}

func (m *mockUpserter) Upsert(ctx context.Context, rec catalog.ServiceRecord) (bool, error) {
	args := m.Called(ctx, rec)
	return args.Bool(0), args.Error(1)
}

type mockRunRepo struct {
	mock.Mock
}

func (m *mockRunRepo) CreateRun(ctx context.Context, run *Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunRepo) UpdateRun(ctx context.Context, run *Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *mockRunRepo) LatestRun(ctx context.Context) (Run, error) {
	args := m.Called(ctx)
	return args.Get(0).(Run), args.Error(1)
}

func newTestService(t *testing.T) (*Service, *mockFetcher, *mockUpserter, *mockRunRepo) {
	t.Helper()
	fetcher := new(mockFetcher)
	upserter := new(mockUpserter)
	runs := new(mockRunRepo)
	svc := NewService(fetcher, upserter, runs, "https://upstream.test", zaptest.NewLogger(t))
	fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }
	return svc, fetcher, upserter, runs
}

func expectCreateRun(runs *mockRunRepo) {
	runs.On("CreateRun", mock.Anything, mock.AnythingOfType("*ingest.Run")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*Run).ID = "run-1"
		}).
		Return(nil)
}

func TestService_Run_CountsCreatedUpdatedSkipped(t *testing.T) {
	svc, fetcher, upserter, runs := newTestService(t)

	records := []upstream.Record{
		{ID: "a1", Title: "Deep Cleaning", Category: "Cleaning", Price: 1200, Discount: 10},
		{LegacyID: "b2", Title: " AC Servicing ", Category: "Repair", Price: 800},
		{Title: "No identity"},
		{ID: "c3", Title: "Pest Control", Price: 1500},
		{ID: "d4", Title: "Broken", Price: 10},
	}
	fetcher.On("FetchServices", mock.Anything).Return(records, nil)
	expectCreateRun(runs)

	upserter.On("Upsert", mock.Anything, mock.MatchedBy(func(r catalog.ServiceRecord) bool {
		return r.ExternalID == "a1" && r.Price == 1200 && r.Discount == 10
	})).Return(true, nil)
	upserter.On("Upsert", mock.Anything, mock.MatchedBy(func(r catalog.ServiceRecord) bool {
		return r.ExternalID == "b2" && r.Title == "AC Servicing"
	})).Return(false, nil)
	upserter.On("Upsert", mock.Anything, mock.MatchedBy(func(r catalog.ServiceRecord) bool {
		return r.ExternalID == "c3"
	})).Return(true, nil)
	upserter.On("Upsert", mock.Anything, mock.MatchedBy(func(r catalog.ServiceRecord) bool {
		return r.ExternalID == "d4"
	})).Return(false, errors.New("constraint"))

	var updated Run
	runs.On("UpdateRun", mock.Anything, mock.AnythingOfType("*ingest.Run")).
		Run(func(args mock.Arguments) { updated = *args.Get(1).(*Run) }).
		Return(nil)

	run, err := svc.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", run.ID)
	assert.Equal(t, StatusCompleted, run.Status)
	assert.Equal(t, 5, run.Fetched)
	assert.Equal(t, 2, run.Created)
	assert.Equal(t, 1, run.Updated)
	assert.Equal(t, 2, run.Skipped)
	require.NotNil(t, run.FinishedAt)
	assert.Equal(t, run, updated)
	upserter.AssertNumberOfCalls(t, "Upsert", 4)
}

func TestService_Run_FetchFailureMarksRunFailed(t *testing.T) {
	svc, fetcher, upserter, runs := newTestService(t)

	fetcher.On("FetchServices", mock.Anything).Return(nil, errors.New("upstream down"))
	expectCreateRun(runs)
	runs.On("UpdateRun", mock.Anything, mock.MatchedBy(func(r *Run) bool {
		return r.Status == StatusFailed && r.Error == "upstream down" && r.FinishedAt != nil
	})).Return(nil)

	run, err := svc.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, StatusFailed, run.Status)
	upserter.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	runs.AssertExpectations(t)
}

func TestService_Run_CreateRunError(t *testing.T) {
	svc, fetcher, _, runs := newTestService(t)

	runs.On("CreateRun", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := svc.Run(context.Background())
	require.Error(t, err)
	fetcher.AssertNotCalled(t, "FetchServices", mock.Anything)
	runs.AssertNotCalled(t, "UpdateRun", mock.Anything, mock.Anything)
}

func TestService_Run_RejectsConcurrentRun(t *testing.T) {
	svc, fetcher, _, runs := newTestService(t)

	started := make(chan struct{})
	release := make(chan struct{})
	fetcher.On("FetchServices", mock.Anything).
		Run(func(mock.Arguments) {
			close(started)
			<-release
		}).
		Return([]upstream.Record{}, nil).Once()
	expectCreateRun(runs)
	runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Run(context.Background())
		done <- err
	}()

	<-started
	_, err := svc.Run(context.Background())
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	close(release)
	require.NoError(t, <-done)
}

func TestHTTPHandler_Sync(t *testing.T) {
	t.Run("rejects missing secret", func(t *testing.T) {
		svc, fetcher, _, _ := newTestService(t)
		h := NewHTTPHandler(svc, "s3cret")

		req := httptest.NewRequest(http.MethodPost, "/internal/jobs/sync", nil)
		rr := httptest.NewRecorder()
		h.Sync(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		fetcher.AssertNotCalled(t, "FetchServices", mock.Anything)
	})

	t.Run("empty configured secret disables endpoint", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		h := NewHTTPHandler(svc, "")

		req := httptest.NewRequest(http.MethodPost, "/internal/jobs/sync", nil)
		req.Header.Set("X-Internal-Secret", "")
		rr := httptest.NewRecorder()
		h.Sync(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("runs sync", func(t *testing.T) {
		svc, fetcher, upserter, runs := newTestService(t)
		h := NewHTTPHandler(svc, "s3cret")

		fetcher.On("FetchServices", mock.Anything).
			Return([]upstream.Record{{ID: "a1", Title: "Plumbing"}}, nil)
		upserter.On("Upsert", mock.Anything, mock.Anything).Return(true, nil)
		expectCreateRun(runs)
		runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/internal/jobs/sync", nil)
		req.Header.Set("X-Internal-Secret", "s3cret")
		rr := httptest.NewRecorder()
		h.Sync(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"status":"COMPLETED"`)
		assert.Contains(t, rr.Body.String(), `"created":1`)
	})

	t.Run("fetch failure is bad gateway", func(t *testing.T) {
		svc, fetcher, _, runs := newTestService(t)
		h := NewHTTPHandler(svc, "s3cret")

		fetcher.On("FetchServices", mock.Anything).Return(nil, errors.New("timeout"))
		expectCreateRun(runs)
		runs.On("UpdateRun", mock.Anything, mock.Anything).Return(nil)

		req := httptest.NewRequest(http.MethodPost, "/internal/jobs/sync", nil)
		req.Header.Set("X-Internal-Secret", "s3cret")
		rr := httptest.NewRecorder()
		h.Sync(rr, req)

		assert.Equal(t, http.StatusBadGateway, rr.Code)
		assert.Contains(t, rr.Body.String(), "SYNC_FAILED")
	})
}

func TestHTTPHandler_Latest(t *testing.T) {
	svc, _, _, runs := newTestService(t)
	h := NewHTTPHandler(svc, "s3cret")

	runs.On("LatestRun", mock.Anything).Return(Run{}, ErrNoRuns).Once()
	req := httptest.NewRequest(http.MethodGet, "/internal/jobs/sync/latest", nil)
	req.Header.Set("X-Internal-Secret", "s3cret")
	rr := httptest.NewRecorder()
	h.Latest(rr, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	runs.On("LatestRun", mock.Anything).Return(Run{ID: "run-9", Status: StatusCompleted}, nil).Once()
	rr = httptest.NewRecorder()
	h.Latest(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"id":"run-9"`)
}
