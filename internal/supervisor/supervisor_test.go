package supervisor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/fetch"
	"github.com/factordynamics/paracas/internal/job"
	"github.com/factordynamics/paracas/internal/state"
)

func newTestSupervisor(t *testing.T, baseURL string) (*Supervisor, *state.Store) {
	t.Helper()
	store, err := state.Open(t.TempDir())
	require.NoError(t, err)
	client := fetch.NewClient(fetch.ClientConfig{
		Concurrency: 2,
		ReadTimeout: 2 * time.Second,
		MaxRetries:  1,
		BaseDelay:   5 * time.Millisecond,
	})
	sup := New(store, client, Config{BaseURL: baseURL, StreamConcurrency: 4, OuterLimit: 2})
	return sup, store
}

func singleTaskJob(t *testing.T, out string) job.DownloadJob {
	t.Helper()
	r := domain.SingleDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	task := job.InstrumentTask{
		InstrumentID: "eurusd",
		Range:        r,
		OutputTarget: out,
		Format:       "csv",
		Timeframe:    "tick",
	}
	return job.New([]job.InstrumentTask{task}, time.Now().UTC())
}

func TestSupervisor_Run_CompletesJobOverAllEmptyHours(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound) // every hour is empty; no archive behind this test
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "eurusd.csv")
	sup, store := newTestSupervisor(t, srv.URL)
	dj := singleTaskJob(t, out)
	require.NoError(t, store.SaveJob(&dj))

	require.NoError(t, sup.Run(context.Background(), dj.JobID))

	got, err := store.GetJob(dj.JobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusCompleted, got.Status)
	assert.Equal(t, job.StatusCompleted, got.Tasks[0].Status)
	assert.Equal(t, 24, got.Tasks[0].Progress)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timestamp,ask,bid,ask_volume,bid_volume")

	logData, err := os.ReadFile(store.StdoutPath(dj.JobID))
	require.NoError(t, err)
	assert.Contains(t, string(logData), "task started")
	assert.Contains(t, string(logData), "task completed")
}

func TestSupervisor_Run_PermanentOnFirstHourFailsTask(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "eurusd.csv")
	sup, store := newTestSupervisor(t, srv.URL)
	dj := singleTaskJob(t, out)
	require.NoError(t, store.SaveJob(&dj))

	require.NoError(t, sup.Run(context.Background(), dj.JobID))

	got, err := store.GetJob(dj.JobID)
	require.NoError(t, err)
	assert.Equal(t, job.StatusFailed, got.Status)
	assert.Equal(t, job.StatusFailed, got.Tasks[0].Status)
	assert.NotEmpty(t, got.Tasks[0].FailReason)
}

func TestSupervisor_Run_AcquiresAndReleasesLock(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	out := filepath.Join(t.TempDir(), "eurusd.csv")
	sup, store := newTestSupervisor(t, srv.URL)
	dj := singleTaskJob(t, out)
	require.NoError(t, store.SaveJob(&dj))

	require.NoError(t, sup.Run(context.Background(), dj.JobID))

	// The lock must be released once Run returns, so a fresh AcquireLock
	// for the same job succeeds immediately.
	lock, err := store.AcquireLock(dj.JobID)
	require.NoError(t, err)
	require.NoError(t, lock.Release())
}

func TestSupervisor_Run_UnknownJobErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	sup, _ := newTestSupervisor(t, srv.URL)
	err := sup.Run(context.Background(), job.NewID())
	assert.Error(t, err)
}
