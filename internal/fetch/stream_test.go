package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/factordynamics/paracas/internal/domain"
	"github.com/factordynamics/paracas/internal/perror"
)

func testInstrument() domain.Instrument {
	return domain.Instrument{ID: "eurusd", Category: domain.CategoryForex, PathFragment: "EURUSD", DecimalFactor: 100000}
}

// hourOfRequest extracts the "HHh_ticks.bi5" segment's hour, our fake server's way
// of varying per-request behavior (delay, status) by hour without a real
// archive behind it.
func hourOfRequest(path string) int {
	parts := strings.Split(path, "/")
	last := parts[len(parts)-1]
	h := 0
	for _, c := range last {
		if c < '0' || c > '9' {
			break
		}
		h = h*10 + int(c-'0')
	}
	return h
}

func TestStream_StrictOrderDespiteOutOfOrderCompletion(t *testing.T) {
	// Odd hours answer slower than even hours, so completion order does not
	// match request order; delivery order must still be ascending by hour.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := hourOfRequest(r.URL.Path)
		if h%2 == 1 {
			time.Sleep(15 * time.Millisecond)
		}
		w.WriteHeader(http.StatusNotFound) // EmptyHour: simplest deterministic response
	}))
	defer srv.Close()

	r := domain.SingleDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	plans := Plan(srv.URL, "EURUSD", r)

	client := NewClient(testClientConfig())
	s := NewStreamFromPlans(client, testInstrument(), plans, 8)

	var gotHours []int
	for res := range s.Run(context.Background()) {
		require.NoError(t, res.Err)
		gotHours = append(gotHours, res.Batch.Hour.Time().Hour())
	}

	require.Len(t, gotHours, 24)
	for i, h := range gotHours {
		assert.Equal(t, i, h)
	}
}

func TestStream_PermanentOnFirstSlotAbortsStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := hourOfRequest(r.URL.Path)
		if h == 0 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	r := domain.SingleDay(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	plans := Plan(srv.URL, "EURUSD", r)

	client := NewClient(testClientConfig())
	// Concurrency 1 so no later slot's fetch is even dispatched before
	// slot 0's abort is recorded. This is unrelated to delivery ordering
	// (the stream guarantees that regardless of concurrency): Client.Fetch
	// never threads ctx into the underlying HTTP call, so a fetch already
	// in flight when the abort lands still runs to completion and lands in
	// pending. Serializing dispatch keeps the resulting count a fixed
	// property of the test instead of a race against server response
	// timing.
	s := NewStreamFromPlans(client, testInstrument(), plans, 1)

	var results []BatchResult
	for res := range s.Run(context.Background()) {
		results = append(results, res)
	}

	require.Len(t, results, 1)
	kind, ok := perror.KindOf(results[0].Err)
	require.True(t, ok)
	assert.Equal(t, perror.Permanent, kind)
}

func TestStream_EmptyPlanClosesImmediately(t *testing.T) {
	client := NewClient(testClientConfig())
	s := NewStreamFromPlans(client, testInstrument(), nil, 4)

	count := 0
	for range s.Run(context.Background()) {
		count++
	}
	assert.Equal(t, 0, count)
}
