package session_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jrsteele09/go-nightlife-client/session"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGetBacksOffThenFailsWithNetworkError(t *testing.T) {
	transport := &failingTransport{err: errConnectionRefused}
	f := setupTestFixture(t, nil, session.WithTransport(transport))

	_, err := f.client.Get(context.Background(), "/api/venues/")
	require.Error(t, err)
	require.Equal(t, session.NetworkError, session.KindOf(err))
	require.ErrorIs(t, err, errConnectionRefused)

	var serr *session.Error
	require.True(t, errors.As(err, &serr))
	require.Zero(t, serr.Status)

	require.Equal(t, 4, transport.count())
	require.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}, f.sleeps.recorded())

	var total time.Duration
	for _, d := range f.sleeps.recorded() {
		total += d
	}
	require.Equal(t, 7*time.Second, total)

	requestID := transport.requests[0].Header.Get("X-Request-ID")
	require.NotEmpty(t, requestID)
	for _, r := range transport.requests {
		require.Equal(t, requestID, r.Header.Get("X-Request-ID"))
	}
	require.Equal(t, 3.0, testutil.ToFloat64(f.metrics.Retries))
	require.Equal(t, 1.0, testutil.ToFloat64(f.metrics.Failures.WithLabelValues(string(session.NetworkError))))
}

func TestMutatingVerbsAreNotRetried(t *testing.T) {
	calls := map[string]func(c *session.Client) error{
		http.MethodPost: func(c *session.Client) error {
			_, err := c.Post(context.Background(), "/api/checkins/", map[string]any{"venue": 1})
			return err
		},
		http.MethodPut: func(c *session.Client) error {
			_, err := c.Put(context.Background(), "/api/checkins/1/", map[string]any{"venue": 1})
			return err
		},
		http.MethodPatch: func(c *session.Client) error {
			_, err := c.Patch(context.Background(), "/api/profile/", map[string]any{"bio": "x"})
			return err
		},
		http.MethodDelete: func(c *session.Client) error {
			_, err := c.Delete(context.Background(), "/api/checkins/1/")
			return err
		},
	}

	for method, call := range calls {
		t.Run(method, func(t *testing.T) {
			transport := &failingTransport{err: errConnectionRefused}
			f := setupTestFixture(t, nil, session.WithTransport(transport))

			err := call(f.client)
			require.Equal(t, session.NetworkError, session.KindOf(err))
			require.Equal(t, 1, transport.count())
			require.Empty(t, f.sleeps.recorded())
		})
	}
}

func TestWithoutRetryDisablesBackoff(t *testing.T) {
	transport := &failingTransport{err: errConnectionRefused}
	f := setupTestFixture(t, nil, session.WithTransport(transport))

	_, err := f.client.Get(context.Background(), "/api/venues/", session.WithoutRetry())
	require.Equal(t, session.NetworkError, session.KindOf(err))
	require.Equal(t, 1, transport.count())
	require.Empty(t, f.sleeps.recorded())
}

func TestCancelledContextStopsBackoff(t *testing.T) {
	transport := &failingTransport{err: errConnectionRefused}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sleep := func(ctx context.Context, _ time.Duration) error {
		cancel()
		return ctx.Err()
	}
	f := setupTestFixture(t, nil, session.WithTransport(transport), session.WithSleepFunc(sleep))

	_, err := f.client.Get(ctx, "/api/venues/")
	require.Equal(t, session.NetworkError, session.KindOf(err))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, transport.count())
}

func TestGetRetriesServerErrors(t *testing.T) {
	f := setupTestFixture(t, nil)
	var calls atomic.Int32
	f.backend.handle("/api/venues/", func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			writeJSON(w, http.StatusServiceUnavailable, map[string]any{"detail": "upstream down"})
			return
		}
		writeJSON(w, http.StatusOK, []any{})
	})

	resp, err := f.client.Get(context.Background(), "/api/venues/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status)
	require.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, f.sleeps.recorded())
}

func TestPostServerErrorIsTerminal(t *testing.T) {
	f := setupTestFixture(t, nil)
	f.backend.handle("/api/checkins/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]any{"detail": "boom"})
	})

	_, err := f.client.Post(context.Background(), "/api/checkins/", map[string]any{"venue": 1})
	require.Equal(t, session.ServerError, session.KindOf(err))
	require.Len(t, f.backend.requestsTo("/api/checkins/"), 1)
	require.Empty(t, f.sleeps.recorded())
}
