package session

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBackoffDelay(t *testing.T) {
	tests := []struct {
		retry int
		want  time.Duration
	}{
		{retry: 0, want: 1 * time.Second},
		{retry: 1, want: 1 * time.Second},
		{retry: 2, want: 2 * time.Second},
		{retry: 3, want: 4 * time.Second},
		{retry: 4, want: 8 * time.Second},
		{retry: 5, want: 10 * time.Second},
		{retry: 40, want: 10 * time.Second},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, backoffDelay(time.Second, 10*time.Second, tt.retry), "retry %d", tt.retry)
	}
}

func TestAttemptDerivesNewRecords(t *testing.T) {
	first := newAttempt("req-1", http.MethodGet, "/api/venues/")

	retried := first.nextRetry()
	authed := retried.withAuthRetry()

	require.Equal(t, 0, first.retries)
	require.False(t, first.authRetried)
	require.Equal(t, 1, retried.retries)
	require.False(t, retried.authRetried)
	require.Equal(t, 1, authed.retries)
	require.True(t, authed.authRetried)
	require.Equal(t, "req-1", authed.requestID)
}

func TestCanRetryTransient(t *testing.T) {
	get := newAttempt("id", http.MethodGet, "/api/venues/")
	post := newAttempt("id", http.MethodPost, "/api/checkins/")

	require.True(t, get.canRetryTransient(callConfig{}, 3))
	require.False(t, get.canRetryTransient(callConfig{noRetry: true}, 3))
	require.False(t, post.canRetryTransient(callConfig{}, 3))

	exhausted := get.nextRetry().nextRetry().nextRetry()
	require.False(t, exhausted.canRetryTransient(callConfig{}, 3))
}

func TestIsRefreshPath(t *testing.T) {
	c := &Client{refreshPath: "/api/auth/token/refresh/"}

	require.True(t, c.isRefreshPath("/api/auth/token/refresh/"))
	require.True(t, c.isRefreshPath("/api/auth/token/refresh"))
	require.True(t, c.isRefreshPath("http://localhost:8000/api/auth/token/refresh/?x=1"))
	require.False(t, c.isRefreshPath("/api/auth/login/"))
}

func TestBearerToken(t *testing.T) {
	require.Equal(t, "abc", bearerToken("Bearer abc"))
	require.Equal(t, "", bearerToken("Basic abc"))
	require.Equal(t, "", bearerToken(""))
}
