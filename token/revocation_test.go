package token_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-nightlife-client/token"
	"github.com/stretchr/testify/require"
)

func TestRevokedTokenCache(t *testing.T) {
	now := time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC)
	token.NowTimeFunc = func() time.Time { return now }
	t.Cleanup(func() { token.NowTimeFunc = time.Now })

	cache := token.NewInMemoryRevokedTokenCache()
	require.NoError(t, cache.Add("live", now.Add(time.Minute)))
	require.NoError(t, cache.Add("stale", now.Add(-time.Minute)))

	require.True(t, cache.IsRevoked("live"))
	require.False(t, cache.IsRevoked("stale"))
	require.False(t, cache.IsRevoked("unknown"))

	require.Equal(t, 1, cache.Cleanup())
	require.True(t, cache.IsRevoked("live"))
}
