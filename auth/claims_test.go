package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-nightlife-client/auth"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any key"))
	require.NoError(t, err)
	return raw
}

func TestParseAccessToken(t *testing.T) {
	exp := time.Date(2024, 6, 1, 22, 0, 0, 0, time.UTC)
	raw := signed(t, jwt.MapClaims{
		"user_id":  7,
		"username": "ana",
		"exp":      exp.Unix(),
	})

	claims, err := auth.ParseAccessToken(raw)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, "ana", claims.Username)
	require.True(t, claims.ExpiresAt.Equal(exp))

	require.False(t, claims.Expired(exp.Add(-time.Second)))
	require.True(t, claims.Expired(exp))
	require.True(t, claims.Expired(exp.Add(time.Minute)))
}

func TestParseAccessTokenStringUserID(t *testing.T) {
	claims, err := auth.ParseAccessToken(signed(t, jwt.MapClaims{"user_id": "42"}))
	require.NoError(t, err)
	require.Equal(t, int64(42), claims.UserID)
	require.False(t, claims.Expired(time.Now()), "no exp never expires")
}

func TestParseAccessTokenMalformed(t *testing.T) {
	for _, raw := range []string{"", "abc", "a.b.c"} {
		_, err := auth.ParseAccessToken(raw)
		require.ErrorIs(t, err, auth.ErrMalformedToken, raw)
	}
}
