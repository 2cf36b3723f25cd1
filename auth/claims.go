package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims are the claims the app reads from its own access token. The
// signature is not checked; only the backend can do that.
type TokenClaims struct {
	UserID    int64
	Username  string
	ExpiresAt time.Time
}

// Expired reports whether the token's exp lies before now. Tokens without exp
// never expire.
func (c *TokenClaims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// ParseAccessToken reads the claims of raw without verifying it.
func ParseAccessToken(raw string) (*TokenClaims, error) {
	if err := NewValidator().ValidateAccessToken(raw); err != nil {
		return nil, err
	}

	token, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrMalformedToken
	}

	out := &TokenClaims{}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	out.Username, _ = claims["username"].(string)
	switch id := claims["user_id"].(type) {
	case float64:
		out.UserID = int64(id)
	case string:
		_, _ = fmt.Sscan(id, &out.UserID)
	}
	return out, nil
}
