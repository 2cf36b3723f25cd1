package jwt

import (
	"fmt"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-nightlife-client/internal/config"
	"github.com/jrsteele09/go-nightlife-client/token/keys"
	"github.com/jrsteele09/go-nightlife-client/users"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// TokenTypeAccess marks bearer tokens; the refresh token is opaque and never a
// JWT.
const TokenTypeAccess = "access"

// Creator issues short lived access tokens.
type Creator struct {
	config config.MockAPIConfig
	signer keys.Signer
}

func NewCreator(cfg config.MockAPIConfig, signer keys.Signer) *Creator {
	return &Creator{
		config: cfg,
		signer: signer,
	}
}

// CreateAccessToken creates a bearer token for user.
func (c *Creator) CreateAccessToken(user *users.User) (string, error) {
	now := NowTimeFunc()
	claims := jwtlib.MapClaims{
		"token_type": TokenTypeAccess,                                     // Distinguishes access tokens from other JWTs
		"user_id":    user.ID,                                             // Account the token acts for
		"username":   user.Username,                                       // Convenience for clients rendering the session
		"iat":        now.Unix(),                                          // Issued At: the time at which the token was issued
		"exp":        now.Add(c.config.GetMockAccessTokenExpiry()).Unix(), // Expiry: when the token will expire
		"jti":        uuid.New().String(),                                 // Unique token ID for revocation
	}

	signedToken, err := c.signer.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("[Creator CreateAccessToken] signing: %w", err)
	}
	return signedToken, nil
}
