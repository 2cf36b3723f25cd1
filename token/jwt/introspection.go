package jwt

import (
	"errors"
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-nightlife-client/token/keys"
)

var ErrInactiveToken = errors.New("token is not active")

// AccessClaims are the verified claims of an access token.
type AccessClaims struct {
	UserID    int64
	Username  string
	JTI       string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// RevokedChecker is an interface for checking if a token has been revoked
type RevokedChecker interface {
	IsRevoked(jti string) bool
}

// Inspector verifies access tokens presented to the API.
type Inspector struct {
	signer         keys.Signer
	revokedChecker RevokedChecker
}

func NewInspector(signer keys.Signer, revokedChecker RevokedChecker) *Inspector {
	return &Inspector{
		signer:         signer,
		revokedChecker: revokedChecker,
	}
}

// Introspect verifies rawToken and returns its claims. Expired, revoked and
// non access tokens fail with ErrInactiveToken.
func (i *Inspector) Introspect(rawToken string) (*AccessClaims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, ErrInactiveToken
	}

	token, err := jwtlib.ParseWithClaims(rawToken, jwtlib.MapClaims{}, i.signer.GetVerificationKey,
		jwtlib.WithValidMethods([]string{i.signer.GetSigningMethod().Alg()}),
		jwtlib.WithTimeFunc(NowTimeFunc),
	)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %w", ErrInactiveToken, err)
	}

	claims, ok := token.Claims.(jwtlib.MapClaims)
	if !ok {
		return nil, errors.New("error extracting claims from token")
	}

	if tokenType, _ := claims["token_type"].(string); tokenType != TokenTypeAccess {
		return nil, fmt.Errorf("%w: wrong token type %q", ErrInactiveToken, tokenType)
	}

	userID, _ := claims["user_id"].(float64)
	username, _ := claims["username"].(string)
	jti, _ := claims["jti"].(string)
	iat, _ := claims["iat"].(float64)
	exp, _ := claims["exp"].(float64)

	if jti != "" && i.revokedChecker != nil && i.revokedChecker.IsRevoked(jti) {
		return nil, fmt.Errorf("%w: revoked", ErrInactiveToken)
	}

	return &AccessClaims{
		UserID:    int64(userID),
		Username:  username,
		JTI:       jti,
		IssuedAt:  time.Unix(int64(iat), 0),
		ExpiresAt: time.Unix(int64(exp), 0),
	}, nil
}
