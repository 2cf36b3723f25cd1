package refresh

import (
	"errors"
	"time"
)

var ErrTokenNotFound = errors.New("refresh token not found")

// StoredRefreshToken is the server side record of an issued refresh token.
// Clients only ever see Token, an opaque random string.
type StoredRefreshToken struct {
	Token  string
	UserID int64
	Iat    time.Time
}

// Repo stores refresh token records keyed by the token string. A user may
// hold several tokens, one per signed in device.
type Repo interface {
	Upsert(refreshToken *StoredRefreshToken) error
	Delete(token string) error
	Get(token string) (*StoredRefreshToken, error)
	ListByUserID(userID int64) ([]*StoredRefreshToken, error)
}
