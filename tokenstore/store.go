// Package tokenstore persists session credentials between runs of the client.
// It mirrors the async key/value storage the mobile app uses: string keys,
// string values, single and batched operations.
package tokenstore

import (
	"context"
	"errors"
)

// Keys written by the session client and the auth service.
const (
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
	KeyUserInfo     = "user_info"
	KeyCSRFToken    = "csrfToken"

	// KeyLegacyUser is where older app builds cached the signed in user.
	KeyLegacyUser = "user"
)

// ErrNotFound is returned by GetItem when the key has no value.
var ErrNotFound = errors.New("token store: key not found")

// Store is safe for concurrent use. MultiGet omits missing keys from its
// result rather than failing; MultiSet and MultiRemove apply all keys or none
// where the backend allows it.
type Store interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	MultiGet(ctx context.Context, keys ...string) (map[string]string, error)
	MultiSet(ctx context.Context, items map[string]string) error
	MultiRemove(ctx context.Context, keys ...string) error
	Close(ctx context.Context) error
}
