// Package mockapitest starts the development backend on a loopback listener
// for tests.
package mockapitest

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/go-nightlife-client/internal/config"
	"github.com/jrsteele09/go-nightlife-client/mockapi"
	"github.com/jrsteele09/go-nightlife-client/users"
	fakeuserrepo "github.com/jrsteele09/go-nightlife-client/users/repofake"
	"github.com/stretchr/testify/require"
)

// DefaultPassword satisfies the backend's password rules.
const DefaultPassword = "Nightout123"

// Settings pins the values tests depend on instead of reading the
// environment.
type Settings struct {
	config.EnvVars
	config.Cors
	config.MockAPI

	AccessTokenExpiry time.Duration
	RequireCSRF       bool
}

func (Settings) GetEnv() string {
	return "TEST"
}

func (Settings) GetMockJWTSecret() string {
	return "mockapitest-secret"
}

func (s Settings) GetMockAccessTokenExpiry() time.Duration {
	if s.AccessTokenExpiry == 0 {
		return 5 * time.Minute
	}
	return s.AccessTokenExpiry
}

func (s Settings) GetMockRequireCSRF() bool {
	return s.RequireCSRF
}

// Backend is a running mock API.
type Backend struct {
	*httptest.Server
	API   *mockapi.Server
	Users users.Repo
}

// New starts a backend that requires CSRF on mutating requests and stops it
// when the test ends.
func New(t *testing.T, options ...mockapi.Option) *Backend {
	t.Helper()
	return NewWithSettings(t, Settings{RequireCSRF: true}, options...)
}

func NewWithSettings(t *testing.T, settings Settings, options ...mockapi.Option) *Backend {
	t.Helper()

	repo := fakeuserrepo.NewFakeUserRepo()
	api, err := mockapi.New(settings, append([]mockapi.Option{mockapi.WithUserRepo(repo)}, options...)...)
	require.NoError(t, err)

	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return &Backend{Server: srv, API: api, Users: repo}
}

// AddUser creates an account that can log in with DefaultPassword.
func (b *Backend) AddUser(t *testing.T, email, username string) *users.User {
	t.Helper()

	hash, err := users.HashPassword(DefaultPassword)
	require.NoError(t, err)
	user := &users.User{
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		DateJoined:   time.Now(),
	}
	require.NoError(t, b.Users.Create(user))
	return user
}
