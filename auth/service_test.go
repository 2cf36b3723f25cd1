package auth_test

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/go-nightlife-client/auth"
	"github.com/jrsteele09/go-nightlife-client/internal/config"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
	"github.com/jrsteele09/go-nightlife-client/mockapi"
	"github.com/jrsteele09/go-nightlife-client/mockapi/mockapitest"
	"github.com/jrsteele09/go-nightlife-client/session"
	"github.com/jrsteele09/go-nightlife-client/token/jwt"
	"github.com/jrsteele09/go-nightlife-client/token/refresh"
	"github.com/jrsteele09/go-nightlife-client/tokenstore"
	"github.com/jrsteele09/go-nightlife-client/tokenstore/storefake"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	backend *mockapitest.Backend
	store   *storefake.FakeStore
	client  *session.Client
	service *auth.Service

	mu      sync.Mutex
	logouts []auth.LogoutEvent
}

func noSleep(context.Context, time.Duration) error { return nil }

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	f := &testFixture{
		backend: mockapitest.New(t),
		store:   storefake.NewFakeStore(nil),
	}
	f.backend.AddUser(t, "ana@example.com", "ana")
	f.connect(t)
	return f
}

// connect builds a fresh client and service over the fixture's store, as an
// app restart would.
func (f *testFixture) connect(t *testing.T) {
	t.Helper()
	f.client = session.New(config.NewClient(nil), f.store,
		session.WithBaseURL(f.backend.URL),
		session.WithSleepFunc(noSleep),
	)
	svc, err := auth.NewService(f.client, f.store)
	require.NoError(t, err)
	require.NoError(t, svc.OnLogout(func(e auth.LogoutEvent) {
		f.mu.Lock()
		f.logouts = append(f.logouts, e)
		f.mu.Unlock()
	}))
	f.service = svc
}

func (f *testFixture) logoutEvents() []auth.LogoutEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]auth.LogoutEvent(nil), f.logouts...)
}

func (f *testFixture) login(t *testing.T) {
	t.Helper()
	_, err := f.service.Login(context.Background(), auth.Credentials{Email: "ana@example.com", Password: mockapitest.DefaultPassword})
	require.NoError(t, err)
}

// shiftClock moves the backend's clocks forward so tokens issued so far
// expire.
func shiftClock(t *testing.T, access, refreshBy time.Duration) {
	t.Helper()
	jwt.NowTimeFunc = func() time.Time { return time.Now().Add(access) }
	refresh.NowTimeFunc = func() time.Time { return time.Now().Add(refreshBy) }
	t.Cleanup(func() {
		jwt.NowTimeFunc = time.Now
		refresh.NowTimeFunc = time.Now
	})
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t)

	user, err := f.service.Login(context.Background(), auth.Credentials{Username: "ana", Password: mockapitest.DefaultPassword})
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", user.Email)
	require.True(t, f.service.IsAuthenticated())
	require.Equal(t, "ana", f.service.CurrentUser().Username)

	for _, key := range []string{tokenstore.KeyAccessToken, tokenstore.KeyRefreshToken, tokenstore.KeyUserInfo, tokenstore.KeyCSRFToken} {
		_, ok := f.store.Value(key)
		require.True(t, ok, key)
	}

	// Authenticated calls now succeed.
	resp, err := f.client.Get(context.Background(), mockapi.RouteProfile)
	require.NoError(t, err)
	require.Equal(t, 200, resp.Status)
}

func TestLoginInvalidCredentials(t *testing.T) {
	f := setupTestFixture(t)

	_, err := f.service.Login(context.Background(), auth.Credentials{Email: "ana@example.com", Password: "wrong"})
	require.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	require.True(t, session.IsKind(err, session.AuthenticationFailed))
	require.Contains(t, err.Error(), "No active account found")
	require.False(t, f.service.IsAuthenticated())
	require.Empty(t, f.logoutEvents())

	_, ok := f.store.Value(tokenstore.KeyAccessToken)
	require.False(t, ok)
}

func TestLoginValidatesLocally(t *testing.T) {
	f := setupTestFixture(t)
	_, err := f.service.Login(context.Background(), auth.Credentials{Email: "ana@example.com"})
	require.ErrorIs(t, err, auth.ErrPasswordRequired)
}

func TestRegister(t *testing.T) {
	f := setupTestFixture(t)

	user, err := f.service.Register(context.Background(), auth.Registration{
		Email:           "bo@example.com",
		Username:        "bo",
		Password:        "Dancing2024",
		PasswordConfirm: "Dancing2024",
	})
	require.NoError(t, err)
	require.Equal(t, "bo", user.Username)
	require.True(t, f.service.IsAuthenticated())

	_, err = f.service.Register(context.Background(), auth.Registration{
		Email:    "cy@example.com",
		Username: "cy",
		Password: "weak",
	})
	require.True(t, session.IsKind(err, session.InvalidRequest))
	var nerr *session.Error
	require.ErrorAs(t, err, &nerr)
	require.Contains(t, nerr.Details, "password")
}

func TestLogout(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	creds, err := f.client.Credentials(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background()))
	require.False(t, f.service.IsAuthenticated())
	require.Nil(t, f.service.CurrentUser())

	events := f.logoutEvents()
	require.Len(t, events, 1)
	require.Equal(t, auth.LogoutRequested, events[0].Reason)

	for _, key := range []string{tokenstore.KeyAccessToken, tokenstore.KeyRefreshToken, tokenstore.KeyUserInfo} {
		_, ok := f.store.Value(key)
		require.False(t, ok, key)
	}

	// The backend forgot the refresh token.
	_, err = f.client.Post(context.Background(), mockapi.RouteRefresh, map[string]string{"refresh": creds.RefreshToken})
	require.True(t, session.IsKind(err, session.AuthenticationFailed))
}

func TestLogoutRevokesAccessToken(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	creds, err := f.client.Credentials(context.Background())
	require.NoError(t, err)

	require.NoError(t, f.service.Logout(context.Background()))

	f.client.SetAuthToken(creds.AccessToken)
	_, err = f.client.Get(context.Background(), mockapi.RouteProfile, session.WithoutRetry())
	require.True(t, session.IsKind(err, session.AuthenticationFailed))
	var nerr *session.Error
	require.ErrorAs(t, err, &nerr)
	require.Equal(t, http.StatusUnauthorized, nerr.Status)
}

func TestLogoutWhenBackendUnreachable(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	f.backend.Close()

	require.NoError(t, f.service.Logout(context.Background()))
	require.False(t, f.service.IsAuthenticated())
	_, ok := f.store.Value(tokenstore.KeyRefreshToken)
	require.False(t, ok)
}

func TestRestore(t *testing.T) {
	f := setupTestFixture(t)

	result, err := f.service.Restore(context.Background())
	require.NoError(t, err)
	require.False(t, result.Authenticated)

	f.login(t)
	f.connect(t)

	result, err = f.service.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, result.Authenticated)
	require.False(t, result.AccessExpired)
	require.Equal(t, "ana", result.User.Username)
	require.True(t, f.service.IsAuthenticated())

	auth.NowTimeFunc = func() time.Time { return time.Now().Add(time.Hour) }
	t.Cleanup(func() { auth.NowTimeFunc = time.Now })
	f.connect(t)
	result, err = f.service.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, result.AccessExpired)
}

func TestRestoreLegacyUserKey(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	info, _ := f.store.Value(tokenstore.KeyUserInfo)
	require.NoError(t, f.store.RemoveItem(context.Background(), tokenstore.KeyUserInfo))
	require.NoError(t, f.store.SetItem(context.Background(), tokenstore.KeyLegacyUser, info))

	f.connect(t)
	result, err := f.service.Restore(context.Background())
	require.NoError(t, err)
	require.Equal(t, "ana", result.User.Username)
}

func TestRestoreWithoutUserUsesClaims(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	require.NoError(t, f.store.RemoveItem(context.Background(), tokenstore.KeyUserInfo))

	f.connect(t)
	result, err := f.service.Restore(context.Background())
	require.NoError(t, err)
	require.True(t, result.Authenticated)
	require.Equal(t, "ana", result.User.Username)
	require.NotZero(t, result.User.ID)
}

func TestExpiredAccessTokenIsRefreshed(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)
	before, _ := f.store.Value(tokenstore.KeyRefreshToken)

	shiftClock(t, time.Hour, 0)

	resp, err := f.client.Get(context.Background(), mockapi.RouteProfile)
	require.NoError(t, err)
	require.Equal(t, 200, resp.Status)

	after, _ := f.store.Value(tokenstore.KeyRefreshToken)
	require.NotEqual(t, before, after)
	require.True(t, f.service.IsAuthenticated())
	require.Empty(t, f.logoutEvents())
}

func TestSessionExpiryLogsOut(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	shiftClock(t, time.Hour, 8*24*time.Hour)

	_, err := f.client.Get(context.Background(), mockapi.RouteProfile)
	require.True(t, session.IsKind(err, session.AuthenticationFailed))
	require.ErrorIs(t, err, apperrors.ErrSessionExpired)

	require.False(t, f.service.IsAuthenticated())
	events := f.logoutEvents()
	require.Len(t, events, 1)
	require.Equal(t, auth.LogoutSessionExpired, events[0].Reason)
	require.ErrorIs(t, events[0].Err, apperrors.ErrRefreshFailed)

	for _, key := range []string{tokenstore.KeyAccessToken, tokenstore.KeyRefreshToken, tokenstore.KeyUserInfo} {
		_, ok := f.store.Value(key)
		require.False(t, ok, key)
	}
}

func TestUpdateUser(t *testing.T) {
	f := setupTestFixture(t)
	f.login(t)

	user := f.service.CurrentUser()
	user.Bio = "changed"
	require.Equal(t, "", f.service.CurrentUser().Bio)

	require.NoError(t, f.service.UpdateUser(context.Background(), user))
	require.Equal(t, "changed", f.service.CurrentUser().Bio)
	info, _ := f.store.Value(tokenstore.KeyUserInfo)
	require.Contains(t, info, `"bio":"changed"`)
}
