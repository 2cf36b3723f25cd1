package mockapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/jrsteele09/go-nightlife-client/mockapi"
	"github.com/jrsteele09/go-nightlife-client/mockapi/mockapitest"
	"github.com/jrsteele09/go-nightlife-client/model"
	"github.com/jrsteele09/go-nightlife-client/token/jwt"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	backend *mockapitest.Backend
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	return &testFixture{backend: mockapitest.New(t)}
}

type reply struct {
	status int
	header http.Header
	body   []byte
}

func (r reply) decode(t *testing.T, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(r.body, v), string(r.body))
}

func (r reply) detail(t *testing.T) string {
	t.Helper()
	var body map[string]any
	r.decode(t, &body)
	msg, _ := body["detail"].(string)
	return msg
}

// call sends a request. Mutating requests carry the CSRF token unless
// noCSRF is set.
func (f *testFixture) call(t *testing.T, method, path, access string, body any, noCSRF ...bool) reply {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req, err := http.NewRequest(method, f.backend.URL+path, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if access != "" {
		req.Header.Set("Authorization", "Bearer "+access)
	}
	if method != http.MethodGet && len(noCSRF) == 0 {
		req.Header.Set("X-CSRFToken", f.backend.API.CSRFToken())
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out bytes.Buffer
	_, err = out.ReadFrom(resp.Body)
	require.NoError(t, err)
	return reply{status: resp.StatusCode, header: resp.Header, body: out.Bytes()}
}

func (f *testFixture) login(t *testing.T, email string) model.TokenPair {
	t.Helper()
	r := f.call(t, http.MethodPost, mockapi.RouteLogin, "", model.LoginRequest{Email: email, Password: mockapitest.DefaultPassword})
	require.Equal(t, http.StatusOK, r.status, string(r.body))
	var pair model.TokenPair
	r.decode(t, &pair)
	return pair
}

func TestLogin(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.AddUser(t, "ana@example.com", "ana")

	pair := f.login(t, "ana@example.com")
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)
	require.NotNil(t, pair.User)
	require.Equal(t, "ana", pair.User.Username)

	// Username works as well as email.
	r := f.call(t, http.MethodPost, mockapi.RouteLogin, "", model.LoginRequest{Username: "ana", Password: mockapitest.DefaultPassword})
	require.Equal(t, http.StatusOK, r.status)

	r = f.call(t, http.MethodPost, mockapi.RouteLogin, "", model.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	require.Equal(t, http.StatusUnauthorized, r.status)
	require.Equal(t, "No active account found with the given credentials", r.detail(t))

	r = f.call(t, http.MethodPost, mockapi.RouteLogin, "", model.LoginRequest{})
	require.Equal(t, http.StatusBadRequest, r.status)
	var errs map[string][]string
	r.decode(t, &errs)
	require.Contains(t, errs, "email")
	require.Contains(t, errs, "password")
}

func TestRegister(t *testing.T) {
	f := setupTestFixture(t)

	r := f.call(t, http.MethodPost, mockapi.RouteRegister, "", model.RegisterRequest{
		Email:           "bo@example.com",
		Username:        "bo",
		Password:        "Dancing2024",
		PasswordConfirm: "Dancing2024",
		FirstName:       "Bo",
	})
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
	var pair model.TokenPair
	r.decode(t, &pair)
	require.NotEmpty(t, pair.Access)
	require.Equal(t, "Bo", pair.User.FirstName)

	r = f.call(t, http.MethodPost, mockapi.RouteRegister, "", model.RegisterRequest{
		Email:    "bo@example.com",
		Username: "bo",
		Password: "Dancing2024",
	})
	require.Equal(t, http.StatusBadRequest, r.status)

	r = f.call(t, http.MethodPost, mockapi.RouteRegister, "", model.RegisterRequest{
		Email:           "not-an-email",
		Username:        "cy",
		Password:        "short",
		PasswordConfirm: "different",
	})
	require.Equal(t, http.StatusBadRequest, r.status)
	var errs map[string][]string
	r.decode(t, &errs)
	require.Equal(t, []string{"Enter a valid email address."}, errs["email"])
	require.Contains(t, errs["password"], "This password is too short. It must contain at least 8 characters.")
	require.Equal(t, []string{"Password fields didn't match."}, errs["password2"])
}

func TestRefreshRotates(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.AddUser(t, "ana@example.com", "ana")
	pair := f.login(t, "ana@example.com")

	r := f.call(t, http.MethodPost, mockapi.RouteRefresh, "", model.RefreshRequest{Refresh: pair.Refresh})
	require.Equal(t, http.StatusOK, r.status)
	var next model.TokenPair
	r.decode(t, &next)
	require.NotEmpty(t, next.Access)
	require.NotEqual(t, pair.Refresh, next.Refresh)

	// The rotated token is spent.
	r = f.call(t, http.MethodPost, mockapi.RouteRefresh, "", model.RefreshRequest{Refresh: pair.Refresh})
	require.Equal(t, http.StatusUnauthorized, r.status)
	require.Contains(t, string(r.body), "token_not_valid")

	r = f.call(t, http.MethodGet, mockapi.RouteProfile, next.Access, nil)
	require.Equal(t, http.StatusOK, r.status)
}

func TestRefreshRequiresToken(t *testing.T) {
	f := setupTestFixture(t)
	r := f.call(t, http.MethodPost, mockapi.RouteRefresh, "", model.RefreshRequest{})
	require.Equal(t, http.StatusBadRequest, r.status)
}

func TestLogoutRevokesTokens(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.AddUser(t, "ana@example.com", "ana")
	pair := f.login(t, "ana@example.com")

	r := f.call(t, http.MethodPost, mockapi.RouteLogout, pair.Access, model.RefreshRequest{Refresh: pair.Refresh})
	require.Equal(t, http.StatusResetContent, r.status)

	r = f.call(t, http.MethodGet, mockapi.RouteProfile, pair.Access, nil)
	require.Equal(t, http.StatusUnauthorized, r.status)

	r = f.call(t, http.MethodPost, mockapi.RouteRefresh, "", model.RefreshRequest{Refresh: pair.Refresh})
	require.Equal(t, http.StatusUnauthorized, r.status)
}

func TestAuthenticationRequired(t *testing.T) {
	f := setupTestFixture(t)

	r := f.call(t, http.MethodGet, mockapi.RouteVenues, "", nil)
	require.Equal(t, http.StatusUnauthorized, r.status)
	require.Equal(t, "Authentication credentials were not provided.", r.detail(t))

	r = f.call(t, http.MethodGet, mockapi.RouteVenues, "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, r.status)
	require.Contains(t, string(r.body), "token_not_valid")
}

func TestExpiredAccessToken(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.AddUser(t, "ana@example.com", "ana")
	pair := f.login(t, "ana@example.com")

	jwt.NowTimeFunc = func() time.Time { return time.Now().Add(time.Hour) }
	t.Cleanup(func() { jwt.NowTimeFunc = time.Now })

	r := f.call(t, http.MethodGet, mockapi.RouteProfile, pair.Access, nil)
	require.Equal(t, http.StatusUnauthorized, r.status)
	require.Equal(t, "Given token not valid for any token type", r.detail(t))
}

func TestCSRF(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.AddUser(t, "ana@example.com", "ana")
	pair := f.login(t, "ana@example.com")

	r := f.call(t, http.MethodGet, mockapi.RouteVenues, pair.Access, nil)
	require.Equal(t, http.StatusOK, r.status)
	require.Equal(t, f.backend.API.CSRFToken(), r.header.Get("X-CSRFToken"))

	body := map[string]any{"venue": 1}
	r = f.call(t, http.MethodPost, mockapi.RouteCheckins, pair.Access, body, true)
	require.Equal(t, http.StatusForbidden, r.status)
	require.Equal(t, "CSRF Failed: CSRF token missing or incorrect.", r.detail(t))

	r = f.call(t, http.MethodPost, mockapi.RouteCheckins, pair.Access, body)
	require.Equal(t, http.StatusCreated, r.status, string(r.body))
}

func TestCSRFDisabled(t *testing.T) {
	backend := mockapitest.NewWithSettings(t, mockapitest.Settings{})
	backend.AddUser(t, "ana@example.com", "ana")
	f := &testFixture{backend: backend}
	pair := f.login(t, "ana@example.com")

	r := f.call(t, http.MethodPost, mockapi.RouteCheckins, pair.Access, map[string]any{"venue": 1}, true)
	require.Equal(t, http.StatusCreated, r.status)
}

func TestRequestIDEchoed(t *testing.T) {
	f := setupTestFixture(t)
	req, err := http.NewRequest(http.MethodGet, f.backend.URL+mockapi.RouteVenues, nil)
	require.NoError(t, err)
	req.Header.Set("X-Request-ID", "abc-123")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, "abc-123", resp.Header.Get("X-Request-ID"))
}

func TestProfile(t *testing.T) {
	f := setupTestFixture(t)
	f.backend.AddUser(t, "ana@example.com", "ana")
	pair := f.login(t, "ana@example.com")

	r := f.call(t, http.MethodPatch, mockapi.RouteProfile, pair.Access, map[string]any{
		"bio":      "Out most weekends",
		"username": "ignored",
	})
	require.Equal(t, http.StatusOK, r.status, string(r.body))

	r = f.call(t, http.MethodGet, mockapi.RouteProfile, pair.Access, nil)
	require.Equal(t, http.StatusOK, r.status)
	var profile map[string]any
	r.decode(t, &profile)
	require.Equal(t, "Out most weekends", profile["bio"])
	require.Equal(t, "ana", profile["username"])
	require.NotContains(t, profile, "PasswordHash")
}
