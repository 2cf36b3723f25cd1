// Package auth owns the signed in user. It logs in and out through the
// session client and turns session expiry into a local logout.
package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/bytedance/sonic"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
	"github.com/jrsteele09/go-nightlife-client/model"
	"github.com/jrsteele09/go-nightlife-client/session"
	"github.com/jrsteele09/go-nightlife-client/tokenstore"
	"github.com/jrsteele09/go-nightlife-client/users"
	"github.com/rs/zerolog"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const (
	LoginPath    = "/api/auth/login/"
	RegisterPath = "/api/auth/register/"
	LogoutPath   = "/api/auth/logout/"

	TopicLoggedOut = "auth:logged_out"
)

type LogoutReason string

const (
	LogoutRequested      LogoutReason = "requested"
	LogoutSessionExpired LogoutReason = "session_expired"
)

// LogoutEvent is published whenever the signed in user goes away.
type LogoutEvent struct {
	Reason LogoutReason
	Err    error
	At     time.Time
}

// Credentials sign a user in. Either Email or Username identifies the account.
type Credentials = model.LoginRequest

type Registration = model.RegisterRequest

// RestoreResult describes the session found in the token store at start up.
type RestoreResult struct {
	User          *users.User
	Authenticated bool
	// AccessExpired means the first authenticated call will refresh.
	AccessExpired bool
}

type Service struct {
	client    *session.Client
	store     tokenstore.Store
	validator *Validator
	bus       evbus.Bus
	log       zerolog.Logger

	mu            sync.RWMutex
	user          *users.User
	authenticated bool
}

type Option func(*Service)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Service) {
		s.log = logger
	}
}

// NewService wires the service to client's session expired event.
func NewService(client *session.Client, store tokenstore.Store, options ...Option) (*Service, error) {
	s := &Service{
		client:    client,
		store:     store,
		validator: NewValidator(),
		bus:       evbus.New(),
		log:       zerolog.Nop(),
	}
	for _, opt := range options {
		opt(s)
	}

	if err := client.OnSessionExpired(s.sessionExpired); err != nil {
		return nil, fmt.Errorf("[Service NewService] subscribing to session expiry: %w", err)
	}
	return s, nil
}

// OnLogout registers fn to run after every logout, requested or forced.
func (s *Service) OnLogout(fn func(LogoutEvent)) error {
	return s.bus.Subscribe(TopicLoggedOut, fn)
}

func (s *Service) Login(ctx context.Context, creds Credentials) (*users.User, error) {
	if err := s.validator.ValidateCredentials(creds); err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, LoginPath, creds, session.WithoutAuth())
	if err != nil {
		if session.IsKind(err, session.AuthenticationFailed) {
			return nil, fmt.Errorf("%w: %w", apperrors.ErrInvalidCredentials, err)
		}
		return nil, err
	}

	var out model.TokenPair
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("[Service Login] decoding response: %w", err)
	}
	if out.Access == "" || out.Refresh == "" {
		return nil, ErrNoTokensReturned
	}
	if out.User == nil {
		out.User = &users.User{Email: creds.Email, Username: creds.Username}
	}

	if err := s.establish(ctx, out); err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", out.User.ID).Msg("logged in")
	return s.CurrentUser(), nil
}

// Register creates an account. When the backend answers with tokens the new
// user is signed in straight away.
func (s *Service) Register(ctx context.Context, reg Registration) (*users.User, error) {
	if err := s.validator.ValidateRegistration(reg); err != nil {
		return nil, err
	}

	resp, err := s.client.Post(ctx, RegisterPath, reg, session.WithoutAuth())
	if err != nil {
		return nil, err
	}

	var out model.TokenPair
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("[Service Register] decoding response: %w", err)
	}
	if out.User == nil {
		var u users.User
		if err := resp.Decode(&u); err != nil {
			return nil, fmt.Errorf("[Service Register] decoding user: %w", err)
		}
		out.User = &u
	}

	if out.Access == "" || out.Refresh == "" {
		s.log.Info().Int64("user_id", out.User.ID).Msg("registered, login required")
		return out.User, nil
	}
	if err := s.establish(ctx, out); err != nil {
		return nil, err
	}
	s.log.Info().Int64("user_id", out.User.ID).Msg("registered and logged in")
	return s.CurrentUser(), nil
}

// Logout tells the backend to forget the refresh token and revoke the current
// access token when it can, then clears everything stored locally. Local state is cleared even when the
// backend is unreachable.
func (s *Service) Logout(ctx context.Context) error {
	creds, err := s.client.Credentials(ctx)
	if err == nil && creds.RefreshToken != "" {
		_, perr := s.client.Post(ctx, LogoutPath, model.RefreshRequest{Refresh: creds.RefreshToken},
			session.WithoutAuthRetry(), session.WithoutRetry())
		if perr != nil {
			s.log.Warn().Err(perr).Msg("server side logout failed")
		}
	}

	err = errors.Join(
		s.client.ClearCredentials(ctx),
		s.store.MultiRemove(ctx, tokenstore.KeyUserInfo, tokenstore.KeyLegacyUser),
	)
	s.signOut(LogoutRequested, nil)
	if err != nil {
		return fmt.Errorf("[Service Logout] clearing local session: %w", err)
	}
	return nil
}

// Restore loads the stored user and tokens at start up.
func (s *Service) Restore(ctx context.Context) (RestoreResult, error) {
	creds, err := s.client.Credentials(ctx)
	if err != nil {
		return RestoreResult{}, fmt.Errorf("[Service Restore] loading credentials: %w", err)
	}
	if creds.AccessToken == "" && creds.RefreshToken == "" {
		return RestoreResult{}, nil
	}

	user, err := s.loadUser(ctx)
	if err != nil {
		return RestoreResult{}, err
	}

	result := RestoreResult{User: user, Authenticated: true}
	if creds.AccessToken == "" {
		result.AccessExpired = true
	} else if claims, err := ParseAccessToken(creds.AccessToken); err != nil {
		s.log.Warn().Err(err).Msg("stored access token unreadable")
		result.AccessExpired = true
	} else {
		result.AccessExpired = claims.Expired(NowTimeFunc())
		if user == nil {
			user = &users.User{ID: claims.UserID, Username: claims.Username}
			result.User = user
		}
	}

	s.mu.Lock()
	s.user = user
	s.authenticated = true
	s.mu.Unlock()
	return result, nil
}

// CurrentUser returns a copy of the signed in user or nil.
func (s *Service) CurrentUser() *users.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

// UpdateUser replaces the cached user, for example after a profile edit.
func (s *Service) UpdateUser(ctx context.Context, user *users.User) error {
	if err := s.saveUser(ctx, user); err != nil {
		return err
	}
	s.mu.Lock()
	u := *user
	s.user = &u
	s.mu.Unlock()
	return nil
}

func (s *Service) establish(ctx context.Context, out model.TokenPair) error {
	if err := s.saveUser(ctx, out.User); err != nil {
		return err
	}
	if err := s.client.SetCredentials(ctx, session.Credentials{AccessToken: out.Access, RefreshToken: out.Refresh}); err != nil {
		return fmt.Errorf("[Service establish] storing tokens: %w", err)
	}
	if err := s.store.RemoveItem(ctx, tokenstore.KeyLegacyUser); err != nil && !errors.Is(err, tokenstore.ErrNotFound) {
		s.log.Warn().Err(err).Msg("removing legacy user record failed")
	}

	u := *out.User
	s.mu.Lock()
	s.user = &u
	s.authenticated = true
	s.mu.Unlock()
	return nil
}

func (s *Service) saveUser(ctx context.Context, user *users.User) error {
	data, err := sonic.MarshalString(user)
	if err != nil {
		return fmt.Errorf("[Service saveUser] encoding user: %w", err)
	}
	if err := s.store.SetItem(ctx, tokenstore.KeyUserInfo, data); err != nil {
		return fmt.Errorf("[Service saveUser] storing user: %w", err)
	}
	return nil
}

// loadUser reads user_info, falling back to the key older builds used.
func (s *Service) loadUser(ctx context.Context) (*users.User, error) {
	values, err := s.store.MultiGet(ctx, tokenstore.KeyUserInfo, tokenstore.KeyLegacyUser)
	if err != nil {
		return nil, fmt.Errorf("[Service loadUser] reading user: %w", err)
	}
	data, ok := values[tokenstore.KeyUserInfo]
	if !ok {
		data, ok = values[tokenstore.KeyLegacyUser]
	}
	if !ok || data == "" {
		return nil, nil
	}

	var u users.User
	if err := sonic.UnmarshalString(data, &u); err != nil {
		s.log.Warn().Err(err).Msg("stored user unreadable, ignoring")
		return nil, nil
	}
	return &u, nil
}

// sessionExpired runs on the session client's bus after a failed refresh. The
// tokens are already gone; the user record goes too.
func (s *Service) sessionExpired(e session.SessionExpiredEvent) {
	ctx := context.Background()
	if err := s.store.MultiRemove(ctx, tokenstore.KeyUserInfo, tokenstore.KeyLegacyUser); err != nil {
		s.log.Warn().Err(err).Msg("removing user after session expiry failed")
	}
	s.signOut(LogoutSessionExpired, e.Reason)
}

func (s *Service) signOut(reason LogoutReason, cause error) {
	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()

	s.log.Info().Str("reason", string(reason)).Msg("logged out")
	s.bus.Publish(TopicLoggedOut, LogoutEvent{
		Reason: reason,
		Err:    cause,
		At:     NowTimeFunc(),
	})
}
