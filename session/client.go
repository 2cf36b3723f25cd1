// Package session is the single outbound path to the nightlife REST API. It
// attaches bearer and CSRF credentials, refreshes an expired access token once
// per failing call, retries idempotent reads with capped exponential backoff
// and returns every terminal failure as an *Error.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	evbus "github.com/asaskevich/EventBus"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-nightlife-client/internal/config"
	"github.com/jrsteele09/go-nightlife-client/tokenstore"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

const (
	headerAuthorization = "Authorization"
	headerCSRF          = "X-CSRFToken"
	headerCSRFAlt       = "X-CSRF-Token"
	headerRequestID     = "X-Request-ID"
)

// Credentials are the bearer and refresh tokens of the signed in user.
type Credentials struct {
	AccessToken  string
	RefreshToken string
}

// Response is a successful reply. Data is the raw body, usually JSON.
type Response struct {
	Status int
	Data   json.RawMessage
	Header http.Header
}

// Decode unmarshals the body into v. An empty body leaves v untouched.
func (r *Response) Decode(v any) error {
	if len(r.Data) == 0 {
		return nil
	}
	return sonic.Unmarshal(r.Data, v)
}

type Client struct {
	http        *resty.Client
	store       tokenstore.Store
	log         zerolog.Logger
	bus         evbus.Bus
	metrics     *Metrics
	refreshPath string
	maxRetries  int
	backoff     time.Duration
	maxBackoff  time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
	refreshes   singleflight.Group

	mu         sync.RWMutex
	creds      Credentials
	csrfToken  string
	loaded     bool
	accessSet  bool // access token chosen after start up; the store copy is stale
	refreshSet bool
}

type Option func(*Client)

func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.http.SetBaseURL(baseURL)
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.http.SetTimeout(timeout)
	}
}

// WithTransport replaces the HTTP round tripper underneath the client.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) {
		c.http.SetTransport(rt)
	}
}

func WithMaxRetries(maxRetries int) Option {
	return func(c *Client) {
		c.maxRetries = maxRetries
	}
}

func WithBackoff(base, ceiling time.Duration) Option {
	return func(c *Client) {
		c.backoff = base
		c.maxBackoff = ceiling
	}
}

// WithSleepFunc replaces the backoff wait.
func WithSleepFunc(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(c *Client) {
		c.sleep = sleep
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(c *Client) {
		c.metrics = metrics
	}
}

// WithEventBus shares an application bus for session events.
func WithEventBus(bus evbus.Bus) Option {
	return func(c *Client) {
		c.bus = bus
	}
}

func New(cfg config.ClientConfig, store tokenstore.Store, options ...Option) *Client {
	c := &Client{
		http:        resty.New(),
		store:       store,
		log:         zerolog.Nop(),
		bus:         evbus.New(),
		refreshPath: cfg.GetRefreshPath(),
		maxRetries:  cfg.GetMaxRetries(),
		backoff:     cfg.GetRetryBackoff(),
		maxBackoff:  cfg.GetMaxRetryBackoff(),
		sleep:       sleepContext,
	}

	c.http.
		SetBaseURL(cfg.GetAPIBaseURL()).
		SetTimeout(cfg.GetRequestTimeout()).
		SetHeader("Accept", "application/json").
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal).
		OnBeforeRequest(c.attachCredentials).
		OnAfterResponse(c.captureCSRF)

	for _, opt := range options {
		opt(c)
	}

	if c.metrics == nil {
		c.metrics = NewMetrics(nil)
	}
	c.http.SetLogger(restyLogger{log: c.log})
	return c
}

type callConfig struct {
	noRetry     bool
	skipAuth    bool
	noAuthRetry bool
	headers  map[string]string
	query    url.Values
}

// RequestOption overrides behaviour for a single call.
type RequestOption func(*callConfig)

// WithoutRetry disables backoff retries for the call.
func WithoutRetry() RequestOption {
	return func(cc *callConfig) {
		cc.noRetry = true
	}
}

// WithoutAuth sends the call without a bearer token and never refreshes on a
// 401. Login and registration use it so bad credentials are not mistaken for
// an expired session.
func WithoutAuth() RequestOption {
	return func(cc *callConfig) {
		cc.skipAuth = true
	}
}

// WithoutAuthRetry still sends the bearer token but treats a 401 as final.
// Logout uses it so the backend can revoke the token it was sent.
func WithoutAuthRetry() RequestOption {
	return func(cc *callConfig) {
		cc.noAuthRetry = true
	}
}

func WithHeader(key, value string) RequestOption {
	return func(cc *callConfig) {
		if cc.headers == nil {
			cc.headers = make(map[string]string)
		}
		cc.headers[key] = value
	}
}

func WithQuery(key, value string) RequestOption {
	return func(cc *callConfig) {
		if cc.query == nil {
			cc.query = url.Values{}
		}
		cc.query.Add(key, value)
	}
}

func (c *Client) Get(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodGet, path, nil, opts)
}

func (c *Client) Post(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPost, path, body, opts)
}

func (c *Client) Put(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPut, path, body, opts)
}

func (c *Client) Patch(ctx context.Context, path string, body any, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodPatch, path, body, opts)
}

func (c *Client) Delete(ctx context.Context, path string, opts ...RequestOption) (*Response, error) {
	return c.do(ctx, http.MethodDelete, path, nil, opts)
}

// SetAuthToken makes every later request carry "Authorization: Bearer token".
// An empty token removes the header. Only the in-memory copy changes.
func (c *Client) SetAuthToken(token string) {
	c.mu.Lock()
	c.creds.AccessToken = token
	c.accessSet = true
	c.mu.Unlock()
}

// ClearAuthToken is SetAuthToken("").
func (c *Client) ClearAuthToken() {
	c.SetAuthToken("")
}

// SetCredentials persists creds and then makes them current. Nothing changes
// in memory when the store write fails.
func (c *Client) SetCredentials(ctx context.Context, creds Credentials) error {
	if err := c.persist(ctx, creds); err != nil {
		return err
	}
	c.apply(creds)
	return nil
}

// ClearCredentials forgets the tokens in memory and removes them from the
// store. Memory is cleared even when the store fails.
func (c *Client) ClearCredentials(ctx context.Context) error {
	c.apply(Credentials{})
	c.mu.Lock()
	c.csrfToken = ""
	c.mu.Unlock()

	err := c.store.MultiRemove(ctx, tokenstore.KeyAccessToken, tokenstore.KeyRefreshToken, tokenstore.KeyCSRFToken)
	if err != nil {
		return fmt.Errorf("[session ClearCredentials] removing stored tokens: %w", err)
	}
	return nil
}

// Credentials returns the current tokens, reading the store the first time.
func (c *Client) Credentials(ctx context.Context) (Credentials, error) {
	if err := c.ensureLoaded(ctx); err != nil {
		return Credentials{}, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.creds, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, opts []RequestOption) (*Response, error) {
	var cfg callConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	at := newAttempt(uuid.NewString(), method, path)
	for {
		resp, sentToken, err := c.send(ctx, at, body, cfg)

		var local *localError
		if errors.As(err, &local) {
			return nil, local.err
		}

		if err != nil {
			if ctx.Err() == nil && at.canRetryTransient(cfg, c.maxRetries) {
				next, werr := c.backoffRetry(ctx, at, err)
				if werr == nil {
					at = next
					continue
				}
				err = errors.Join(err, werr)
			}
			return nil, c.fail(at, networkFailure(err))
		}

		if !resp.IsError() {
			return &Response{
				Status: resp.StatusCode(),
				Data:   json.RawMessage(resp.Body()),
				Header: resp.Header(),
			}, nil
		}

		failure := &StatusError{
			Method: method,
			Path:   path,
			Status: resp.StatusCode(),
			Body:   resp.Body(),
		}

		if failure.Status == http.StatusUnauthorized && c.canRetryAuth(at, cfg) {
			at = at.withAuthRetry()
			if rerr := c.recoverAuth(ctx, sentToken); rerr != nil {
				if errors.As(rerr, &local) {
					return nil, local.err
				}
				return nil, c.fail(at, authFailure(failure, rerr))
			}
			continue
		}

		if failure.Status >= http.StatusInternalServerError && at.canRetryTransient(cfg, c.maxRetries) {
			if next, werr := c.backoffRetry(ctx, at, failure); werr == nil {
				at = next
				continue
			}
		}

		return nil, c.fail(at, statusFailure(failure))
	}
}

func (c *Client) send(ctx context.Context, at attempt, body any, cfg callConfig) (*resty.Response, string, error) {
	req := c.http.R().
		SetContext(withCall(ctx, cfg)).
		SetHeader(headerRequestID, at.requestID)
	for k, v := range cfg.headers {
		req.SetHeader(k, v)
	}
	if len(cfg.query) > 0 {
		req.SetQueryParamsFromValues(cfg.query)
	}
	if body != nil {
		req.SetBody(body)
	}

	c.metrics.Attempts.WithLabelValues(at.method).Inc()
	c.log.Debug().
		Str("request_id", at.requestID).
		Str("method", at.method).
		Str("path", at.path).
		Int("retry", at.retries).
		Bool("auth_retry", at.authRetried).
		Msg("sending request")

	resp, err := req.Execute(at.method, at.path)
	return resp, bearerToken(req.Header.Get(headerAuthorization)), err
}

func (c *Client) canRetryAuth(at attempt, cfg callConfig) bool {
	return !at.authRetried && !cfg.skipAuth && !cfg.noAuthRetry && !c.isRefreshPath(at.path)
}

func (c *Client) backoffRetry(ctx context.Context, at attempt, cause error) (attempt, error) {
	next := at.nextRetry()
	delay := backoffDelay(c.backoff, c.maxBackoff, next.retries)

	c.metrics.Retries.Inc()
	c.log.Debug().
		Err(cause).
		Str("request_id", at.requestID).
		Int("retry", next.retries).
		Dur("delay", delay).
		Msg("retrying request")

	if err := c.sleep(ctx, delay); err != nil {
		return at, err
	}
	return next, nil
}

func (c *Client) fail(at attempt, e *Error) *Error {
	c.metrics.Failures.WithLabelValues(string(e.Kind)).Inc()
	c.log.Debug().
		Err(e.Cause).
		Str("request_id", at.requestID).
		Str("method", at.method).
		Str("path", at.path).
		Str("kind", string(e.Kind)).
		Int("status", e.Status).
		Msg("request failed")
	return e
}

// authFailure reports a 401 that could not be recovered. The backend's own
// wording for the rejected token is replaced by the session message.
func authFailure(failure *StatusError, reason error) *Error {
	e := statusFailure(failure)
	e.Kind = AuthenticationFailed
	e.Message = defaultMessages[AuthenticationFailed]
	e.Cause = errors.Join(failure, reason)
	return e
}

type restyLogger struct {
	log zerolog.Logger
}

func (l restyLogger) Errorf(format string, v ...interface{}) {
	l.log.Error().Msgf(format, v...)
}

func (l restyLogger) Warnf(format string, v ...interface{}) {
	l.log.Warn().Msgf(format, v...)
}

func (l restyLogger) Debugf(format string, v ...interface{}) {
	l.log.Debug().Msgf(format, v...)
}
