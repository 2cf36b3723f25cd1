package session

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/jrsteele09/go-nightlife-client/tokenstore"
)

type callKey struct{}

func withCall(ctx context.Context, cfg callConfig) context.Context {
	return context.WithValue(ctx, callKey{}, cfg.skipAuth)
}

func skipsAuth(ctx context.Context) bool {
	skip, _ := ctx.Value(callKey{}).(bool)
	return skip
}

// localError marks a failure that happened on this device before anything was
// sent. It is returned to the caller unchanged and never retried.
type localError struct {
	err error
}

func (e *localError) Error() string {
	return e.err.Error()
}

func (e *localError) Unwrap() error {
	return e.err
}

// attachCredentials runs before every request the transport sends.
func (c *Client) attachCredentials(_ *resty.Client, r *resty.Request) error {
	if err := c.ensureLoaded(r.Context()); err != nil {
		return &localError{err: fmt.Errorf("[session attachCredentials] loading credentials: %w", err)}
	}

	c.mu.RLock()
	access, csrf := c.creds.AccessToken, c.csrfToken
	c.mu.RUnlock()

	r.Header.Del(headerAuthorization)
	if access != "" && !skipsAuth(r.Context()) {
		r.Header.Set(headerAuthorization, "Bearer "+access)
	}

	// GET never carries the CSRF token, whatever the caller asked for.
	r.Header.Del(headerCSRF)
	if r.Method != http.MethodGet && csrf != "" {
		r.Header.Set(headerCSRF, csrf)
	}
	return nil
}

// captureCSRF runs on every response that arrived, whatever its status.
func (c *Client) captureCSRF(_ *resty.Client, resp *resty.Response) error {
	token := resp.Header().Get(headerCSRF)
	if token == "" {
		token = resp.Header().Get(headerCSRFAlt)
	}
	if token == "" {
		return nil
	}

	c.mu.Lock()
	changed := token != c.csrfToken
	c.csrfToken = token
	c.mu.Unlock()
	if !changed {
		return nil
	}

	if err := c.store.SetItem(resp.Request.Context(), tokenstore.KeyCSRFToken, token); err != nil {
		c.log.Warn().Err(err).Msg("persisting csrf token failed")
	}
	return nil
}

// ensureLoaded reads the persisted tokens once per process. Values chosen
// since start up win over what the store holds.
func (c *Client) ensureLoaded(ctx context.Context) error {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return nil
	}

	values, err := c.store.MultiGet(ctx, tokenstore.KeyAccessToken, tokenstore.KeyRefreshToken, tokenstore.KeyCSRFToken)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.loaded {
		return nil
	}
	if !c.accessSet {
		c.creds.AccessToken = values[tokenstore.KeyAccessToken]
	}
	if !c.refreshSet {
		c.creds.RefreshToken = values[tokenstore.KeyRefreshToken]
	}
	if c.csrfToken == "" {
		c.csrfToken = values[tokenstore.KeyCSRFToken]
	}
	c.loaded = true
	return nil
}

func (c *Client) persist(ctx context.Context, creds Credentials) error {
	set := map[string]string{}
	var remove []string
	for key, value := range map[string]string{
		tokenstore.KeyAccessToken:  creds.AccessToken,
		tokenstore.KeyRefreshToken: creds.RefreshToken,
	} {
		if value == "" {
			remove = append(remove, key)
			continue
		}
		set[key] = value
	}

	if len(set) > 0 {
		if err := c.store.MultiSet(ctx, set); err != nil {
			return fmt.Errorf("[session persist] storing tokens: %w", err)
		}
	}
	if len(remove) > 0 {
		if err := c.store.MultiRemove(ctx, remove...); err != nil {
			return fmt.Errorf("[session persist] removing tokens: %w", err)
		}
	}
	return nil
}

func (c *Client) apply(creds Credentials) {
	c.mu.Lock()
	c.creds = creds
	c.accessSet = true
	c.refreshSet = true
	c.mu.Unlock()
}

func (c *Client) isRefreshPath(path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	return strings.HasSuffix(strings.TrimSuffix(path, "/"), strings.TrimSuffix(c.refreshPath, "/"))
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}
