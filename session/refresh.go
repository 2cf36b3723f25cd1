package session

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bytedance/sonic"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
	"github.com/jrsteele09/go-nightlife-client/tokenstore"
)

const refreshFlight = "refresh"

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// recoverAuth makes a fresh access token current after a 401 on a call that
// was sent with sentToken. Concurrent callers share one refresh request, and a
// caller whose token was already replaced while it was in flight does not
// refresh at all.
func (c *Client) recoverAuth(ctx context.Context, sentToken string) error {
	c.mu.RLock()
	current := c.creds.AccessToken
	c.mu.RUnlock()
	if current != "" && current != sentToken {
		return nil
	}

	// The shared refresh outlives any single caller's cancellation; the
	// transport timeout still bounds it.
	flightCtx := context.WithoutCancel(ctx)
	_, err, shared := c.refreshes.Do(refreshFlight, func() (any, error) {
		return nil, c.refresh(flightCtx)
	})
	if shared {
		c.log.Debug().Err(err).Msg("joined in-flight token refresh")
	}
	return err
}

func (c *Client) refresh(ctx context.Context) error {
	if err := c.ensureLoaded(ctx); err != nil {
		return &localError{err: fmt.Errorf("[session refresh] loading credentials: %w", err)}
	}

	c.mu.RLock()
	refreshToken := c.creds.RefreshToken
	c.mu.RUnlock()
	if refreshToken == "" {
		c.metrics.Refreshes.WithLabelValues("missing").Inc()
		return apperrors.ErrNoRefreshToken
	}

	resp, err := c.http.R().
		SetContext(withCall(ctx, callConfig{skipAuth: true})).
		SetBody(refreshRequest{Refresh: refreshToken}).
		Post(c.refreshPath)
	if err != nil {
		return c.expire(ctx, fmt.Errorf("%w: %w", apperrors.ErrRefreshFailed, err))
	}
	if resp.IsError() {
		return c.expire(ctx, fmt.Errorf("%w: %w", apperrors.ErrRefreshFailed, &StatusError{
			Method: http.MethodPost,
			Path:   c.refreshPath,
			Status: resp.StatusCode(),
			Body:   resp.Body(),
		}))
	}

	var out refreshResponse
	if err := sonic.Unmarshal(resp.Body(), &out); err != nil {
		return c.expire(ctx, fmt.Errorf("%w: decoding response: %w", apperrors.ErrRefreshFailed, err))
	}
	if out.Access == "" {
		return c.expire(ctx, fmt.Errorf("%w: %w", apperrors.ErrRefreshFailed, apperrors.ErrEmptyAccessToken))
	}

	next := Credentials{AccessToken: out.Access, RefreshToken: refreshToken}
	if out.Refresh != "" {
		next.RefreshToken = out.Refresh
	}

	// Persist first: a token that could not be stored is never sent.
	if err := c.persist(ctx, next); err != nil {
		c.metrics.Refreshes.WithLabelValues("persist_failed").Inc()
		return &localError{err: err}
	}
	c.apply(next)

	c.metrics.Refreshes.WithLabelValues("success").Inc()
	c.log.Debug().Bool("rotated", out.Refresh != "").Msg("access token refreshed")
	return nil
}

// expire ends the session after a failed refresh: the tokens are cleared and
// one session expired event is published.
func (c *Client) expire(ctx context.Context, reason error) error {
	c.metrics.Refreshes.WithLabelValues("failed").Inc()

	c.apply(Credentials{})
	if err := c.store.MultiRemove(ctx, tokenstore.KeyAccessToken, tokenstore.KeyRefreshToken); err != nil {
		c.log.Warn().Err(err).Msg("removing expired tokens failed")
	}

	c.log.Warn().Err(reason).Msg("session expired")
	c.publishSessionExpired(reason)
	return fmt.Errorf("%w: %w", apperrors.ErrSessionExpired, reason)
}
