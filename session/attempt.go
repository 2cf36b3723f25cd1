package session

import (
	"context"
	"net/http"
	"time"
)

// attempt describes one submission of a call. It is passed by value; every
// retry derives a new record instead of flagging a shared request.
type attempt struct {
	requestID   string
	method      string
	path        string
	retries     int
	authRetried bool
}

func newAttempt(requestID, method, path string) attempt {
	return attempt{
		requestID: requestID,
		method:    method,
		path:      path,
	}
}

func (a attempt) nextRetry() attempt {
	a.retries++
	return a
}

func (a attempt) withAuthRetry() attempt {
	a.authRetried = true
	return a
}

// canRetryTransient reports whether a network or server failure on this
// attempt may be resubmitted. Only GET is idempotent enough to resend blindly.
func (a attempt) canRetryTransient(cfg callConfig, maxRetries int) bool {
	return a.method == http.MethodGet && !cfg.noRetry && a.retries < maxRetries
}

// backoffDelay is min(base * 2^(retry-1), ceiling) for the 1-based retry.
func backoffDelay(base, ceiling time.Duration, retry int) time.Duration {
	if retry < 1 {
		retry = 1
	}
	delay := base
	for i := 1; i < retry; i++ {
		delay *= 2
		if delay >= ceiling {
			return ceiling
		}
	}
	if delay > ceiling {
		return ceiling
	}
	return delay
}

// sleepContext waits for d or until ctx is done.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
