package session

import (
	"time"
)

// TopicSessionExpired is published once per failed refresh.
const TopicSessionExpired = "session:expired"

// SessionExpiredEvent tells the session owner that the credentials were
// cleared because they could not be refreshed.
type SessionExpiredEvent struct {
	Reason error
	At     time.Time
}

// OnSessionExpired registers fn to run after a refresh failed and the
// credentials were cleared. Handlers run synchronously on the goroutine that
// attempted the refresh and must not subscribe or publish on the same bus.
func (c *Client) OnSessionExpired(fn func(SessionExpiredEvent)) error {
	return c.bus.Subscribe(TopicSessionExpired, fn)
}

func (c *Client) publishSessionExpired(reason error) {
	c.bus.Publish(TopicSessionExpired, SessionExpiredEvent{
		Reason: reason,
		At:     NowTimeFunc(),
	})
}
