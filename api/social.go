package api

import (
	"context"

	"github.com/jrsteele09/go-nightlife-client/model"
	"github.com/jrsteele09/go-nightlife-client/session"
	"github.com/jrsteele09/go-nightlife-client/users"
)

const (
	FriendsPath        = "/api/friends/"
	FriendRequestsPath = "/api/friend-requests/"
	PingsPath          = "/api/pings/"
	NotificationsPath  = "/api/notifications/"
)

type NewPing struct {
	ToUser  int64  `json:"to_user"`
	VenueID int64  `json:"venue,omitempty"`
	Message string `json:"message,omitempty"`
}

func (c *Client) Friends(ctx context.Context, query PageQuery) (*model.Page[users.User], error) {
	return get[model.Page[users.User]](ctx, c, FriendsPath, "friends", query.options()...)
}

// RemoveFriend ends the friendship with the user friendID.
func (c *Client) RemoveFriend(ctx context.Context, friendID int64) error {
	_, err := c.session.Delete(ctx, resourcePath(FriendsPath, friendID))
	return err
}

// FriendRequests lists pending requests sent to or by the caller.
func (c *Client) FriendRequests(ctx context.Context, query PageQuery) (*model.Page[model.FriendRequest], error) {
	return get[model.Page[model.FriendRequest]](ctx, c, FriendRequestsPath, "friend requests", query.options()...)
}

func (c *Client) SendFriendRequest(ctx context.Context, toUser int64) (*model.FriendRequest, error) {
	return post[model.FriendRequest](ctx, c, FriendRequestsPath, map[string]int64{"to_user": toUser}, "friend request")
}

func (c *Client) AcceptFriendRequest(ctx context.Context, id int64) (*model.FriendRequest, error) {
	return post[model.FriendRequest](ctx, c, resourcePath(FriendRequestsPath, id, "accept"), nil, "friend request")
}

func (c *Client) DeclineFriendRequest(ctx context.Context, id int64) (*model.FriendRequest, error) {
	return post[model.FriendRequest](ctx, c, resourcePath(FriendRequestsPath, id, "decline"), nil, "friend request")
}

func (c *Client) Pings(ctx context.Context, query PageQuery) (*model.Page[model.Ping], error) {
	return get[model.Page[model.Ping]](ctx, c, PingsPath, "pings", query.options()...)
}

func (c *Client) SendPing(ctx context.Context, in NewPing) (*model.Ping, error) {
	return post[model.Ping](ctx, c, PingsPath, in, "ping")
}

func (c *Client) DeletePing(ctx context.Context, id int64) error {
	_, err := c.session.Delete(ctx, resourcePath(PingsPath, id))
	return err
}

func (c *Client) Notifications(ctx context.Context, unreadOnly bool, query PageQuery) (*model.Page[model.Notification], error) {
	opts := query.options()
	if unreadOnly {
		opts = append(opts, session.WithQuery("unread", "true"))
	}
	return get[model.Page[model.Notification]](ctx, c, NotificationsPath, "notifications", opts...)
}

func (c *Client) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := c.session.Post(ctx, resourcePath(NotificationsPath, id, "read"), nil)
	return err
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	_, err := c.session.Post(ctx, NotificationsPath+"read-all/", nil)
	return err
}
