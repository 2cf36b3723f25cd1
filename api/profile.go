package api

import (
	"context"

	"github.com/jrsteele09/go-nightlife-client/users"
)

const ProfilePath = "/api/profile/"

// ProfileUpdate changes the fields that are set and leaves the rest alone.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar,omitempty"`
}

func (c *Client) Profile(ctx context.Context) (*users.User, error) {
	return get[users.User](ctx, c, ProfilePath, "profile")
}

func (c *Client) UpdateProfile(ctx context.Context, update ProfileUpdate) (*users.User, error) {
	return patch[users.User](ctx, c, ProfilePath, update, "profile")
}
