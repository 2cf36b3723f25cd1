package api

import (
	"context"

	"github.com/jrsteele09/go-nightlife-client/model"
	"github.com/jrsteele09/go-nightlife-client/session"
)

const (
	VenuesPath   = "/api/venues/"
	CheckInsPath = "/api/checkins/"
	RatingsPath  = "/api/ratings/"
)

type VenueQuery struct {
	PageQuery
	// Search matches venue names and categories.
	Search string
}

type NewCheckIn struct {
	VenueID int64           `json:"venue"`
	Comment string          `json:"comment,omitempty"`
	Vibe    model.VibeLevel `json:"vibe,omitempty"`
}

type CheckInUpdate struct {
	Comment *string          `json:"comment,omitempty"`
	Vibe    *model.VibeLevel `json:"vibe,omitempty"`
}

type NewRating struct {
	VenueID int64  `json:"venue"`
	Score   int    `json:"score"`
	Comment string `json:"comment,omitempty"`
}

func (c *Client) Venues(ctx context.Context, query VenueQuery) (*model.Page[model.Venue], error) {
	opts := query.options()
	if query.Search != "" {
		opts = append(opts, session.WithQuery("search", query.Search))
	}
	return get[model.Page[model.Venue]](ctx, c, VenuesPath, "venues", opts...)
}

func (c *Client) Venue(ctx context.Context, id int64) (*model.Venue, error) {
	return get[model.Venue](ctx, c, resourcePath(VenuesPath, id), "venue")
}

// CurrentVibe summarises the venue's recent check-ins.
func (c *Client) CurrentVibe(ctx context.Context, venueID int64) (*model.Vibe, error) {
	return get[model.Vibe](ctx, c, resourcePath(VenuesPath, venueID, "current-vibe"), "vibe")
}

func (c *Client) VenueCheckIns(ctx context.Context, venueID int64, query PageQuery) (*model.Page[model.CheckIn], error) {
	return get[model.Page[model.CheckIn]](ctx, c, resourcePath(VenuesPath, venueID, "checkins"), "check-ins", query.options()...)
}

func (c *Client) VenueRatings(ctx context.Context, venueID int64, query PageQuery) (*model.Page[model.Rating], error) {
	return get[model.Page[model.Rating]](ctx, c, resourcePath(VenuesPath, venueID, "ratings"), "ratings", query.options()...)
}

// CheckIns lists everyone's check-ins, or only the caller's when mine is set.
func (c *Client) CheckIns(ctx context.Context, mine bool, query PageQuery) (*model.Page[model.CheckIn], error) {
	opts := query.options()
	if mine {
		opts = append(opts, session.WithQuery("mine", "true"))
	}
	return get[model.Page[model.CheckIn]](ctx, c, CheckInsPath, "check-ins", opts...)
}

func (c *Client) CheckIn(ctx context.Context, id int64) (*model.CheckIn, error) {
	return get[model.CheckIn](ctx, c, resourcePath(CheckInsPath, id), "check-in")
}

func (c *Client) CreateCheckIn(ctx context.Context, in NewCheckIn) (*model.CheckIn, error) {
	return post[model.CheckIn](ctx, c, CheckInsPath, in, "check-in")
}

func (c *Client) UpdateCheckIn(ctx context.Context, id int64, update CheckInUpdate) (*model.CheckIn, error) {
	return patch[model.CheckIn](ctx, c, resourcePath(CheckInsPath, id), update, "check-in")
}

func (c *Client) DeleteCheckIn(ctx context.Context, id int64) error {
	_, err := c.session.Delete(ctx, resourcePath(CheckInsPath, id))
	return err
}

// DeleteRating withdraws one of the caller's ratings.
func (c *Client) DeleteRating(ctx context.Context, id int64) error {
	_, err := c.session.Delete(ctx, resourcePath(RatingsPath, id))
	return err
}

// Ratings lists the caller's own ratings.
func (c *Client) Ratings(ctx context.Context, query PageQuery) (*model.Page[model.Rating], error) {
	return get[model.Page[model.Rating]](ctx, c, RatingsPath, "ratings", query.options()...)
}

func (c *Client) RateVenue(ctx context.Context, in NewRating) (*model.Rating, error) {
	return post[model.Rating](ctx, c, RatingsPath, in, "rating")
}
