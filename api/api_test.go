package api_test

import (
	"context"
	"testing"

	"github.com/jrsteele09/go-nightlife-client/api"
	"github.com/jrsteele09/go-nightlife-client/auth"
	"github.com/jrsteele09/go-nightlife-client/internal/config"
	"github.com/jrsteele09/go-nightlife-client/internal/utils"
	"github.com/jrsteele09/go-nightlife-client/mockapi/mockapitest"
	"github.com/jrsteele09/go-nightlife-client/model"
	"github.com/jrsteele09/go-nightlife-client/session"
	"github.com/jrsteele09/go-nightlife-client/tokenstore"
	"github.com/jrsteele09/go-nightlife-client/users"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	backend *mockapitest.Backend
}

func setupTestFixture(t *testing.T) *testFixture {
	t.Helper()
	return &testFixture{backend: mockapitest.New(t)}
}

// signIn creates an account and returns a resource client logged in as it.
func (f *testFixture) signIn(t *testing.T, email, username string) (*api.Client, *users.User) {
	t.Helper()
	user := f.backend.AddUser(t, email, username)

	store := tokenstore.NewMemory()
	client := session.New(config.NewClient(nil), store, session.WithBaseURL(f.backend.URL))
	svc, err := auth.NewService(client, store)
	require.NoError(t, err)
	_, err = svc.Login(context.Background(), auth.Credentials{Email: email, Password: mockapitest.DefaultPassword})
	require.NoError(t, err)
	return api.New(client), user
}

func TestProfile(t *testing.T) {
	f := setupTestFixture(t)
	c, _ := f.signIn(t, "ana@example.com", "ana")
	ctx := context.Background()

	profile, err := c.Profile(ctx)
	require.NoError(t, err)
	require.Equal(t, "ana", profile.Username)

	updated, err := c.UpdateProfile(ctx, api.ProfileUpdate{FirstName: utils.Ptr("Ana"), Bio: utils.Ptr("Techno mostly")})
	require.NoError(t, err)
	require.Equal(t, "Ana", updated.FirstName)
	require.Equal(t, "Techno mostly", updated.Bio)

	// Unset fields stay as they were.
	updated, err = c.UpdateProfile(ctx, api.ProfileUpdate{LastName: utils.Ptr("Silva")})
	require.NoError(t, err)
	require.Equal(t, "Ana", updated.FirstName)
	require.Equal(t, "Silva", updated.LastName)
}

func TestVenues(t *testing.T) {
	f := setupTestFixture(t)
	c, _ := f.signIn(t, "ana@example.com", "ana")
	ctx := context.Background()

	page, err := c.Venues(ctx, api.VenueQuery{Search: "jazz"})
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	venue := page.Results[0]

	page, err = c.Venues(ctx, api.VenueQuery{PageQuery: api.PageQuery{Page: 2, PageSize: 3}})
	require.NoError(t, err)
	require.Equal(t, 4, page.Count)
	require.Len(t, page.Results, 1)
	require.NotEmpty(t, page.Previous)

	got, err := c.Venue(ctx, venue.ID)
	require.NoError(t, err)
	require.Equal(t, venue.Name, got.Name)

	_, err = c.Venue(ctx, 9999)
	require.True(t, session.IsKind(err, session.NotFound))

	vibe, err := c.CurrentVibe(ctx, venue.ID)
	require.NoError(t, err)
	require.Equal(t, model.VibeQuiet, vibe.Level)
}

func TestCheckIns(t *testing.T) {
	f := setupTestFixture(t)
	c, _ := f.signIn(t, "ana@example.com", "ana")
	other, _ := f.signIn(t, "bo@example.com", "bo")
	ctx := context.Background()

	checkIn, err := c.CreateCheckIn(ctx, api.NewCheckIn{VenueID: 1, Comment: "busy", Vibe: model.VibePacked})
	require.NoError(t, err)
	require.NotZero(t, checkIn.ID)

	_, err = c.CreateCheckIn(ctx, api.NewCheckIn{VenueID: 1, Vibe: "wild"})
	require.True(t, session.IsKind(err, session.InvalidRequest))
	var nerr *session.Error
	require.ErrorAs(t, err, &nerr)
	require.Contains(t, nerr.Details, "vibe")

	_, err = other.UpdateCheckIn(ctx, checkIn.ID, api.CheckInUpdate{Comment: utils.Ptr("mine now")})
	require.True(t, session.IsKind(err, session.PermissionDenied))

	updated, err := c.UpdateCheckIn(ctx, checkIn.ID, api.CheckInUpdate{Vibe: utils.Ptr(model.VibeLively)})
	require.NoError(t, err)
	require.Equal(t, model.VibeLively, updated.Vibe)
	require.Equal(t, "busy", updated.Comment)

	mine, err := c.CheckIns(ctx, true, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, mine.Count)
	theirs, err := other.CheckIns(ctx, true, api.PageQuery{})
	require.NoError(t, err)
	require.Zero(t, theirs.Count)

	atVenue, err := other.VenueCheckIns(ctx, 1, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, atVenue.Count)

	require.NoError(t, c.DeleteCheckIn(ctx, checkIn.ID))
	_, err = c.CheckIn(ctx, checkIn.ID)
	require.True(t, session.IsKind(err, session.NotFound))
}

func TestRatings(t *testing.T) {
	f := setupTestFixture(t)
	c, _ := f.signIn(t, "ana@example.com", "ana")
	ctx := context.Background()

	rating, err := c.RateVenue(ctx, api.NewRating{VenueID: 2, Score: 5, Comment: "great band"})
	require.NoError(t, err)
	require.Equal(t, 5, rating.Score)

	_, err = c.RateVenue(ctx, api.NewRating{VenueID: 2, Score: 0})
	require.True(t, session.IsKind(err, session.InvalidRequest))

	mine, err := c.Ratings(ctx, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, mine.Count)

	forVenue, err := c.VenueRatings(ctx, 2, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, forVenue.Count)

	venue, err := c.Venue(ctx, 2)
	require.NoError(t, err)
	require.InDelta(t, 5.0, venue.Rating, 0.001)

	other, _ := f.signIn(t, "bo@example.com", "bo")
	require.True(t, session.IsKind(other.DeleteRating(ctx, rating.ID), session.PermissionDenied))

	require.NoError(t, c.DeleteRating(ctx, rating.ID))
	mine, err = c.Ratings(ctx, api.PageQuery{})
	require.NoError(t, err)
	require.Zero(t, mine.Count)
	require.True(t, session.IsKind(c.DeleteRating(ctx, rating.ID), session.NotFound))
}

func TestSocial(t *testing.T) {
	f := setupTestFixture(t)
	ana, anaUser := f.signIn(t, "ana@example.com", "ana")
	bo, boUser := f.signIn(t, "bo@example.com", "bo")
	ctx := context.Background()

	_, err := ana.SendPing(ctx, api.NewPing{ToUser: boUser.ID})
	require.True(t, session.IsKind(err, session.PermissionDenied))

	fr, err := ana.SendFriendRequest(ctx, boUser.ID)
	require.NoError(t, err)

	pending, err := bo.FriendRequests(ctx, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, pending.Count)

	_, err = ana.AcceptFriendRequest(ctx, fr.ID)
	require.True(t, session.IsKind(err, session.PermissionDenied))
	accepted, err := bo.AcceptFriendRequest(ctx, fr.ID)
	require.NoError(t, err)
	require.Equal(t, model.FriendRequestAccepted, accepted.Status)

	friends, err := ana.Friends(ctx, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, friends.Count)
	require.Equal(t, "bo", friends.Results[0].Username)

	ping, err := ana.SendPing(ctx, api.NewPing{ToUser: boUser.ID, VenueID: 3, Message: "drinks?"})
	require.NoError(t, err)
	require.Equal(t, int64(3), ping.VenueID)

	pings, err := bo.Pings(ctx, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, pings.Count)

	notes, err := bo.Notifications(ctx, true, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 2, notes.Count)

	require.NoError(t, bo.MarkNotificationRead(ctx, notes.Results[0].ID))
	notes, err = bo.Notifications(ctx, true, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 1, notes.Count)

	require.NoError(t, bo.MarkAllNotificationsRead(ctx))
	notes, err = bo.Notifications(ctx, true, api.PageQuery{})
	require.NoError(t, err)
	require.Zero(t, notes.Count)

	all, err := bo.Notifications(ctx, false, api.PageQuery{})
	require.NoError(t, err)
	require.Equal(t, 2, all.Count)

	declined, err := ana.SendFriendRequest(ctx, boUser.ID)
	require.Nil(t, declined)
	require.True(t, session.IsKind(err, session.InvalidRequest))

	require.NoError(t, bo.DeletePing(ctx, ping.ID))
	pings, err = ana.Pings(ctx, api.PageQuery{})
	require.NoError(t, err)
	require.Zero(t, pings.Count)

	require.NoError(t, bo.RemoveFriend(ctx, anaUser.ID))
	friends, err = ana.Friends(ctx, api.PageQuery{})
	require.NoError(t, err)
	require.Zero(t, friends.Count)
	require.True(t, session.IsKind(ana.RemoveFriend(ctx, boUser.ID), session.NotFound))

	// Former friends can start over.
	_, err = ana.SendFriendRequest(ctx, boUser.ID)
	require.NoError(t, err)
}
