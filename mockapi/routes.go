package mockapi

import "net/http"

const (
	RouteLogin    = "/api/auth/login/"
	RouteRegister = "/api/auth/register/"
	RouteRefresh  = "/api/auth/token/refresh/"
	RouteLogout   = "/api/auth/logout/"

	RouteProfile = "/api/profile/"

	RouteVenues        = "/api/venues/"
	RouteVenue         = "/api/venues/:id/"
	RouteVenueVibe     = "/api/venues/:id/current-vibe/"
	RouteVenueCheckins = "/api/venues/:id/checkins/"
	RouteVenueRatings  = "/api/venues/:id/ratings/"

	RouteCheckins = "/api/checkins/"
	RouteCheckin  = "/api/checkins/:id/"
	RouteRatings  = "/api/ratings/"
	RouteRating   = "/api/ratings/:id/"

	RouteFriends              = "/api/friends/"
	RouteFriend               = "/api/friends/:id/"
	RouteFriendRequests       = "/api/friend-requests/"
	RouteFriendRequestAccept  = "/api/friend-requests/:id/accept/"
	RouteFriendRequestDecline = "/api/friend-requests/:id/decline/"
	RoutePings                = "/api/pings/"
	RoutePing                 = "/api/pings/:id/"
	RouteNotifications        = "/api/notifications/"
	RouteNotificationRead     = "/api/notifications/:id/read/"
	RouteNotificationsReadAll = "/api/notifications/read-all/"
)

func (s *Server) initRoutes() {
	// Token endpoints authenticate with their body, not a bearer token.
	s.handle(http.MethodPost, RouteLogin, s.LoginHandler())
	s.handle(http.MethodPost, RouteRegister, s.RegisterHandler())
	s.handle(http.MethodPost, RouteRefresh, s.RefreshHandler())
	s.handle(http.MethodPost, RouteLogout, s.LogoutHandler())

	auth, csrf := s.requireAuth(), s.requireCSRF()

	s.handle(http.MethodGet, RouteProfile, auth, s.ProfileHandler())
	s.handle(http.MethodPut, RouteProfile, auth, csrf, s.UpdateProfileHandler())
	s.handle(http.MethodPatch, RouteProfile, auth, csrf, s.UpdateProfileHandler())

	s.handle(http.MethodGet, RouteVenues, auth, s.ListVenuesHandler())
	s.handle(http.MethodGet, RouteVenue, auth, s.GetVenueHandler())
	s.handle(http.MethodGet, RouteVenueVibe, auth, s.CurrentVibeHandler())
	s.handle(http.MethodGet, RouteVenueCheckins, auth, s.VenueCheckinsHandler())
	s.handle(http.MethodGet, RouteVenueRatings, auth, s.VenueRatingsHandler())
	s.handle(http.MethodPost, RouteVenueRatings, auth, csrf, s.CreateVenueRatingHandler())

	s.handle(http.MethodGet, RouteCheckins, auth, s.ListCheckinsHandler())
	s.handle(http.MethodPost, RouteCheckins, auth, csrf, s.CreateCheckinHandler())
	s.handle(http.MethodGet, RouteCheckin, auth, s.GetCheckinHandler())
	s.handle(http.MethodPut, RouteCheckin, auth, csrf, s.UpdateCheckinHandler())
	s.handle(http.MethodPatch, RouteCheckin, auth, csrf, s.UpdateCheckinHandler())
	s.handle(http.MethodDelete, RouteCheckin, auth, csrf, s.DeleteCheckinHandler())

	s.handle(http.MethodGet, RouteRatings, auth, s.ListRatingsHandler())
	s.handle(http.MethodPost, RouteRatings, auth, csrf, s.CreateRatingHandler())
	s.handle(http.MethodDelete, RouteRating, auth, csrf, s.DeleteRatingHandler())

	s.handle(http.MethodGet, RouteFriends, auth, s.ListFriendsHandler())
	s.handle(http.MethodDelete, RouteFriend, auth, csrf, s.RemoveFriendHandler())
	s.handle(http.MethodGet, RouteFriendRequests, auth, s.ListFriendRequestsHandler())
	s.handle(http.MethodPost, RouteFriendRequests, auth, csrf, s.SendFriendRequestHandler())
	s.handle(http.MethodPost, RouteFriendRequestAccept, auth, csrf, s.AnswerFriendRequestHandler(true))
	s.handle(http.MethodPost, RouteFriendRequestDecline, auth, csrf, s.AnswerFriendRequestHandler(false))
	s.handle(http.MethodGet, RoutePings, auth, s.ListPingsHandler())
	s.handle(http.MethodPost, RoutePings, auth, csrf, s.SendPingHandler())
	s.handle(http.MethodDelete, RoutePing, auth, csrf, s.DeletePingHandler())
	s.handle(http.MethodGet, RouteNotifications, auth, s.ListNotificationsHandler())
	s.handle(http.MethodPost, RouteNotificationsReadAll, auth, csrf, s.MarkAllNotificationsReadHandler())
	s.handle(http.MethodPost, RouteNotificationRead, auth, csrf, s.MarkNotificationReadHandler())
}
