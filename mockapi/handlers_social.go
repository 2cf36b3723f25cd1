package mockapi

import (
	"fmt"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/jrsteele09/go-nightlife-client/model"
	"github.com/jrsteele09/go-nightlife-client/users"
)

type friendRequestBody struct {
	ToUser int64 `json:"to_user"`
}

type pingBody struct {
	ToUser  int64  `json:"to_user"`
	VenueID int64  `json:"venue"`
	Message string `json:"message"`
}

// ListFriendsHandler returns the accepted friends of the caller.
func (s *Server) ListFriendsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		friends := make([]users.User, 0)
		for _, id := range s.data.friendIDs(currentUserID(c)) {
			if u, err := s.users.GetByID(id); err == nil {
				friends = append(friends, *u)
			}
		}
		c.JSON(http.StatusOK, paginate(c, friends))
	}
}

// RemoveFriendHandler ends a friendship. The path id is the friend's user id.
func (s *Server) RemoveFriendHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if !s.data.unfriend(currentUserID(c), id) {
			detail(c, http.StatusNotFound, msgNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// ListFriendRequestsHandler returns pending requests sent to or by the caller.
func (s *Server) ListFriendRequestsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		list := s.data.listFriendRequests(func(fr *model.FriendRequest) bool {
			return fr.Status == model.FriendRequestPending && (fr.FromUser == userID || fr.ToUser == userID)
		})
		c.JSON(http.StatusOK, paginate(c, list))
	}
}

func (s *Server) SendFriendRequestHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req friendRequestBody
		if !bindJSON(c, &req) {
			return
		}
		userID := currentUserID(c)
		if req.ToUser == userID {
			c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{"to_user": {"You cannot befriend yourself."}})
			return
		}
		target, err := s.users.GetByID(req.ToUser)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{
				"to_user": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.ToUser)},
			})
			return
		}

		fr, created := s.data.addFriendRequest(model.FriendRequest{
			FromUser:  userID,
			ToUser:    target.ID,
			Status:    model.FriendRequestPending,
			CreatedAt: NowTimeFunc(),
		})
		if !created {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"non_field_errors": []string{"A friend request between these users already exists."}})
			return
		}
		s.data.notify(target.ID, "friend_request", "You have a new friend request", fr.CreatedAt)
		c.JSON(http.StatusCreated, fr)
	}
}

// AnswerFriendRequestHandler accepts or declines a request sent to the caller.
func (s *Server) AnswerFriendRequestHandler(accept bool) gin.HandlerFunc {
	status := model.FriendRequestDeclined
	if accept {
		status = model.FriendRequestAccepted
	}
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		fr, ok := s.data.friendRequest(id)
		if !ok {
			detail(c, http.StatusNotFound, msgNotFound)
			return
		}
		if fr.ToUser != currentUserID(c) {
			detail(c, http.StatusForbidden, msgNoPermission)
			return
		}
		if fr.Status != model.FriendRequestPending {
			detail(c, http.StatusBadRequest, "This friend request has already been answered.")
			return
		}

		s.data.setFriendRequestStatus(id, status)
		fr.Status = status
		if accept {
			s.data.notify(fr.FromUser, "friend_accepted", "Your friend request was accepted", NowTimeFunc())
		}
		c.JSON(http.StatusOK, fr)
	}
}

func (s *Server) ListPingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, paginate(c, s.data.listPings(currentUserID(c))))
	}
}

// SendPingHandler only lets friends ping each other.
func (s *Server) SendPingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req pingBody
		if !bindJSON(c, &req) {
			return
		}
		userID := currentUserID(c)
		if !slices.Contains(s.data.friendIDs(userID), req.ToUser) {
			detail(c, http.StatusForbidden, "You can only ping your friends.")
			return
		}
		if req.VenueID != 0 {
			if _, ok := s.data.venue(req.VenueID); !ok {
				c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{
					"venue": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.VenueID)},
				})
				return
			}
		}

		ping := s.data.addPing(model.Ping{
			FromUser:  userID,
			ToUser:    req.ToUser,
			VenueID:   req.VenueID,
			Message:   req.Message,
			CreatedAt: NowTimeFunc(),
		})
		s.data.notify(req.ToUser, "ping", "A friend pinged you", ping.CreatedAt)
		c.JSON(http.StatusCreated, ping)
	}
}

// DeletePingHandler removes a ping from both sides. Either end may delete it.
func (s *Server) DeletePingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		ping, ok := s.data.ping(id)
		userID := currentUserID(c)
		if !ok || (ping.FromUser != userID && ping.ToUser != userID) {
			detail(c, http.StatusNotFound, msgNotFound)
			return
		}
		s.data.deletePing(id)
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) ListNotificationsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		list := s.data.listNotifications(userID)
		if c.Query("unread") == "true" {
			list = slices.DeleteFunc(list, func(n model.Notification) bool { return n.Read })
		}
		c.JSON(http.StatusOK, paginate(c, list))
	}
}

func (s *Server) MarkNotificationReadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if !s.data.markRead(currentUserID(c), id) {
			detail(c, http.StatusNotFound, msgNotFound)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) MarkAllNotificationsReadHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		s.data.markRead(currentUserID(c), 0)
		c.Status(http.StatusNoContent)
	}
}
