package mockapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jrsteele09/go-nightlife-client/model"
)

// checkInRequest is the body of check-in create and update.
type checkInRequest struct {
	VenueID int64           `json:"venue"`
	Comment string          `json:"comment"`
	Vibe    model.VibeLevel `json:"vibe"`
}

type ratingRequest struct {
	VenueID int64  `json:"venue"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

func (s *Server) ListVenuesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, paginate(c, s.data.listVenues(c.Query("search"))))
	}
}

func (s *Server) GetVenueHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		venue, ok := s.venueFromPath(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, venue)
	}
}

func (s *Server) CurrentVibeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		venue, ok := s.venueFromPath(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, s.data.currentVibe(venue.ID, NowTimeFunc()))
	}
}

func (s *Server) VenueCheckinsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		venue, ok := s.venueFromPath(c)
		if !ok {
			return
		}
		list := s.data.listCheckIns(func(ci *model.CheckIn) bool { return ci.VenueID == venue.ID })
		c.JSON(http.StatusOK, paginate(c, list))
	}
}

func (s *Server) VenueRatingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		venue, ok := s.venueFromPath(c)
		if !ok {
			return
		}
		list := s.data.listRatings(func(r *model.Rating) bool { return r.VenueID == venue.ID })
		c.JSON(http.StatusOK, paginate(c, list))
	}
}

// CreateVenueRatingHandler rates the venue named in the path.
func (s *Server) CreateVenueRatingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		venue, ok := s.venueFromPath(c)
		if !ok {
			return
		}
		var req ratingRequest
		if !bindJSON(c, &req) {
			return
		}
		req.VenueID = venue.ID
		s.createRating(c, req)
	}
}

func (s *Server) ListCheckinsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		mine := c.Query("mine") == "true"
		list := s.data.listCheckIns(func(ci *model.CheckIn) bool { return !mine || ci.UserID == userID })
		c.JSON(http.StatusOK, paginate(c, list))
	}
}

func (s *Server) CreateCheckinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req checkInRequest
		if !bindJSON(c, &req) {
			return
		}
		if errs := validateCheckIn(req); len(errs) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, errs)
			return
		}
		venue, ok := s.data.venue(req.VenueID)
		if !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{
				"venue": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.VenueID)},
			})
			return
		}

		userID := currentUserID(c)
		checkIn := s.data.addCheckIn(model.CheckIn{
			VenueID:   venue.ID,
			UserID:    userID,
			Comment:   req.Comment,
			Vibe:      req.Vibe,
			CreatedAt: NowTimeFunc(),
		})
		for _, friend := range s.data.friendIDs(userID) {
			s.data.notify(friend, "checkin", fmt.Sprintf("A friend checked in at %s", venue.Name), checkIn.CreatedAt)
		}
		c.JSON(http.StatusCreated, checkIn)
	}
}

func (s *Server) GetCheckinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checkIn, ok := s.checkInFromPath(c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, checkIn)
	}
}

// UpdateCheckinHandler lets the author change the comment and vibe. The venue
// is fixed once checked in.
func (s *Server) UpdateCheckinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checkIn, ok := s.ownCheckInFromPath(c)
		if !ok {
			return
		}
		req := checkInRequest{VenueID: checkIn.VenueID, Comment: checkIn.Comment, Vibe: checkIn.Vibe}
		if !bindJSON(c, &req) {
			return
		}
		if errs := validateCheckIn(req); len(errs) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, errs)
			return
		}
		checkIn.Comment = req.Comment
		checkIn.Vibe = req.Vibe
		s.data.updateCheckIn(checkIn)
		c.JSON(http.StatusOK, checkIn)
	}
}

func (s *Server) DeleteCheckinHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checkIn, ok := s.ownCheckInFromPath(c)
		if !ok {
			return
		}
		s.data.deleteCheckIn(checkIn.ID)
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) ListRatingsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := currentUserID(c)
		list := s.data.listRatings(func(r *model.Rating) bool { return r.UserID == userID })
		c.JSON(http.StatusOK, paginate(c, list))
	}
}

func (s *Server) CreateRatingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ratingRequest
		if !bindJSON(c, &req) {
			return
		}
		if _, ok := s.data.venue(req.VenueID); !ok {
			c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{
				"venue": {fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", req.VenueID)},
			})
			return
		}
		s.createRating(c, req)
	}
}

// DeleteRatingHandler lets the author withdraw a rating.
func (s *Server) DeleteRatingHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		rating, ok := s.data.rating(id)
		if !ok {
			detail(c, http.StatusNotFound, msgNotFound)
			return
		}
		if rating.UserID != currentUserID(c) {
			detail(c, http.StatusForbidden, msgNoPermission)
			return
		}
		s.data.deleteRating(id)
		c.Status(http.StatusNoContent)
	}
}

func (s *Server) createRating(c *gin.Context, req ratingRequest) {
	if req.Score < 1 || req.Score > 5 {
		c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{"score": {"Ensure this value is between 1 and 5."}})
		return
	}
	rating := s.data.addRating(model.Rating{
		VenueID:   req.VenueID,
		UserID:    currentUserID(c),
		Score:     req.Score,
		Comment:   strings.TrimSpace(req.Comment),
		CreatedAt: NowTimeFunc(),
	})
	c.JSON(http.StatusCreated, rating)
}

func validateCheckIn(req checkInRequest) fieldErrors {
	errs := fieldErrors{}
	if req.VenueID == 0 {
		errs.add("venue", msgRequired)
	}
	switch req.Vibe {
	case "", model.VibeQuiet, model.VibeLively, model.VibePacked:
	default:
		errs.add("vibe", fmt.Sprintf("\"%s\" is not a valid choice.", req.Vibe))
	}
	if len(req.Comment) > 280 {
		errs.add("comment", "Ensure this field has no more than 280 characters.")
	}
	return errs
}

func (s *Server) venueFromPath(c *gin.Context) (model.Venue, bool) {
	id, ok := pathID(c)
	if !ok {
		return model.Venue{}, false
	}
	venue, ok := s.data.venue(id)
	if !ok {
		detail(c, http.StatusNotFound, msgNotFound)
	}
	return venue, ok
}

func (s *Server) checkInFromPath(c *gin.Context) (model.CheckIn, bool) {
	id, ok := pathID(c)
	if !ok {
		return model.CheckIn{}, false
	}
	checkIn, ok := s.data.checkIn(id)
	if !ok {
		detail(c, http.StatusNotFound, msgNotFound)
	}
	return checkIn, ok
}

func (s *Server) ownCheckInFromPath(c *gin.Context) (model.CheckIn, bool) {
	checkIn, ok := s.checkInFromPath(c)
	if !ok {
		return checkIn, false
	}
	if checkIn.UserID != currentUserID(c) {
		detail(c, http.StatusForbidden, msgNoPermission)
		return checkIn, false
	}
	return checkIn, true
}
