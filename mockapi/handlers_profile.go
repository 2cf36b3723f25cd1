package mockapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jrsteele09/go-nightlife-client/internal/utils"
)

// profileUpdate lists the editable profile fields. Nil means unchanged.
type profileUpdate struct {
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar"`
}

func (s *Server) ProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.users.GetByID(currentUserID(c))
		if err != nil {
			detail(c, http.StatusNotFound, msgNotFound)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateProfileHandler serves PUT and PATCH alike; email and username
// cannot be changed here.
func (s *Server) UpdateProfileHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req profileUpdate
		if !bindJSON(c, &req) {
			return
		}
		user, err := s.users.GetByID(currentUserID(c))
		if err != nil {
			detail(c, http.StatusNotFound, msgNotFound)
			return
		}

		user.FirstName = utils.ValueOr(req.FirstName, user.FirstName)
		user.LastName = utils.ValueOr(req.LastName, user.LastName)
		user.Bio = utils.ValueOr(req.Bio, user.Bio)
		user.AvatarURL = utils.ValueOr(req.AvatarURL, user.AvatarURL)
		if len(user.Bio) > 500 {
			c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{"bio": {"Ensure this field has no more than 500 characters."}})
			return
		}
		if err := s.users.Update(user); err != nil {
			s.log.Error().Err(err).Int64("user_id", user.ID).Msg("updating profile")
			detail(c, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}
