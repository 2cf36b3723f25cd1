package mockapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jrsteele09/go-nightlife-client/model"
	"github.com/jrsteele09/go-nightlife-client/users"
)

// LoginHandler exchanges an email or username and password for a token pair.
func (s *Server) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.LoginRequest
		if !bindJSON(c, &req) {
			return
		}

		errs := fieldErrors{}
		if req.Email == "" && req.Username == "" {
			errs.add("email", msgRequired)
		}
		if req.Password == "" {
			errs.add("password", msgRequired)
		}
		if len(errs) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, errs)
			return
		}

		var (
			user *users.User
			err  error
		)
		if req.Email != "" {
			user, err = s.users.GetByEmail(req.Email)
		} else {
			user, err = s.users.GetByUsername(req.Username)
		}
		if err != nil || !user.CheckPassword(req.Password) {
			s.log.Info().Str("email", req.Email).Str("username", req.Username).Msg("login rejected")
			detail(c, http.StatusUnauthorized, "No active account found with the given credentials")
			return
		}

		user.LastLogin = NowTimeFunc()
		if err := s.users.Update(user); err != nil {
			s.log.Error().Err(err).Int64("user_id", user.ID).Msg("recording last login")
		}
		s.issueTokens(c, http.StatusOK, user)
	}
}

// RegisterHandler creates an account and logs it in.
func (s *Server) RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RegisterRequest
		if !bindJSON(c, &req) {
			return
		}

		errs := fieldErrors{}
		req.Email = strings.TrimSpace(req.Email)
		req.Username = strings.TrimSpace(req.Username)
		switch {
		case req.Email == "":
			errs.add("email", msgRequired)
		case !strings.Contains(req.Email, "@"):
			errs.add("email", "Enter a valid email address.")
		}
		if req.Username == "" {
			errs.add("username", msgRequired)
		}
		if req.Password == "" {
			errs.add("password", msgRequired)
		} else {
			for _, problem := range users.PasswordProblems(req.Password) {
				errs.add("password", problem)
			}
		}
		if req.PasswordConfirm != "" && req.PasswordConfirm != req.Password {
			errs.add("password2", "Password fields didn't match.")
		}
		if len(errs) > 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, errs)
			return
		}

		hash, err := users.HashPassword(req.Password)
		if err != nil {
			s.log.Error().Err(err).Msg("hashing password")
			detail(c, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		now := NowTimeFunc()
		user := &users.User{
			Email:        req.Email,
			Username:     req.Username,
			PasswordHash: hash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			DateJoined:   now,
			LastLogin:    now,
		}
		if err := s.users.Create(user); err != nil {
			if errors.Is(err, users.ErrUserExists) {
				c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{
					"username": {"A user with that username or email already exists."},
				})
				return
			}
			s.log.Error().Err(err).Msg("creating user")
			detail(c, http.StatusInternalServerError, "A server error occurred.")
			return
		}

		s.log.Info().Int64("user_id", user.ID).Str("username", user.Username).Msg("user registered")
		s.issueTokens(c, http.StatusCreated, user)
	}
}

// RefreshHandler rotates a refresh token and issues a new access token.
func (s *Server) RefreshHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RefreshRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.Refresh == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{"refresh": {msgRequired}})
			return
		}

		stored, next, err := s.refresh.Rotate(req.Refresh)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Token is invalid or expired",
				"code":   "token_not_valid",
			})
			return
		}
		user, err := s.users.GetByID(stored.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "User not found", "code": "user_not_found"})
			return
		}
		access, err := s.creator.CreateAccessToken(user)
		if err != nil {
			s.log.Error().Err(err).Msg("signing access token")
			detail(c, http.StatusInternalServerError, "A server error occurred.")
			return
		}
		c.JSON(http.StatusOK, model.TokenPair{Access: access, Refresh: next})
	}
}

// LogoutHandler blacklists the refresh token and, when a valid bearer token
// came along, the access token too.
func (s *Server) LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req model.RefreshRequest
		if !bindJSON(c, &req) {
			return
		}
		if req.Refresh == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, fieldErrors{"refresh": {msgRequired}})
			return
		}
		if err := s.refresh.Delete(req.Refresh); err != nil {
			s.log.Debug().Err(err).Msg("logout with unknown refresh token")
		}

		if raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); ok {
			if claims, err := s.inspector.Introspect(raw); err == nil && claims.JTI != "" {
				if err := s.revoked.Add(claims.JTI, claims.ExpiresAt); err != nil {
					s.log.Error().Err(err).Msg("revoking access token")
				}
			}
		}
		c.Status(http.StatusResetContent)
	}
}

func (s *Server) issueTokens(c *gin.Context, status int, user *users.User) {
	access, err := s.creator.CreateAccessToken(user)
	if err != nil {
		s.log.Error().Err(err).Msg("signing access token")
		detail(c, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	refresh, err := s.refresh.Create(user.ID)
	if err != nil {
		s.log.Error().Err(err).Msg("creating refresh token")
		detail(c, http.StatusInternalServerError, "A server error occurred.")
		return
	}
	c.JSON(status, model.TokenPair{Access: access, Refresh: refresh, User: user})
}
