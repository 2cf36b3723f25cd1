package mockapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jrsteele09/go-nightlife-client/internal/config"
)

const (
	headerCSRF      = "X-CSRFToken"
	headerRequestID = "X-Request-ID"

	ctxUserID = "user_id"
	ctxClaims = "claims"
)

func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := NowTimeFunc()
		if id := c.GetHeader(headerRequestID); id != "" {
			c.Header(headerRequestID, id)
		}
		c.Next()

		status := c.Writer.Status()
		event := s.log.Info()
		if status >= http.StatusInternalServerError {
			event = s.log.Error()
		}
		if s.env == config.EnvDevelopment {
			event.Msgf("[%s] %s -> %s (%s)", colourMethod(c.Request.Method), c.Request.URL.Path, colourStatus(status), time.Since(start))
			return
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("request_id", c.GetHeader(headerRequestID)).
			Dur("duration", time.Since(start)).
			Msg("request")
	}
}

// csrfIssuer advertises the CSRF token on every response.
func (s *Server) csrfIssuer() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header(headerCSRF, s.csrfToken)
		c.Next()
	}
}

// requireCSRF rejects mutating requests that do not echo the CSRF token.
func (s *Server) requireCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.config.GetMockRequireCSRF() {
			c.Next()
			return
		}
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}
		if c.GetHeader(headerCSRF) != s.csrfToken {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "CSRF Failed: CSRF token missing or incorrect."})
			return
		}
		c.Next()
	}
}

// requireAuth validates the Bearer access token.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		raw, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}

		claims, err := s.inspector.Introspect(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Given token not valid for any token type",
				"code":   "token_not_valid",
			})
			return
		}
		if _, err := s.users.GetByID(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "User not found", "code": "user_not_found"})
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxClaims, claims)
		c.Next()
	}
}

func currentUserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}
