// Package mockapi is an in-memory development backend speaking the same
// REST dialect as the production API: JWT access tokens, opaque rotating
// refresh tokens and a CSRF header required on mutating requests.
package mockapi

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jrsteele09/go-nightlife-client/internal/config"
	"github.com/jrsteele09/go-nightlife-client/token"
	"github.com/jrsteele09/go-nightlife-client/token/jwt"
	"github.com/jrsteele09/go-nightlife-client/token/keys"
	"github.com/jrsteele09/go-nightlife-client/token/refresh"
	refreshrepofake "github.com/jrsteele09/go-nightlife-client/token/refresh/repofake"
	"github.com/jrsteele09/go-nightlife-client/users"
	fakeuserrepo "github.com/jrsteele09/go-nightlife-client/users/repofake"
	"github.com/rs/zerolog"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

// Settings is the configuration the backend reads.
type Settings interface {
	config.EnvConfig
	config.CorsConfig
	config.MockAPIConfig
}

type Server struct {
	env       string
	engine    *gin.Engine
	routes    []string
	config    Settings
	log       zerolog.Logger
	users     users.Repo
	refresh   *refresh.Manager
	creator   *jwt.Creator
	inspector *jwt.Inspector
	revoked   token.RevokedTokenCache
	data      *dataStore
	csrfToken string
	seed      bool
}

type Option func(*Server)

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.log = logger
	}
}

func WithUserRepo(repo users.Repo) Option {
	return func(s *Server) {
		s.users = repo
	}
}

// WithoutSeedData starts with no venues.
func WithoutSeedData() Option {
	return func(s *Server) {
		s.seed = false
	}
}

func New(cfg Settings, options ...Option) (*Server, error) {
	signer, err := keys.NewHMACSigner(cfg.GetMockJWTSecret())
	if err != nil {
		return nil, fmt.Errorf("[Server New] creating signer: %w", err)
	}

	revoked := token.NewInMemoryRevokedTokenCache()
	s := &Server{
		env:       cfg.GetEnv(),
		config:    cfg,
		log:       zerolog.Nop(),
		users:     fakeuserrepo.NewFakeUserRepo(),
		refresh:   refresh.NewManager(refreshrepofake.NewFakeRefreshTokenRepo(), cfg),
		creator:   jwt.NewCreator(cfg, signer),
		inspector: jwt.NewInspector(signer, revoked),
		revoked:   revoked,
		data:      newDataStore(),
		csrfToken: uuid.NewString(),
		seed:      true,
	}
	for _, opt := range options {
		opt(s)
	}
	if s.seed {
		s.data.seed()
	}

	if s.env == config.EnvDevelopment {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	s.engine = gin.New()
	s.engine.Use(gin.Recovery())
	s.engine.Use(s.loggingMiddleware())
	s.engine.Use(cors.New(s.corsConfig()))
	s.engine.Use(s.csrfIssuer())

	s.initRoutes()
	s.logRoutes()
	return s, nil
}

func (s *Server) corsConfig() cors.Config {
	cc := cors.Config{
		AllowOrigins:     s.config.GetAllowedOrigins().List(),
		AllowMethods:     s.config.GetAllowedMethods(),
		AllowHeaders:     s.config.GetAllowedHeaders(),
		ExposeHeaders:    []string{headerCSRF, headerRequestID},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cc.AllowOrigins) == 0 || s.config.GetAllowedOrigins().IsAllowedOrigin("*") {
		cc.AllowOrigins = nil
		cc.AllowAllOrigins = true
		cc.AllowCredentials = false
	}
	return cc
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.engine.ServeHTTP(w, r)
}

// CSRFToken is the token every response advertises.
func (s *Server) CSRFToken() string {
	return s.csrfToken
}

// SweepRevoked drops revocations whose tokens have expired on their own.
func (s *Server) SweepRevoked() int {
	return s.revoked.Cleanup()
}

func (s *Server) handle(method, path string, handlers ...gin.HandlerFunc) {
	s.routes = append(s.routes, method+" "+path)
	s.engine.Handle(method, path, handlers...)
}
