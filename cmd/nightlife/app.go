package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/jrsteele09/go-nightlife-client/api"
	"github.com/jrsteele09/go-nightlife-client/auth"
	"github.com/jrsteele09/go-nightlife-client/internal/config"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
	"github.com/jrsteele09/go-nightlife-client/session"
	"github.com/jrsteele09/go-nightlife-client/tokenstore"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// application is everything a command needs, built once per invocation.
type application struct {
	config   config.Config
	store    tokenstore.Store
	session  *session.Client
	auth     *auth.Service
	api      *api.Client
	registry *prometheus.Registry
}

func newApplication(ctx context.Context, profile string, verbose bool) (*application, error) {
	cfg, err := config.Load(profile)
	if err != nil {
		return nil, err
	}
	setupLogging(cfg, verbose)

	store, err := tokenstore.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("opening token store: %w", err)
	}

	registry := prometheus.NewRegistry()
	client := session.New(cfg, store,
		session.WithLogger(log.Logger.With().Str("component", "session").Logger()),
		session.WithMetrics(session.NewMetrics(registry)),
	)
	svc, err := auth.NewService(client, store, auth.WithLogger(log.Logger.With().Str("component", "auth").Logger()))
	if err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	if err := svc.OnLogout(func(e auth.LogoutEvent) {
		if e.Reason == auth.LogoutSessionExpired {
			fmt.Fprintln(os.Stderr, "Your session has expired. Please log in again.")
		}
	}); err != nil {
		_ = store.Close(ctx)
		return nil, err
	}
	if _, err := svc.Restore(ctx); err != nil {
		log.Warn().Err(err).Msg("restoring session")
	}

	log.Debug().Str("base_url", cfg.GetAPIBaseURL()).Str("store", cfg.GetTokenStoreDriver()).Msg("client ready")
	return &application{
		config:   cfg,
		store:    store,
		session:  client,
		auth:     svc,
		api:      api.New(client),
		registry: registry,
	}, nil
}

func setupLogging(cfg config.Config, verbose bool) {
	level, err := zerolog.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = zerolog.WarnLevel
	}
	if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}

func (a *application) close(ctx context.Context) error {
	return a.store.Close(ctx)
}

// printMetrics writes every counter with a non zero value.
func (a *application) printMetrics(w io.Writer) {
	families, err := a.registry.Gather()
	if err != nil {
		log.Warn().Err(err).Msg("gathering metrics")
		return
	}
	var lines []string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			value := m.GetCounter().GetValue()
			if value == 0 {
				continue
			}
			name := mf.GetName()
			for _, lp := range m.GetLabel() {
				name += fmt.Sprintf(" %s=%s", lp.GetName(), lp.GetValue())
			}
			lines = append(lines, fmt.Sprintf("%-60s %v", name, value))
		}
	}
	sort.Strings(lines)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
}

// commandContext bounds a command by the --timeout flag.
func commandContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, timeout)
}

// describe turns a session error into the message shown to the user.
func describe(err error) error {
	var serr *session.Error
	if !apperrors.As(err, &serr) {
		return err
	}
	if len(serr.Details) > 0 && (serr.Kind == session.InvalidRequest || serr.Kind == session.ValidationFailed) {
		keys := make([]string, 0, len(serr.Details))
		for k := range serr.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		msg := serr.Message
		for _, k := range keys {
			msg += fmt.Sprintf("\n  %s: %v", k, serr.Details[k])
		}
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s", serr.Message)
}
