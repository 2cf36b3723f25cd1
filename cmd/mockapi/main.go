package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/jrsteele09/go-nightlife-client/internal/config"
	"github.com/jrsteele09/go-nightlife-client/mockapi"
	"github.com/jrsteele09/go-nightlife-client/users"
	fakeuserrepo "github.com/jrsteele09/go-nightlife-client/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	demoEmail    = "demo@nightout.app"
	demoUsername = "demo"
	demoPassword = "Nightout123"
)

func main() {
	profile := flag.String("profile", "", "YAML profile with per environment settings")
	flag.Parse()

	for {
		if err := run(*profile); err != nil {
			log.Error().Err(err).Msg("mock api stopped with error, restarting")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("mock api stopped")
}

func run(profile string) (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Bytes("stack", debug.Stack()).Msg("recovered from panic")
			returnError = errors.New("panic recovered")
		}
	}()

	c, err := config.Load(profile)
	if err != nil {
		return err
	}
	setupLogging(c)
	displayAppname(c.GetAppName() + " API")

	repo, err := demoUsers()
	if err != nil {
		return err
	}
	api, err := mockapi.New(c, mockapi.WithLogger(log.Logger), mockapi.WithUserRepo(repo))
	if err != nil {
		return err
	}

	server := &http.Server{Addr: c.GetMockPort(), Handler: api}
	errs := make(chan error, 1)
	go func() { errs <- listenAndServe(server) }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go sweepRevoked(ctx, api)

	select {
	case err := <-errs:
		return err
	case <-waitForStopSignal():
	}
	return shutdown(server)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if c.GetEnv() == config.EnvDevelopment {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// demoUsers starts the user store with one account so the CLI can log in
// straight away.
func demoUsers() (users.Repo, error) {
	hash, err := users.HashPassword(demoPassword)
	if err != nil {
		return nil, fmt.Errorf("hashing demo password: %w", err)
	}
	repo := fakeuserrepo.NewFakeUserRepo()
	if err := repo.Create(&users.User{
		Email:        demoEmail,
		Username:     demoUsername,
		PasswordHash: hash,
		FirstName:    "Demo",
		DateJoined:   time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("creating demo user: %w", err)
	}
	log.Info().Str("email", demoEmail).Str("password", demoPassword).Msg("demo account ready")
	return repo, nil
}

func sweepRevoked(ctx context.Context, api *mockapi.Server) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := api.SweepRevoked(); n > 0 {
				log.Debug().Int("removed", n).Msg("swept revoked access tokens")
			}
		}
	}
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("mock api listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() <-chan os.Signal {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	return stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
