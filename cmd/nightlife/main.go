package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var (
	profilePath string
	verbose     bool
	showMetrics bool
	timeout     time.Duration

	app *application
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "nightlife",
	Short: "Command line client for the nightlife API",
	Long: `nightlife talks to the nightlife API with a persistent session.

Tokens are stored between runs (see TOKEN_STORE) and refreshed when they
expire. Start the development backend with 'go run ./cmd/mockapi'.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApplication(cmd.Context(), profilePath, verbose)
		if err != nil {
			return err
		}
		app = a
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if app == nil {
			return nil
		}
		if showMetrics {
			app.printMetrics(cmd.OutOrStdout())
		}
		return app.close(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&profilePath, "profile", "", "YAML profile with per environment API endpoints")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&showMetrics, "metrics", false, "Print session metrics after the command")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Overall command timeout")

	venuesCmd.AddCommand(venuesListCmd)
	venuesCmd.AddCommand(venuesShowCmd)

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(venuesCmd)
	rootCmd.AddCommand(checkinCmd)
	rootCmd.AddCommand(bannerCmd)
}

var bannerCmd = &cobra.Command{
	Use:    "banner",
	Short:  "Print the app banner",
	Hidden: true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		figure.NewFigure("Nightlife", "cybermedium", true).Print()
		fmt.Println()
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
