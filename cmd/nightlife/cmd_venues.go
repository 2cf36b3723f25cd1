package main

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/jrsteele09/go-nightlife-client/api"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
	"github.com/jrsteele09/go-nightlife-client/model"
	"github.com/spf13/cobra"
)

var (
	venueSearch string
	venuePage   int
	checkinNote string
	checkinVibe string
)

var venuesCmd = &cobra.Command{
	Use:   "venues",
	Short: "Browse venues",
}

var venuesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List venues",
	RunE:  runVenuesList,
}

var venuesShowCmd = &cobra.Command{
	Use:   "show <venue-id>",
	Short: "Show a venue and how busy it is",
	Args:  cobra.ExactArgs(1),
	RunE:  runVenuesShow,
}

var checkinCmd = &cobra.Command{
	Use:   "checkin <venue-id>",
	Short: "Check in at a venue",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheckin,
}

func init() {
	venuesListCmd.Flags().StringVarP(&venueSearch, "search", "s", "", "Match venue name or category")
	venuesListCmd.Flags().IntVar(&venuePage, "page", 1, "Page number")

	checkinCmd.Flags().StringVarP(&checkinNote, "comment", "m", "", "Comment shown with the check-in")
	checkinCmd.Flags().StringVar(&checkinVibe, "vibe", "", "quiet, lively or packed")
}

func parseVenueID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid venue id %q", arg)
	}
	return id, nil
}

func runVenuesList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if !app.auth.IsAuthenticated() {
		return apperrors.ErrNotLoggedIn
	}
	page, err := app.api.Venues(ctx, api.VenueQuery{Search: venueSearch, PageQuery: api.PageQuery{Page: venuePage}})
	if err != nil {
		return describe(err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tRATING\tCHECK-INS")
	for _, v := range page.Results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%d\n", v.ID, v.Name, v.Category, v.Rating, v.CheckinCount)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if page.Next != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d venues, more with --page %d\n", page.Count, venuePage+1)
	}
	return nil
}

func runVenuesShow(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	id, err := parseVenueID(args[0])
	if err != nil {
		return err
	}
	if !app.auth.IsAuthenticated() {
		return apperrors.ErrNotLoggedIn
	}
	venue, err := app.api.Venue(ctx, id)
	if err != nil {
		return describe(err)
	}
	vibe, err := app.api.CurrentVibe(ctx, id)
	if err != nil {
		return describe(err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s)\n", venue.Name, venue.Category)
	fmt.Fprintf(out, "  %s\n", venue.Address)
	fmt.Fprintf(out, "  rating %.1f, %d check-ins\n", venue.Rating, venue.CheckinCount)
	fmt.Fprintf(out, "  right now: %s (%d in the last two hours)\n", vibe.Level, vibe.Checkins)
	return nil
}

func runCheckin(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	id, err := parseVenueID(args[0])
	if err != nil {
		return err
	}
	if !app.auth.IsAuthenticated() {
		return apperrors.ErrNotLoggedIn
	}
	checkIn, err := app.api.CreateCheckIn(ctx, api.NewCheckIn{
		VenueID: id,
		Comment: checkinNote,
		Vibe:    model.VibeLevel(checkinVibe),
	})
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Checked in (#%d) at %s\n", checkIn.ID, checkIn.CreatedAt.Local().Format("15:04"))
	return nil
}
