package main

import (
	"fmt"

	"github.com/jrsteele09/go-nightlife-client/api"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
	"github.com/jrsteele09/go-nightlife-client/internal/utils"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Edit your profile",
	Long:  `Edit your profile. Only the flags given are changed.`,
	RunE:  runProfile,
}

func init() {
	profileCmd.Flags().String("first-name", "", "First name")
	profileCmd.Flags().String("last-name", "", "Last name")
	profileCmd.Flags().String("bio", "", "Short bio")
	profileCmd.Flags().String("avatar", "", "Avatar URL")
	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if !app.auth.IsAuthenticated() {
		return apperrors.ErrNotLoggedIn
	}

	flag := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return utils.Ptr(v)
	}
	update := api.ProfileUpdate{
		FirstName: flag("first-name"),
		LastName:  flag("last-name"),
		Bio:       flag("bio"),
		AvatarURL: flag("avatar"),
	}
	if update == (api.ProfileUpdate{}) {
		return cmd.Help()
	}

	profile, err := app.api.UpdateProfile(ctx, update)
	if err != nil {
		return describe(err)
	}
	if err := app.auth.UpdateUser(ctx, profile); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s\n", profile.DisplayName())
	return nil
}
