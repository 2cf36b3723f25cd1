package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/jrsteele09/go-nightlife-client/auth"
	apperrors "github.com/jrsteele09/go-nightlife-client/internal/errors"
	"github.com/spf13/cobra"
)

var (
	loginPassword string
	loginUsername bool

	registerFirstName string
	registerLastName  string
)

// loginCmd signs in and stores the session
var loginCmd = &cobra.Command{
	Use:   "login <email|username>",
	Short: "Sign in and store the session",
	Long: `Sign in with an email address or username.

The password is read from --password, or from the first line of standard
input when the flag is absent.`,
	Args: cobra.ExactArgs(1),
	RunE: runLogin,
}

var registerCmd = &cobra.Command{
	Use:   "register <email> <username>",
	Short: "Create an account and sign in",
	Args:  cobra.ExactArgs(2),
	RunE:  runRegister,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed in user",
	RunE:  runWhoami,
}

// tokenCmd prints a bearer token for use with other tools
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print the current access token",
	Long:  `Print the current access token, refreshing it first when none is held.`,
	RunE:  runToken,
}

func init() {
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password")
	loginCmd.Flags().BoolVar(&loginUsername, "username", false, "Treat the argument as a username even if it contains @")

	registerCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Account password")
	registerCmd.Flags().StringVar(&registerFirstName, "first-name", "", "First name")
	registerCmd.Flags().StringVar(&registerLastName, "last-name", "", "Last name")
}

func readPassword(in io.Reader) (string, error) {
	if loginPassword != "" {
		return loginPassword, nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return err
	}
	creds := auth.Credentials{Password: password}
	if strings.Contains(args[0], "@") && !loginUsername {
		creds.Email = args[0]
	} else {
		creds.Username = args[0]
	}

	user, err := app.auth.Login(ctx, creds)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrInvalidCredentials) {
			return fmt.Errorf("login failed: %w", describe(err))
		}
		return describe(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s\n", user.DisplayName())
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	password, err := readPassword(cmd.InOrStdin())
	if err != nil {
		return err
	}
	user, err := app.auth.Register(ctx, auth.Registration{
		Email:           args[0],
		Username:        args[1],
		Password:        password,
		PasswordConfirm: password,
		FirstName:       registerFirstName,
		LastName:        registerLastName,
	})
	if err != nil {
		return describe(err)
	}
	if app.auth.IsAuthenticated() {
		fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s. You are signed in.\n", user.DisplayName())
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Account %s created. Run 'nightlife login' to sign in.\n", user.Username)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if !app.auth.IsAuthenticated() {
		fmt.Fprintln(cmd.OutOrStdout(), "Not signed in")
		return nil
	}
	if err := app.auth.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if !app.auth.IsAuthenticated() {
		return apperrors.ErrNotLoggedIn
	}
	profile, err := app.api.Profile(ctx)
	if err != nil {
		return describe(err)
	}
	if err := app.auth.UpdateUser(ctx, profile); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (@%s)\n", profile.DisplayName(), profile.Username)
	fmt.Fprintf(out, "  email:  %s\n", profile.Email)
	if profile.Bio != "" {
		fmt.Fprintf(out, "  bio:    %s\n", profile.Bio)
	}
	if !profile.DateJoined.IsZero() {
		fmt.Fprintf(out, "  joined: %s\n", profile.DateJoined.Format("2 Jan 2006"))
	}
	return nil
}

func runToken(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd.Context())
	defer cancel()

	if !app.auth.IsAuthenticated() {
		return apperrors.ErrNotLoggedIn
	}
	tok, err := app.session.TokenSource(ctx).Token()
	if err != nil {
		return describe(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), tok.AccessToken)
	if claims, err := auth.ParseAccessToken(tok.AccessToken); err == nil && !claims.ExpiresAt.IsZero() {
		fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", claims.ExpiresAt.Local().Format("15:04:05"))
	}
	return nil
}
