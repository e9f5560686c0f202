package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/painel/internal/credential"
	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/ux"
)

func newAuthCmd() *cobra.Command {
	authCmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage the login session",
		Long: `Manage the login session with the painel backend.

Subcommands:
  login   Login with email and password
  logout  Remove the stored session
  status  Show the current session

Examples:
  painel auth login --email ana@example.com
  painel auth status
  painel auth logout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	authCmd.AddCommand(newAuthLoginCmd(), newAuthLogoutCmd(), newAuthStatusCmd())
	return authCmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login to the panel",
		Long: `Login with your panel email and password. Missing values are asked
interactively when a terminal is attached.

The token and your profile are saved together in the configured storage.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			creds := ux.Credentials{Email: strings.TrimSpace(email), Secret: password}
			if creds.Email == "" || creds.Secret == "" {
				if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
					return fmt.Errorf("--email and --password are required when not running in a terminal")
				}
				var err error
				if creds, err = ux.PromptLogin(creds); err != nil {
					return err
				}
			}

			identity, err := a.session.Login(cmd.Context(), creds.Email, creds.Secret)
			if err != nil {
				return err
			}

			a.success("Logged in as %s (%s)", identity.DisplayName, identity.Role)
			if !a.textOutput() {
				return a.print(identity)
			}
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (prompted when omitted)")
	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored session",
		Long:  `Remove the stored token and profile. Running it without a session is not an error.`,
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()

			identity, err := a.creds.Identity(ctx)
			if err != nil {
				a.logger.WithError(err).Debug("cached identity unreadable")
			}

			if err := a.session.Logout(ctx); err != nil {
				return err
			}

			if identity == nil {
				a.success("Not logged in.")
				return nil
			}
			a.success("Logged out %s.", identity.Email)
			return nil
		}),
	}
}

// authStatus is the output of `auth status`
type authStatus struct {
	LoggedIn    bool             `json:"logged_in" yaml:"logged_in"`
	Identity    *domain.Identity `json:"identity,omitempty" yaml:"identity,omitempty"`
	Server      string           `json:"server" yaml:"server"`
	Token       string           `json:"token,omitempty" yaml:"token,omitempty"`
	ExpiresAt   *time.Time       `json:"expires_at,omitempty" yaml:"expires_at,omitempty"`
	Storage     string           `json:"storage" yaml:"storage"`
	Unavailable string           `json:"error,omitempty" yaml:"error,omitempty"`
}

func (s authStatus) String() string {
	var b strings.Builder
	if !s.LoggedIn {
		b.WriteString("Not logged in.\n")
		if s.Unavailable != "" {
			fmt.Fprintf(&b, "  %s\n", s.Unavailable)
		}
		fmt.Fprintf(&b, "  server:  %s\n", s.Server)
		b.WriteString("\nUse 'painel auth login' to login.")
		return b.String()
	}

	fmt.Fprintf(&b, "Logged in as %s <%s>\n", s.Identity.DisplayName, s.Identity.Email)
	fmt.Fprintf(&b, "  role:    %s\n", s.Identity.Role)
	fmt.Fprintf(&b, "  server:  %s\n", s.Server)
	fmt.Fprintf(&b, "  token:   %s\n", s.Token)
	if s.ExpiresAt != nil {
		fmt.Fprintf(&b, "  expires: %s\n", s.ExpiresAt.Local().Format(time.RFC3339))
	}
	fmt.Fprintf(&b, "  storage: %s", s.Storage)
	return b.String()
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current session",
		Long: `Verify the stored session against the server and show who is logged in.
The token itself is never printed, only its fingerprint.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			status := authStatus{
				Server:  a.client.BaseURL(),
				Storage: a.cfg.Storage.Backend,
			}

			token, err := a.creds.Token(ctx)
			if err != nil {
				return err
			}
			if token != "" {
				status.Token = credential.Fingerprint(token)
				if exp, ok := credential.ExpiresAt(token); ok {
					status.ExpiresAt = &exp
				}
			}

			identity, err := a.authenticate(ctx)
			switch {
			case err == nil:
				status.LoggedIn = true
				status.Identity = identity
			case errors.IsUnauthorized(err):
				status.Token = ""
				status.ExpiresAt = nil
				if token != "" {
					status.Unavailable = err.Error()
				}
			default:
				return err
			}

			return a.print(status)
		}),
	}
}
