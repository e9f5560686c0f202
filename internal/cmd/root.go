// Package cmd implements the painel command line.
package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

// NewRootCmd builds the painel command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "painel",
		Short: "Terminal client for the painel CRM and helpdesk",
		Long: `painel is a terminal client for the painel admin backend. It manages the
login session and gives every role access to the clients, tickets, posts,
contacts, notifications and users its role allows.

The session token is stored in ~/.painel/credentials.json (or the configured
storage backend) and verified against the server on every command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.painel/config.yaml)")
	flags.StringP("format", "f", "", "output format: text, json or yaml (default from config)")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.Bool("no-color", false, "disable colored output")
	flags.BoolP("verbose", "v", false, "show error details")

	root.AddCommand(
		newAuthCmd(),
		newMeCmd(),
		newUsersCmd(),
		newPostsCmd(),
		newClientsCmd(),
		newTicketsCmd(),
		newContactsCmd(),
		newNotificationsCmd(),
		newUnreadCmd(),
		newDashboardCmd(),
		newConfigCmd(),
		newVersionCmd(),
		newCompletionCmd(),
	)
	return root
}

// Execute runs the root command
func Execute() error {
	return ExecuteContext(context.Background())
}

// ExecuteContext runs the root command with ctx. Errors are printed to
// stderr before being returned.
func ExecuteContext(ctx context.Context) error {
	root := NewRootCmd()
	cmd, err := root.ExecuteContextC(ctx)
	if err != nil && ctx.Err() == nil {
		printError(cmd, err)
	}
	return err
}
