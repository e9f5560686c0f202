package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/authz"
)

// unreadFilter returns the read-state filter for --unread
func unreadFilter(unread bool) *bool {
	if !unread {
		return nil
	}
	read := false
	return &read
}

func newContactsCmd() *cobra.Command {
	contactsCmd := &cobra.Command{
		Use:     "contacts",
		Aliases: []string{"contatos"},
		Short:   "Read messages from the site contact form",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	contactsCmd.AddCommand(
		newContactsListCmd(),
		newContactsGetCmd(),
		newContactsUpdateCmd(),
		newContactsReadCmd(),
		newContactsReadAllCmd(),
	)
	return contactsCmd
}

func newContactsListCmd() *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List contact messages",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureContacts); err != nil {
				return err
			}
			list, err := a.client.Contacts().List(ctx, api.ContactFilter{Read: unreadFilter(unread)})
			if err != nil {
				return err
			}
			return a.show(list.Items, contactTable(list.Items))
		}),
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "only unread messages")
	return cmd
}

func newContactsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a contact message",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureContacts); err != nil {
				return err
			}
			c, err := a.client.Contacts().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return a.show(c, contactFields(c))
		}),
	}
}

func newContactsUpdateCmd() *cobra.Command {
	var p payload

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a contact message",
		Long: `Send the given fields of a contact message.

Examples:
  painel contacts update 64e2 --set respondido=true --set observacao="retornado por telefone"`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			fields, err := p.fields()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureContacts); err != nil {
				return err
			}

			c, err := a.client.Contacts().Update(ctx, args[0], fields)
			if err != nil {
				return err
			}
			a.success("Updated contact %s", args[0])
			return a.show(c, contactFields(c))
		}),
	}

	p.register(cmd)
	return cmd
}

func newContactsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a contact message as read",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureContacts); err != nil {
				return err
			}
			if err := a.client.Contacts().MarkRead(ctx, args[0]); err != nil {
				return err
			}
			a.success("Marked contact %s as read", args[0])
			return nil
		}),
	}
}

func newContactsReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every contact message as read",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureContacts); err != nil {
				return err
			}
			if err := a.client.Contacts().MarkAllRead(ctx); err != nil {
				return err
			}
			a.success("Marked all contacts as read")
			return nil
		}),
	}
}

func newNotificationsCmd() *cobra.Command {
	notificationsCmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notificacoes"},
		Short:   "Read panel notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	notificationsCmd.AddCommand(
		newNotificationsListCmd(),
		newNotificationsReadCmd(),
		newNotificationsReadAllCmd(),
	)
	return notificationsCmd
}

func newNotificationsListCmd() *cobra.Command {
	var unread bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureNotifications); err != nil {
				return err
			}
			list, err := a.client.Notifications().List(ctx, api.NotificationFilter{Read: unreadFilter(unread)})
			if err != nil {
				return err
			}
			return a.show(list.Items, notificationTable(list.Items))
		}),
	}

	cmd.Flags().BoolVar(&unread, "unread", false, "only unread notifications")
	return cmd
}

func newNotificationsReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <id>",
		Short: "Mark a notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureNotifications); err != nil {
				return err
			}
			if err := a.client.Notifications().MarkRead(ctx, args[0]); err != nil {
				return err
			}
			a.success("Marked notification %s as read", args[0])
			return nil
		}),
	}
}

func newNotificationsReadAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureNotifications); err != nil {
				return err
			}
			if err := a.client.Notifications().MarkAllRead(ctx); err != nil {
				return err
			}
			a.success("Marked all notifications as read")
			return nil
		}),
	}
}
