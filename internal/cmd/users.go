package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/authz"
	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
)

func newUsersCmd() *cobra.Command {
	usersCmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"usuarios"},
		Short:   "Manage panel users (admin, ceo)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	usersCmd.AddCommand(
		newUsersListCmd(),
		newUsersGetCmd(),
		newUsersCreateCmd(),
		newUsersUpdateCmd(),
		newUsersDeleteCmd(),
		newUsersRolesCmd(),
	)
	return usersCmd
}

func newUsersListCmd() *cobra.Command {
	var filter api.UserFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureUsers); err != nil {
				return err
			}
			if filter.Role != "" {
				if _, err := domain.NewRole(filter.Role); err != nil {
					return err
				}
			}
			filter.Active = boolFlag(cmd, "active")

			list, err := a.client.Users().List(ctx, filter)
			if err != nil {
				return err
			}
			return a.show(list.Items, userTable(list.Items))
		}),
	}

	cmd.Flags().StringVar(&filter.Role, "role", "", "only users with this role")
	cmd.Flags().Bool("active", true, "only active (true) or inactive (false) users")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "page size")
	return cmd
}

func newUsersGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureUsers); err != nil {
				return err
			}
			u, err := a.client.Users().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return a.show(u, userFields(u))
		}),
	}
}

func newUsersCreateCmd() *cobra.Command {
	var (
		nu       domain.NewUser
		role     string
		inactive bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long: `Create a panel user.

Examples:
  painel users create --name "Bia" --email bia@example.com --password s3nha --role vendedor`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			r, err := domain.NewRole(role)
			if err != nil {
				return err
			}
			nu.Role = r
			if inactive {
				active := false
				nu.Active = &active
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureUsers, authz.FeatureUserEdit); err != nil {
				return err
			}

			u, err := a.client.Users().Create(ctx, nu)
			if err != nil {
				return err
			}
			a.success("Created user %s", u.ID)
			return a.show(u, userFields(u))
		}),
	}

	cmd.Flags().StringVar(&nu.DisplayName, "name", "", "display name")
	cmd.Flags().StringVar(&nu.Email, "email", "", "login email")
	cmd.Flags().StringVar(&nu.Secret, "password", "", "initial password")
	cmd.Flags().StringVar(&role, "role", "", fmt.Sprintf("role: %v", domain.RoleNames(domain.AllRoles)))
	cmd.Flags().BoolVar(&inactive, "inactive", false, "create the user disabled")
	for _, name := range []string{"name", "email", "password", "role"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newUsersUpdateCmd() *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a user",
		Long: `Update the given fields of a user. Fields that are not passed are left unchanged.

Examples:
  painel users update 64b7 --role suporte
  painel users update 64b7 --active=false`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			var patch domain.UserPatch
			flags := cmd.Flags()
			if flags.Changed("name") {
				patch.DisplayName = &name
			}
			if flags.Changed("email") {
				patch.Email = &email
			}
			if flags.Changed("password") {
				patch.Secret = &password
			}
			if flags.Changed("role") {
				r, err := domain.NewRole(role)
				if err != nil {
					return err
				}
				patch.Role = &r
			}
			patch.Active = boolFlag(cmd, "active")
			if patch == (domain.UserPatch{}) {
				return fmt.Errorf("nothing to update")
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureUsers, authz.FeatureUserEdit); err != nil {
				return err
			}

			u, err := a.client.Users().Update(ctx, args[0], patch)
			if err != nil {
				return err
			}
			a.success("Updated user %s", args[0])
			return a.show(u, userFields(u))
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login email")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	cmd.Flags().StringVar(&role, "role", "", "role")
	cmd.Flags().Bool("active", true, "enable or disable the user")
	return cmd
}

func newUsersDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			identity, err := a.require(ctx, authz.FeatureUsers, authz.FeatureUserDelete)
			if err != nil {
				return err
			}
			if identity != nil && args[0] == identity.ID {
				return errors.NewSelfDeleteDenied()
			}
			if err := confirmDelete(yes, "user "+args[0]); err != nil {
				return err
			}
			if err := a.client.Users().Delete(ctx, args[0]); err != nil {
				return err
			}
			a.success("Deleted user %s", args[0])
			return nil
		}),
	}

	addYesFlag(cmd, &yes)
	return cmd
}

func newUsersRolesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "List the roles the server accepts",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureUsers); err != nil {
				return err
			}
			roles, err := a.client.Users().Roles(ctx)
			if err != nil {
				return err
			}
			return a.show(roles, optionTable{
				names:  []string{"roles"},
				values: map[string][]string{"roles": roles},
			})
		}),
	}
}
