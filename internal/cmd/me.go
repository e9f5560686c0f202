package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/painel/internal/domain"
)

func newMeCmd() *cobra.Command {
	meCmd := &cobra.Command{
		Use:   "me",
		Short: "Show or update your profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	meCmd.AddCommand(newMeShowCmd(), newMeUpdateCmd())
	return meCmd
}

func newMeShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the logged-in profile",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			identity, err := a.authenticate(cmd.Context())
			if err != nil {
				return err
			}
			return a.show(identity, userFields(identity))
		}),
	}
}

func newMeUpdateCmd() *cobra.Command {
	var (
		name        string
		avatar      string
		clearAvatar bool
	)

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update your name or avatar",
		Long: `Update the display name or the avatar of the logged-in profile.
Only the fields the server confirms are stored locally.

Examples:
  painel me update --name "Ana Souza"
  painel me update --avatar "data:image/png;base64,..."
  painel me update --clear-avatar`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			var patch domain.IdentityPatch
			if cmd.Flags().Changed("name") {
				patch.DisplayName = &name
			}
			if cmd.Flags().Changed("avatar") {
				patch.Avatar = &avatar
			}
			patch.ClearAvatar = clearAvatar
			if patch.Avatar != nil && patch.ClearAvatar {
				return fmt.Errorf("--avatar and --clear-avatar are mutually exclusive")
			}
			if patch.Empty() {
				return fmt.Errorf("nothing to update: pass --name, --avatar or --clear-avatar")
			}

			ctx := cmd.Context()
			if _, err := a.authenticate(ctx); err != nil {
				return err
			}

			identity, err := a.session.UpdateIdentity(ctx, patch)
			if err != nil {
				return err
			}
			a.success("Profile updated")
			return a.show(identity, userFields(identity))
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "new display name")
	cmd.Flags().StringVar(&avatar, "avatar", "", "new avatar (data URL)")
	cmd.Flags().BoolVar(&clearAvatar, "clear-avatar", false, "remove the avatar")
	return cmd
}
