package cmd

import (
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/authz"
	"github.com/felixgeelhaar/painel/internal/domain"
)

func newPostsCmd() *cobra.Command {
	postsCmd := &cobra.Command{
		Use:     "posts",
		Aliases: []string{"projetos"},
		Short:   "Manage portfolio posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	postsCmd.AddCommand(
		newPostsListCmd(),
		newPostsGetCmd(),
		newPostsCreateCmd(),
		newPostsUpdateCmd(),
		newPostsDeleteCmd(),
	)
	return postsCmd
}

func newPostsListCmd() *cobra.Command {
	var filter api.PostFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeaturePosts); err != nil {
				return err
			}
			filter.Published = boolFlag(cmd, "published")

			list, err := a.client.Posts().List(ctx, filter)
			if err != nil {
				return err
			}
			return a.show(list.Items, postTable(list.Items))
		}),
	}

	cmd.Flags().Bool("published", true, "only published (true) or draft (false) posts")
	cmd.Flags().IntVar(&filter.Page, "page", 0, "page number")
	cmd.Flags().IntVar(&filter.Limit, "limit", 0, "page size")
	return cmd
}

func newPostsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a post",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeaturePosts); err != nil {
				return err
			}
			p, err := a.client.Posts().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return a.show(p, postFields(p))
		}),
	}
}

func newPostsCreateCmd() *cobra.Command {
	var p payload

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a post",
		Long: `Create a post from a file or from --set fields.

Examples:
  painel posts create --set titulo="Loja Aurora" --set publicado=true
  painel posts create --file post.yaml`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			post, err := decodePayload[domain.Post](&p)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeaturePosts, authz.FeaturePostEdit); err != nil {
				return err
			}

			created, err := a.client.Posts().Create(ctx, post)
			if err != nil {
				return err
			}
			a.success("Created post %s", created.ID)
			return a.show(created, postFields(created))
		}),
	}

	p.register(cmd)
	return cmd
}

func newPostsUpdateCmd() *cobra.Command {
	var p payload

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a post",
		Long: `Send the given fields of a post. Fields that are not passed are left unchanged.

Examples:
  painel posts update 64c1 --set publicado=false`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			fields, err := p.fields()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeaturePosts, authz.FeaturePostEdit); err != nil {
				return err
			}

			updated, err := a.client.Posts().Update(ctx, args[0], fields)
			if err != nil {
				return err
			}
			a.success("Updated post %s", args[0])
			return a.show(updated, postFields(updated))
		}),
	}

	p.register(cmd)
	return cmd
}

func newPostsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a post",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeaturePosts, authz.FeaturePostDelete); err != nil {
				return err
			}
			if err := confirmDelete(yes, "post "+args[0]); err != nil {
				return err
			}
			if err := a.client.Posts().Delete(ctx, args[0]); err != nil {
				return err
			}
			a.success("Deleted post %s", args[0])
			return nil
		}),
	}

	addYesFlag(cmd, &yes)
	return cmd
}
