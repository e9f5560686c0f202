package cmd

import (
	"encoding/base64"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/authz"
	"github.com/felixgeelhaar/painel/internal/domain"
)

// maxAttachmentSize is the largest file accepted by --attach
const maxAttachmentSize = 5 << 20

func newTicketsCmd() *cobra.Command {
	ticketsCmd := &cobra.Command{
		Use:     "tickets",
		Aliases: []string{"chamados"},
		Short:   "Manage support tickets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	ticketsCmd.AddCommand(
		newTicketsListCmd(),
		newTicketsGetCmd(),
		newTicketsCreateCmd(),
		newTicketsUpdateCmd(),
		newTicketsCommentCmd(),
		newTicketsOptionsCmd(),
	)
	return ticketsCmd
}

func newTicketsListCmd() *cobra.Command {
	var filter api.TicketFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List tickets",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureTickets); err != nil {
				return err
			}
			list, err := a.client.Tickets().List(ctx, filter)
			if err != nil {
				return err
			}
			return a.show(list.Items, ticketTable(list.Items))
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&filter.Status, "status", "", "ticket status")
	flags.StringVar(&filter.Client, "client", "", "client id")
	flags.StringVar(&filter.Owner, "owner", "", "assigned user id")
	flags.IntVar(&filter.Page, "page", 0, "page number")
	flags.IntVar(&filter.Limit, "limit", 0, "page size")
	return cmd
}

func newTicketsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a ticket with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureTickets); err != nil {
				return err
			}
			t, err := a.client.Tickets().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return a.show(t, ticketView{t})
		}),
	}
}

func newTicketsCreateCmd() *cobra.Command {
	var (
		t       api.NewTicket
		attachs []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Open a ticket",
		Long: `Open a support ticket for a client. Files passed with --attach are sent
inline (up to 5 MiB each).

Examples:
  painel tickets create --client 64a9 --title "Site fora do ar" --priority alta
  painel tickets create --client 64a9 --title "Novo banner" --attach banner.png`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			for _, path := range attachs {
				att, err := readAttachment(path)
				if err != nil {
					return err
				}
				t.Attachments = append(t.Attachments, att)
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureTickets, authz.FeatureTicketCreate); err != nil {
				return err
			}

			created, err := a.client.Tickets().Create(ctx, t)
			if err != nil {
				return err
			}
			a.success("Opened ticket %s", created.ID)
			return a.show(created, ticketView{created})
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&t.Title, "title", "", "ticket title")
	flags.StringVar(&t.Description, "description", "", "ticket description")
	flags.StringVar(&t.Client, "client", "", "client id")
	flags.StringVar(&t.Priority, "priority", "", "priority")
	flags.StringVar(&t.Owner, "owner", "", "assigned user id")
	flags.StringArrayVar(&attachs, "attach", nil, "file to attach (repeatable)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("client")
	return cmd
}

func readAttachment(path string) (domain.Attachment, error) {
	info, err := os.Stat(path)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	if info.Size() > maxAttachmentSize {
		return domain.Attachment{}, fmt.Errorf("attachment %s is larger than 5 MiB", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("failed to read attachment: %w", err)
	}
	return domain.Attachment{
		Data:        base64.StdEncoding.EncodeToString(data),
		ContentType: http.DetectContentType(data),
		Filename:    filepath.Base(path),
	}, nil
}

func newTicketsUpdateCmd() *cobra.Command {
	var p payload

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a ticket",
		Long: `Send the given fields of a ticket. Fields that are not passed are left unchanged.

Examples:
  painel tickets update 64d0 --set status=resolvido
  painel tickets update 64d0 --set responsavel=64b7`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			fields, err := p.fields()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureTickets); err != nil {
				return err
			}

			updated, err := a.client.Tickets().Update(ctx, args[0], fields)
			if err != nil {
				return err
			}
			a.success("Updated ticket %s", args[0])
			return a.show(updated, ticketView{updated})
		}),
	}

	p.register(cmd)
	return cmd
}

func newTicketsCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "comment <id> <text>...",
		Short: "Comment on a ticket",
		Args:  cobra.MinimumNArgs(2),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			text := strings.TrimSpace(strings.Join(args[1:], " "))
			if text == "" {
				return fmt.Errorf("comment text is empty")
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureTickets); err != nil {
				return err
			}

			t, err := a.client.Tickets().Comment(ctx, args[0], text)
			if err != nil {
				return err
			}
			a.success("Commented on ticket %s", args[0])
			return a.show(t, ticketView{t})
		}),
	}
}

// ticketOptions are the value lists of the ticket form
type ticketOptions struct {
	Statuses   []string `json:"statuses" yaml:"statuses"`
	Priorities []string `json:"priorities" yaml:"priorities"`
}

func newTicketsOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the accepted ticket statuses and priorities",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureTickets); err != nil {
				return err
			}

			var opts ticketOptions
			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() (err error) {
				opts.Statuses, err = a.client.Tickets().Statuses(gctx)
				return err
			})
			g.Go(func() (err error) {
				opts.Priorities, err = a.client.Tickets().Priorities(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			return a.show(opts, optionTable{
				names:  []string{"status", "prioridade"},
				values: map[string][]string{"status": opts.Statuses, "prioridade": opts.Priorities},
			})
		}),
	}
}
