package cmd

import (
	"context"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/authz"
	"github.com/felixgeelhaar/painel/internal/domain"
)

func newClientsCmd() *cobra.Command {
	clientsCmd := &cobra.Command{
		Use:     "clients",
		Aliases: []string{"clientes"},
		Short:   "Manage CRM clients",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	clientsCmd.AddCommand(
		newClientsListCmd(),
		newClientsGetCmd(),
		newClientsCreateCmd(),
		newClientsUpdateCmd(),
		newClientsDeleteCmd(),
		newClientsOptionsCmd(),
	)
	return clientsCmd
}

func newClientsListCmd() *cobra.Command {
	var filter api.ClientFilter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients",
		Long: `List clients, optionally filtered.

Examples:
  painel clients list --status fechado
  painel clients list --search aurora --limit 20`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureClients); err != nil {
				return err
			}
			list, err := a.client.Clients().List(ctx, filter)
			if err != nil {
				return err
			}
			return a.show(list.Items, clientTable(list.Items))
		}),
	}

	flags := cmd.Flags()
	flags.StringVar(&filter.Status, "status", "", "sale status")
	flags.StringVar(&filter.SiteType, "site-type", "", "site type")
	flags.StringVar(&filter.Salesperson, "salesperson", "", "salesperson user id")
	flags.StringVar(&filter.LeadOrigin, "lead-origin", "", "lead origin")
	flags.StringVar(&filter.Search, "search", "", "free-text search")
	flags.IntVar(&filter.Page, "page", 0, "page number")
	flags.IntVar(&filter.Limit, "limit", 0, "page size")
	return cmd
}

func newClientsGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a client",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureClients); err != nil {
				return err
			}
			c, err := a.client.Clients().Get(ctx, args[0])
			if err != nil {
				return err
			}
			return a.show(c, clientFields(c))
		}),
	}
}

func newClientsCreateCmd() *cobra.Command {
	var p payload

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a client",
		Long: `Create a client from a file or from --set fields.

Examples:
  painel clients create --set nome="Aurora Modas" --set status=negociando --set preco=2500
  painel clients create --file cliente.yaml`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			client, err := decodePayload[domain.Client](&p)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureClients, authz.FeatureClientEdit); err != nil {
				return err
			}

			created, err := a.client.Clients().Create(ctx, client)
			if err != nil {
				return err
			}
			a.success("Created client %s", created.ID)
			return a.show(created, clientFields(created))
		}),
	}

	p.register(cmd)
	return cmd
}

func newClientsUpdateCmd() *cobra.Command {
	var p payload

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a client",
		Long: `Send the given fields of a client. Fields that are not passed are left unchanged.

Examples:
  painel clients update 64a9 --set status=fechado --set precoPago=1500`,
		Args: cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			fields, err := p.fields()
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureClients, authz.FeatureClientEdit); err != nil {
				return err
			}

			updated, err := a.client.Clients().Update(ctx, args[0], fields)
			if err != nil {
				return err
			}
			a.success("Updated client %s", args[0])
			return a.show(updated, clientFields(updated))
		}),
	}

	p.register(cmd)
	return cmd
}

func newClientsDeleteCmd() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a client",
		Args:  cobra.ExactArgs(1),
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureClients, authz.FeatureClientDelete); err != nil {
				return err
			}
			if err := confirmDelete(yes, "client "+args[0]); err != nil {
				return err
			}
			if err := a.client.Clients().Delete(ctx, args[0]); err != nil {
				return err
			}
			a.success("Deleted client %s", args[0])
			return nil
		}),
	}

	addYesFlag(cmd, &yes)
	return cmd
}

// clientOptions are the value lists of the client form
type clientOptions struct {
	SiteTypes      []string `json:"site_types" yaml:"site_types"`
	SaleStatuses   []string `json:"sale_statuses" yaml:"sale_statuses"`
	PaymentMethods []string `json:"payment_methods" yaml:"payment_methods"`
	LeadOrigins    []string `json:"lead_origins" yaml:"lead_origins"`
}

func (o clientOptions) table() optionTable {
	return optionTable{
		names: []string{"tipoSite", "status", "formaPagamento", "origemLead"},
		values: map[string][]string{
			"tipoSite":       o.SiteTypes,
			"status":         o.SaleStatuses,
			"formaPagamento": o.PaymentMethods,
			"origemLead":     o.LeadOrigins,
		},
	}
}

func loadClientOptions(ctx context.Context, clients *api.ClientService) (clientOptions, error) {
	var out clientOptions
	g, gctx := errgroup.WithContext(ctx)

	fetch := func(dst *[]string, f func(context.Context) ([]string, error)) {
		g.Go(func() error {
			v, err := f(gctx)
			*dst = v
			return err
		})
	}
	fetch(&out.SiteTypes, clients.SiteTypes)
	fetch(&out.SaleStatuses, clients.SaleStatuses)
	fetch(&out.PaymentMethods, clients.PaymentMethods)
	fetch(&out.LeadOrigins, clients.LeadOrigins)

	if err := g.Wait(); err != nil {
		return clientOptions{}, err
	}
	return out, nil
}

func newClientsOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Show the accepted site types, statuses, payment methods and lead origins",
		Args:  cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureClients); err != nil {
				return err
			}
			opts, err := loadClientOptions(ctx, a.client.Clients())
			if err != nil {
				return err
			}
			return a.show(opts, opts.table())
		}),
	}
}
