package cmd

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/painel/internal/authz"
	"github.com/felixgeelhaar/painel/internal/dashboard"
	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/poll"
	"github.com/felixgeelhaar/painel/internal/tui"
)

// statsView is the plain-text dashboard used with --once
type statsView struct {
	*dashboard.Stats
}

func (v statsView) String() string {
	f := fields{}
	if v.Users != nil {
		f = append(f, [2]string{"usuários", strconv.Itoa(*v.Users)})
	}
	if v.Posts != nil {
		f = append(f, [2]string{"projetos", strconv.Itoa(*v.Posts)})
	}
	f = append(f,
		[2]string{"clientes", strconv.Itoa(v.Clients)},
		[2]string{"chamados", strconv.Itoa(v.Tickets)},
		[2]string{"contatos não lidos", strconv.Itoa(v.UnreadContacts)},
		[2]string{"notificações não lidas", strconv.Itoa(v.UnreadNotifications)},
		[2]string{"total em vendas", tui.FormatBRL(v.TotalSales)},
		[2]string{"total recebido", tui.FormatBRL(v.TotalReceived)},
	)

	var b strings.Builder
	for _, row := range f.Rows() {
		fmt.Fprintf(&b, "%-24s %s\n", row[0]+":", row[1])
	}
	writeBreakdown(&b, "clientes por status", v.ClientsByStatus)
	writeBreakdown(&b, "chamados por status", v.TicketsByStatus)
	return strings.TrimRight(b.String(), "\n")
}

func writeBreakdown(b *strings.Builder, title string, counts []dashboard.StatusCount) {
	if len(counts) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, c := range counts {
		fmt.Fprintf(b, "  %-22s %d\n", c.Name, c.Count)
	}
}

func newDashboardCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Open the interactive dashboard",
		Long: `Open the interactive dashboard with totals, sales figures and the
by-status breakdowns your role may see. Unread counters refresh every poll
interval.

Keys: r refresh, ? help, q quit.

Without a terminal, or with --once, the statistics are printed once.`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			identity, err := a.require(ctx, authz.FeatureDashboard)
			if err != nil {
				return err
			}

			load := func(ctx context.Context) (*dashboard.Stats, error) {
				return dashboard.Load(ctx, a.client, a.gate)
			}

			if once || !a.textOutput() || !isatty.IsTerminal(os.Stdout.Fd()) {
				stats, err := load(ctx)
				if err != nil {
					return err
				}
				return a.show(stats, statsView{stats})
			}

			model := tui.NewModel(ctx, tui.Config{
				Identity: identity,
				Load:     load,
				Unread: func(ctx context.Context) (poll.Unread, error) {
					return poll.UnreadCounts(ctx, a.client.Notifications(), a.client.Contacts())
				},
				PollInterval: a.cfg.Poll.Interval,
			})

			final, err := tea.NewProgram(model,
				tea.WithContext(ctx),
				tea.WithAltScreen(),
				tea.WithOutput(a.out),
			).Run()
			if err != nil && !stderrors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("dashboard failed: %w", err)
			}

			if m, ok := final.(tui.Model); ok && m.Expired() {
				return errors.NewSessionExpired()
			}
			return nil
		}),
	}

	cmd.Flags().BoolVar(&once, "once", false, "print the statistics once instead of opening the dashboard")
	return cmd
}
