// Package dashboard aggregates the panel's landing statistics.
package dashboard

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/painel/internal/api"
	"github.com/felixgeelhaar/painel/internal/authz"
	"github.com/felixgeelhaar/painel/internal/domain"
)

// NoStatus labels records with an empty status
const NoStatus = "sem status"

// StatusCount is one bar of a by-status breakdown
type StatusCount struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// Stats is the dashboard summary for the current identity.
// Users and Posts are nil when the role may not see them.
type Stats struct {
	Users               *int          `json:"users,omitempty" yaml:"users,omitempty"`
	Posts               *int          `json:"posts,omitempty" yaml:"posts,omitempty"`
	Clients             int           `json:"clients" yaml:"clients"`
	Tickets             int           `json:"tickets" yaml:"tickets"`
	UnreadContacts      int           `json:"unread_contacts" yaml:"unread_contacts"`
	UnreadNotifications int           `json:"unread_notifications" yaml:"unread_notifications"`
	TotalSales          float64       `json:"total_sales" yaml:"total_sales"`
	TotalReceived       float64       `json:"total_received" yaml:"total_received"`
	ClientsByStatus     []StatusCount `json:"clients_by_status" yaml:"clients_by_status"`
	TicketsByStatus     []StatusCount `json:"tickets_by_status" yaml:"tickets_by_status"`
}

// Load fetches every list the dashboard needs concurrently. Users and posts
// are only requested when gate allows them. Any failure fails the whole load.
func Load(ctx context.Context, client *api.Client, gate *authz.Gate) (*Stats, error) {
	var (
		stats   Stats
		clients []domain.Client
		tickets []domain.Ticket
	)

	g, gctx := errgroup.WithContext(ctx)

	if gate.Allowed(authz.FeatureUsers) {
		g.Go(func() error {
			list, err := client.Users().List(gctx, api.UserFilter{})
			if err != nil {
				return err
			}
			n := list.Total
			stats.Users = &n
			return nil
		})
	}
	if gate.Allowed(authz.FeaturePosts) {
		g.Go(func() error {
			list, err := client.Posts().List(gctx, api.PostFilter{})
			if err != nil {
				return err
			}
			n := list.Total
			stats.Posts = &n
			return nil
		})
	}
	g.Go(func() error {
		list, err := client.Clients().List(gctx, api.ClientFilter{})
		if err != nil {
			return err
		}
		clients = list.Items
		stats.Clients = list.Total
		return nil
	})
	g.Go(func() error {
		list, err := client.Tickets().List(gctx, api.TicketFilter{})
		if err != nil {
			return err
		}
		tickets = list.Items
		stats.Tickets = list.Total
		return nil
	})
	g.Go(func() error {
		n, err := client.Contacts().UnreadCount(gctx)
		stats.UnreadContacts = n
		return err
	})
	g.Go(func() error {
		n, err := client.Notifications().UnreadCount(gctx)
		stats.UnreadNotifications = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range clients {
		stats.TotalSales += clients[i].PriceValue()
		stats.TotalReceived += clients[i].PaidValue()
	}

	stats.ClientsByStatus = CountByStatus(clients, func(c domain.Client) string { return c.Status })
	stats.TicketsByStatus = CountByStatus(tickets, func(t domain.Ticket) string { return t.Status })

	return &stats, nil
}

// CountByStatus groups items by status label, largest group first.
// Empty statuses count as NoStatus; underscores become spaces.
func CountByStatus[T any](items []T, status func(T) string) []StatusCount {
	counts := make(map[string]int)
	for _, item := range items {
		counts[StatusLabel(status(item))]++
	}

	out := make([]StatusCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, StatusCount{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// StatusLabel renders a wire status for display
func StatusLabel(status string) string {
	status = strings.TrimSpace(status)
	if status == "" {
		return NoStatus
	}
	return strings.ReplaceAll(status, "_", " ")
}
