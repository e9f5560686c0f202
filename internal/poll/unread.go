package poll

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Counter returns a single unread count
type Counter interface {
	UnreadCount(ctx context.Context) (int, error)
}

// Unread holds the two inbox counters
type Unread struct {
	Notifications int `json:"notifications" yaml:"notifications"`
	Contacts      int `json:"contacts" yaml:"contacts"`
}

// Total returns the sum of both counters
func (u Unread) Total() int {
	return u.Notifications + u.Contacts
}

// UnreadCounts fetches both counters concurrently. It fails if either fails.
func UnreadCounts(ctx context.Context, notifications, contacts Counter) (Unread, error) {
	var out Unread
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := notifications.UnreadCount(gctx)
		out.Notifications = n
		return err
	})
	g.Go(func() error {
		n, err := contacts.UnreadCount(gctx)
		out.Contacts = n
		return err
	})

	if err := g.Wait(); err != nil {
		return Unread{}, err
	}
	return out, nil
}
