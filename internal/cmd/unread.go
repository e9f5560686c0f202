package cmd

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/painel/internal/authz"
	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/poll"
)

// unreadView is the text rendering of the inbox counters
type unreadView struct {
	poll.Unread
	At time.Time
}

func (v unreadView) String() string {
	line := fmt.Sprintf("notificações: %d  contatos: %d", v.Notifications, v.Contacts)
	if !v.At.IsZero() {
		line = v.At.Format("15:04:05") + "  " + line
	}
	return line
}

func newUnreadCmd() *cobra.Command {
	var (
		watch    bool
		interval time.Duration
		count    int
	)

	cmd := &cobra.Command{
		Use:   "unread",
		Short: "Show the unread notification and contact counters",
		Long: `Show how many notifications and contact messages are unread.

With --watch the counters are refreshed every poll interval (poll.interval in
the config, 30s by default) until interrupted.

Examples:
  painel unread
  painel unread --watch --interval 1m`,
		Args: cobra.NoArgs,
		RunE: withApp(func(cmd *cobra.Command, a *app, args []string) error {
			ctx := cmd.Context()
			if _, err := a.require(ctx, authz.FeatureNotifications, authz.FeatureContacts); err != nil {
				return err
			}

			fetch := func(ctx context.Context) (poll.Unread, error) {
				return poll.UnreadCounts(ctx, a.client.Notifications(), a.client.Contacts())
			}

			if !watch {
				u, err := fetch(ctx)
				if err != nil {
					return err
				}
				return a.show(u, unreadView{Unread: u})
			}

			if !cmd.Flags().Changed("interval") {
				interval = a.cfg.Poll.Interval
			}
			return watchUnread(ctx, a, fetch, interval, count)
		}),
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "keep polling until interrupted")
	cmd.Flags().DurationVar(&interval, "interval", poll.DefaultInterval, "poll interval with --watch")
	cmd.Flags().IntVar(&count, "count", 0, "stop after this many updates with --watch (0 = no limit)")
	return cmd
}

// watchUnread prints the counters on every poll until ctx ends, count updates
// were printed or the session is invalidated
func watchUnread(ctx context.Context, a *app, fetch func(context.Context) (poll.Unread, error), interval time.Duration, count int) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		authErr   atomic.Pointer[error]
		delivered atomic.Int64
		printErr  atomic.Pointer[error]
	)

	p, err := poll.New(poll.Config[poll.Unread]{
		Fetch: func(ctx context.Context) (poll.Unread, error) {
			u, err := fetch(ctx)
			if errors.IsUnauthorized(err) {
				authErr.CompareAndSwap(nil, &err)
				cancel()
			}
			return u, err
		},
		Deliver: func(u poll.Unread) {
			if err := a.show(u, unreadView{Unread: u, At: time.Now()}); err != nil {
				printErr.CompareAndSwap(nil, &err)
				cancel()
				return
			}
			if count > 0 && delivered.Add(1) >= int64(count) {
				cancel()
			}
		},
		Interval: interval,
		Logger:   a.logger,
	})
	if err != nil {
		return err
	}

	p.Start(ctx)
	<-p.Done()
	p.Stop()

	if errp := authErr.Load(); errp != nil {
		return *errp
	}
	if errp := printErr.Load(); errp != nil {
		return *errp
	}
	return nil
}
