// Package poll runs periodic background fetches, such as the unread counters
// shown next to the inbox entries.
package poll

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/painel/internal/log"
)

// DefaultInterval is how often unread counts are refreshed
const DefaultInterval = 30 * time.Second

// Poller calls Fetch immediately and then on every tick until stopped.
type Poller[T any] struct {
	fetch    func(ctx context.Context) (T, error)
	deliver  func(T)
	interval time.Duration
	logger   *log.Logger

	startOnce sync.Once
	stopOnce  sync.Once
	stopChan  chan struct{}
	done      chan struct{}
	started   bool
	mu        sync.Mutex
}

// Config holds poller configuration.
type Config[T any] struct {
	Fetch    func(ctx context.Context) (T, error) // required
	Deliver  func(T)                             // receives every successful result (required)
	Interval time.Duration                       // default: DefaultInterval
	Logger   *log.Logger                         // default: log.DefaultLogger
}

// New creates a poller. It does nothing until Start.
func New[T any](cfg Config[T]) (*Poller[T], error) {
	if cfg.Fetch == nil {
		return nil, fmt.Errorf("fetch is required")
	}
	if cfg.Deliver == nil {
		return nil, fmt.Errorf("deliver is required")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.Logger == nil {
		cfg.Logger = log.DefaultLogger()
	}

	return &Poller[T]{
		fetch:    cfg.Fetch,
		deliver:  cfg.Deliver,
		interval: cfg.Interval,
		logger:   cfg.Logger.With("component", "poll"),
		stopChan: make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start launches the polling loop in its own goroutine. Later calls are
// no-ops. The loop ends when ctx is cancelled or Stop is called.
func (p *Poller[T]) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		p.mu.Lock()
		p.started = true
		p.mu.Unlock()

		go p.run(ctx)
	})
}

func (p *Poller[T]) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	defer close(p.done)

	p.logger.Debug("polling started", "interval", p.interval)

	p.tick(ctx)
	for {
		select {
		case <-ticker.C:
			p.tick(ctx)
		case <-p.stopChan:
			p.logger.Debug("polling stopped")
			return
		case <-ctx.Done():
			p.logger.Debug("polling cancelled")
			return
		}
	}
}

// tick fetches once. Errors are logged and the previous result stays.
func (p *Poller[T]) tick(ctx context.Context) {
	v, err := p.fetch(ctx)
	if err != nil {
		if ctx.Err() == nil {
			p.logger.WithError(err).Debug("poll failed")
		}
		return
	}

	select {
	case <-p.stopChan:
		return
	default:
	}
	p.deliver(v)
}

// Stop ends the loop and waits for it to exit. It is safe to call more than
// once and before Start.
func (p *Poller[T]) Stop() {
	p.stopOnce.Do(func() {
		close(p.stopChan)
	})

	p.mu.Lock()
	started := p.started
	p.mu.Unlock()
	if started {
		<-p.done
	}
}

// Done is closed when a started loop has exited
func (p *Poller[T]) Done() <-chan struct{} {
	return p.done
}
