package poll

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/painel/internal/log"
)

func TestNewValidation(t *testing.T) {
	_, err := New(Config[int]{Deliver: func(int) {}})
	assert.Error(t, err)

	_, err = New(Config[int]{Fetch: func(context.Context) (int, error) { return 0, nil }})
	assert.Error(t, err)

	p, err := New(Config[int]{
		Fetch:   func(context.Context) (int, error) { return 0, nil },
		Deliver: func(int) {},
	})
	require.NoError(t, err)
	assert.Equal(t, DefaultInterval, p.interval)
}

func TestPollerFetchesImmediatelyAndOnTick(t *testing.T) {
	var calls atomic.Int32
	results := make(chan int, 16)

	p, err := New(Config[int]{
		Fetch: func(context.Context) (int, error) {
			return int(calls.Add(1)), nil
		},
		Deliver:  func(v int) { results <- v },
		Interval: 10 * time.Millisecond,
		Logger:   log.Discard(),
	})
	require.NoError(t, err)

	p.Start(context.Background())
	defer p.Stop()

	for want := 1; want <= 3; want++ {
		select {
		case got := <-results:
			assert.Equal(t, want, got)
		case <-time.After(time.Second):
			t.Fatalf("no result %d", want)
		}
	}
}

func TestPollerErrorsAreSkipped(t *testing.T) {
	var calls atomic.Int32
	results := make(chan int, 16)

	p, err := New(Config[int]{
		Fetch: func(context.Context) (int, error) {
			n := calls.Add(1)
			if n == 1 {
				return 0, fmt.Errorf("offline")
			}
			return int(n), nil
		},
		Deliver:  func(v int) { results <- v },
		Interval: 5 * time.Millisecond,
		Logger:   log.Discard(),
	})
	require.NoError(t, err)

	p.Start(context.Background())
	defer p.Stop()

	select {
	case got := <-results:
		assert.Equal(t, 2, got, "the failed first fetch delivers nothing")
	case <-time.After(time.Second):
		t.Fatal("no result after error")
	}
}

func TestPollerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	p, err := New(Config[int]{
		Fetch:    func(context.Context) (int, error) { return 1, nil },
		Deliver:  func(int) {},
		Interval: time.Hour,
		Logger:   log.Discard(),
	})
	require.NoError(t, err)

	p.Start(ctx)
	cancel()

	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("poller did not exit after cancel")
	}
	p.Stop()
}

func TestPollerStopIsIdempotent(t *testing.T) {
	var delivered atomic.Int32
	p, err := New(Config[int]{
		Fetch:    func(context.Context) (int, error) { return 1, nil },
		Deliver:  func(int) { delivered.Add(1) },
		Interval: 5 * time.Millisecond,
		Logger:   log.Discard(),
	})
	require.NoError(t, err)

	p.Start(context.Background())
	p.Start(context.Background())
	time.Sleep(20 * time.Millisecond)

	p.Stop()
	p.Stop()

	after := delivered.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, after, delivered.Load(), "no deliveries after Stop")
}

func TestPollerStopBeforeStart(t *testing.T) {
	p, err := New(Config[int]{
		Fetch:   func(context.Context) (int, error) { return 1, nil },
		Deliver: func(int) {},
		Logger:  log.Discard(),
	})
	require.NoError(t, err)

	stopped := make(chan struct{})
	go func() {
		p.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("Stop before Start blocked")
	}
}
