package tui

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/painel/internal/dashboard"
	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/poll"
)

func intPtr(n int) *int { return &n }

func sampleStats() *dashboard.Stats {
	return &dashboard.Stats{
		Users:               intPtr(4),
		Clients:             12,
		Tickets:             7,
		UnreadContacts:      2,
		UnreadNotifications: 3,
		TotalSales:          1500,
		TotalReceived:       1234.5,
		ClientsByStatus: []dashboard.StatusCount{
			{Name: "fechado", Count: 8},
			{Name: "negociando", Count: 4},
		},
	}
}

func newTestModel(t *testing.T, load func(context.Context) (*dashboard.Stats, error), unread func(context.Context) (poll.Unread, error)) Model {
	t.Helper()
	if load == nil {
		load = func(context.Context) (*dashboard.Stats, error) { return sampleStats(), nil }
	}
	if unread == nil {
		unread = func(context.Context) (poll.Unread, error) { return poll.Unread{}, nil }
	}
	m := NewModel(context.Background(), Config{
		Identity: &domain.Identity{ID: "u1", DisplayName: "Ana", Role: domain.RoleAdmin},
		Load:     load,
		Unread:   unread,
	})
	t.Cleanup(m.cancel)
	return m
}

// isQuit runs cmd and reports whether it produced tea.Quit
func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewModel(t *testing.T) {
	m := newTestModel(t, nil, nil)

	if !m.loading {
		t.Error("new model should be loading")
	}
	if m.cfg.PollInterval != poll.DefaultInterval {
		t.Errorf("PollInterval = %v, want %v", m.cfg.PollInterval, poll.DefaultInterval)
	}
	if m.Init() == nil {
		t.Error("Init() should return a command")
	}
}

func TestStatsLoaded(t *testing.T) {
	m := newTestModel(t, nil, nil)

	updated, cmd := m.Update(m.load()())
	m = updated.(Model)

	if cmd != nil {
		t.Error("a successful load should not return a command")
	}
	if m.loading {
		t.Error("loading should be false after stats arrive")
	}
	if m.Stats() == nil || m.Stats().Clients != 12 {
		t.Fatalf("Stats() = %+v", m.Stats())
	}
	want := poll.Unread{Notifications: 3, Contacts: 2}
	if m.Unread() != want {
		t.Errorf("Unread() = %+v, want %+v", m.Unread(), want)
	}
}

func TestStatsUnauthorizedQuits(t *testing.T) {
	m := newTestModel(t, func(context.Context) (*dashboard.Stats, error) {
		return nil, errors.NewUnauthorized("")
	}, nil)

	updated, cmd := m.Update(m.load()())
	m = updated.(Model)

	if !m.Expired() {
		t.Error("a 401 should mark the dashboard expired")
	}
	if !isQuit(cmd) {
		t.Error("a 401 should quit the program")
	}
	if m.ctx.Err() == nil {
		t.Error("quitting should cancel in-flight requests")
	}
}

func TestStatsServerErrorKeepsRunning(t *testing.T) {
	m := newTestModel(t, func(context.Context) (*dashboard.Stats, error) {
		return nil, errors.NewServer(500, "")
	}, nil)

	updated, cmd := m.Update(m.load()())
	m = updated.(Model)

	if isQuit(cmd) {
		t.Error("a server error should not quit")
	}
	if m.Expired() {
		t.Error("a server error is not an expired session")
	}
	if m.Err() == nil || m.Err().Error() != "Error 500" {
		t.Errorf("Err() = %v", m.Err())
	}
	if !strings.Contains(m.View(), "Error 500") {
		t.Error("View() should show the error")
	}
}

func TestUnreadPoll(t *testing.T) {
	calls := 0
	m := newTestModel(t, nil, func(context.Context) (poll.Unread, error) {
		calls++
		if calls > 1 {
			return poll.Unread{}, fmt.Errorf("temporary failure")
		}
		return poll.Unread{Notifications: 9, Contacts: 1}, nil
	})

	updated, _ := m.Update(m.fetchUnread()())
	m = updated.(Model)
	want := poll.Unread{Notifications: 9, Contacts: 1}
	if m.Unread() != want {
		t.Fatalf("Unread() = %+v, want %+v", m.Unread(), want)
	}

	updated, cmd := m.Update(m.fetchUnread()())
	m = updated.(Model)
	if cmd != nil {
		t.Error("a failed poll should not return a command")
	}
	if m.Unread() != want {
		t.Errorf("a failed poll should keep the previous counts, got %+v", m.Unread())
	}
	if m.Err() != nil {
		t.Errorf("a failed poll should not surface an error, got %v", m.Err())
	}
}

func TestUnreadUnauthorizedQuits(t *testing.T) {
	m := newTestModel(t, nil, func(context.Context) (poll.Unread, error) {
		return poll.Unread{}, errors.NewUnauthorized("")
	})

	updated, cmd := m.Update(m.fetchUnread()())
	m = updated.(Model)

	if !m.Expired() || !isQuit(cmd) {
		t.Error("a 401 while polling should end the dashboard")
	}
}

func TestPollTick(t *testing.T) {
	m := newTestModel(t, nil, nil)

	_, cmd := m.Update(pollTickMsg(time.Now()))
	if cmd == nil {
		t.Error("a poll tick should fetch and reschedule")
	}

	m.quitting = true
	_, cmd = m.Update(pollTickMsg(time.Now()))
	if cmd != nil {
		t.Error("a poll tick after quitting should do nothing")
	}
}

func TestKeys(t *testing.T) {
	t.Run("quit", func(t *testing.T) {
		m := newTestModel(t, nil, nil)
		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
		m = updated.(Model)

		if !isQuit(cmd) {
			t.Error("q should quit")
		}
		if m.ctx.Err() == nil {
			t.Error("q should cancel the context")
		}
		if m.View() != "" {
			t.Error("View() should be empty after quitting")
		}
	})

	t.Run("refresh", func(t *testing.T) {
		loads := 0
		m := newTestModel(t, func(context.Context) (*dashboard.Stats, error) {
			loads++
			return sampleStats(), nil
		}, nil)
		updated, _ := m.Update(m.load()())
		m = updated.(Model)
		if loads != 1 {
			t.Fatalf("loads = %d, want 1", loads)
		}

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
		m = updated.(Model)
		if !m.loading || cmd == nil {
			t.Fatal("r should start a reload")
		}

		_, again := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
		if again != nil {
			t.Error("r while loading should be ignored")
		}
	})

	t.Run("help", func(t *testing.T) {
		m := newTestModel(t, nil, nil)
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
		if !updated.(Model).help.ShowAll {
			t.Error("? should expand the help")
		}
	})
}

func TestView(t *testing.T) {
	m := newTestModel(t, nil, nil)

	if !strings.Contains(m.View(), "Carregando") {
		t.Error("View() should show the loading state")
	}

	updated, _ := m.Update(m.load()())
	view := updated.(Model).View()

	for _, want := range []string{"Ana", "Usuários", "Clientes", "12", "R$ 1.500,00", "R$ 1.234,50", "fechado", "negociando"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
	if strings.Contains(view, "Projetos") {
		t.Error("View() should hide the posts card when Posts is nil")
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "R$ 0,00"},
		{9.5, "R$ 9,50"},
		{1500, "R$ 1.500,00"},
		{1234567.891, "R$ 1.234.567,89"},
		{-42, "-R$ 42,00"},
	}

	for _, tt := range tests {
		if got := FormatBRL(tt.in); got != tt.want {
			t.Errorf("FormatBRL(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
