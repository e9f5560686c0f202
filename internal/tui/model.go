// Package tui is the interactive terminal dashboard.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/painel/internal/dashboard"
	"github.com/felixgeelhaar/painel/internal/domain"
	"github.com/felixgeelhaar/painel/internal/errors"
	"github.com/felixgeelhaar/painel/internal/poll"
)

// Config holds the dashboard's data sources.
type Config struct {
	// Identity is shown in the header
	Identity *domain.Identity

	// Load fetches the full statistics (required)
	Load func(ctx context.Context) (*dashboard.Stats, error)

	// Unread fetches the inbox counters on every poll tick (required)
	Unread func(ctx context.Context) (poll.Unread, error)

	// PollInterval (default: poll.DefaultInterval)
	PollInterval time.Duration
}

// Model is the dashboard state
type Model struct {
	cfg    Config
	ctx    context.Context
	cancel context.CancelFunc

	stats   *dashboard.Stats
	unread  poll.Unread
	polled  time.Time
	loading bool
	lastErr error
	expired bool

	width    int
	showHelp bool
	quitting bool

	spinner spinner.Model
	help    help.Model
	keys    KeyMap
	styles  Styles
}

// Styles contains lipgloss styles for the dashboard
type Styles struct {
	Title   lipgloss.Style
	Label   lipgloss.Style
	Value   lipgloss.Style
	Card    lipgloss.Style
	Section lipgloss.Style
	Bar     lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Badge   lipgloss.Style
}

// DefaultStyles returns the default lipgloss styles
func DefaultStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")). // Sky
			MarginBottom(1),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		Value: lipgloss.NewStyle().
			Bold(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("39")).
			Padding(0, 2).
			MarginRight(1),
		Section: lipgloss.NewStyle().
			Bold(true).
			MarginTop(1),
		Bar: lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")), // Green
		Error: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		Badge: lipgloss.NewStyle().
			Background(lipgloss.Color("196")).
			Foreground(lipgloss.Color("231")).
			Padding(0, 1),
	}
}

// NewModel creates the dashboard model. Cancelling parent stops every
// in-flight request; so does quitting.
func NewModel(parent context.Context, cfg Config) Model {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = poll.DefaultInterval
	}
	ctx, cancel := context.WithCancel(parent)

	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		cfg:     cfg,
		ctx:     ctx,
		cancel:  cancel,
		loading: true,
		spinner: s,
		help:    help.New(),
		keys:    DefaultKeyMap(),
		styles:  DefaultStyles(),
	}
}

// Messages

type statsMsg struct {
	stats *dashboard.Stats
	err   error
}

type unreadMsg struct {
	unread poll.Unread
	at     time.Time
	err    error
}

type pollTickMsg time.Time

// Init starts the spinner, the first load and the poll timer
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.schedulePoll())
}

func (m Model) load() tea.Cmd {
	ctx, load := m.ctx, m.cfg.Load
	return func() tea.Msg {
		stats, err := load(ctx)
		return statsMsg{stats: stats, err: err}
	}
}

func (m Model) fetchUnread() tea.Cmd {
	ctx, unread := m.ctx, m.cfg.Unread
	return func() tea.Msg {
		u, err := unread(ctx)
		return unreadMsg{unread: u, at: time.Now(), err: err}
	}
}

func (m Model) schedulePoll() tea.Cmd {
	return tea.Tick(m.cfg.PollInterval, func(t time.Time) tea.Msg {
		return pollTickMsg(t)
	})
}

// Update handles messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case statsMsg:
		m.loading = false
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.stats = msg.stats
		m.lastErr = nil
		m.unread = poll.Unread{
			Notifications: msg.stats.UnreadNotifications,
			Contacts:      msg.stats.UnreadContacts,
		}
		return m, nil

	case pollTickMsg:
		if m.quitting {
			return m, nil
		}
		return m, tea.Batch(m.fetchUnread(), m.schedulePoll())

	case unreadMsg:
		if msg.err != nil {
			if errors.IsUnauthorized(msg.err) {
				return m.fail(msg.err)
			}
			// Poll failures keep the previous counts
			return m, nil
		}
		m.unread = msg.unread
		m.polled = msg.at
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.load())
	}
	return m, nil
}

// fail records err; a 401 ends the dashboard
func (m Model) fail(err error) (tea.Model, tea.Cmd) {
	if errors.IsUnauthorized(err) {
		m.expired = true
		m.lastErr = err
		return m.quit()
	}
	if m.ctx.Err() != nil {
		return m, nil
	}
	m.lastErr = err
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.cancel()
	return m, tea.Quit
}

// Expired reports whether the dashboard ended because the session expired
func (m Model) Expired() bool {
	return m.expired
}

// Err returns the last load error
func (m Model) Err() error {
	return m.lastErr
}

// Stats returns the last loaded statistics
func (m Model) Stats() *dashboard.Stats {
	return m.stats
}

// Unread returns the latest inbox counters
func (m Model) Unread() poll.Unread {
	return m.unread
}
