package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/painel/internal/dashboard"
)

const maxBarWidth = 30

// View renders the dashboard
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.stats == nil && m.loading:
		b.WriteString(m.spinner.View() + " Carregando...\n")
	case m.stats == nil:
		b.WriteString(m.styles.Muted.Render("No data loaded.") + "\n")
	default:
		b.WriteString(m.renderCards(m.stats))
		b.WriteString("\n")
		b.WriteString(m.renderMoney(m.stats))
		b.WriteString("\n")
		b.WriteString(m.renderBreakdown("Clientes por status", m.stats.ClientsByStatus))
		b.WriteString(m.renderBreakdown("Chamados por status", m.stats.TicketsByStatus))
	}

	if m.lastErr != nil {
		b.WriteString("\n" + m.styles.Error.Render("Error: "+m.lastErr.Error()) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader() string {
	title := "Painel"
	if id := m.cfg.Identity; id != nil {
		title += " · " + id.DisplayName + " (" + string(id.Role) + ")"
	}
	header := m.styles.Title.Render(title)

	var badges []string
	if n := m.unread.Notifications; n > 0 {
		badges = append(badges, m.styles.Badge.Render(fmt.Sprintf("%d notificações", n)))
	}
	if n := m.unread.Contacts; n > 0 {
		badges = append(badges, m.styles.Badge.Render(fmt.Sprintf("%d contatos", n)))
	}
	if m.loading && m.stats != nil {
		badges = append(badges, m.spinner.View())
	}
	if !m.polled.IsZero() {
		badges = append(badges, m.styles.Muted.Render("atualizado "+m.polled.Format("15:04:05")))
	}
	if len(badges) == 0 {
		return header
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, header, "  ", strings.Join(badges, " "))
}

func (m Model) card(label string, value int) string {
	return m.styles.Card.Render(m.styles.Label.Render(label) + "\n" + m.styles.Value.Render(strconv.Itoa(value)))
}

func (m Model) renderCards(s *dashboard.Stats) string {
	var cards []string
	if s.Users != nil {
		cards = append(cards, m.card("Usuários", *s.Users))
	}
	if s.Posts != nil {
		cards = append(cards, m.card("Projetos", *s.Posts))
	}
	cards = append(cards,
		m.card("Clientes", s.Clients),
		m.card("Chamados", s.Tickets),
		m.card("Contatos não lidos", m.unread.Contacts),
		m.card("Notificações", m.unread.Notifications),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func (m Model) renderMoney(s *dashboard.Stats) string {
	return m.styles.Label.Render("Total em vendas: ") + m.styles.Value.Render(FormatBRL(s.TotalSales)) +
		"   " +
		m.styles.Label.Render("Total recebido: ") + m.styles.Value.Render(FormatBRL(s.TotalReceived)) + "\n"
}

func (m Model) renderBreakdown(title string, counts []dashboard.StatusCount) string {
	var b strings.Builder
	b.WriteString(m.styles.Section.Render(title) + "\n")
	if len(counts) == 0 {
		b.WriteString(m.styles.Muted.Render("  nenhum registro") + "\n")
		return b.String()
	}

	maxCount, labelWidth := 0, 0
	for _, c := range counts {
		maxCount = max(maxCount, c.Count)
		labelWidth = max(labelWidth, lipgloss.Width(c.Name))
	}

	for _, c := range counts {
		width := int(math.Round(float64(c.Count) / float64(maxCount) * maxBarWidth))
		bar := m.styles.Bar.Render(strings.Repeat("█", max(width, 1)))
		fmt.Fprintf(&b, "  %-*s %s %d\n", labelWidth, c.Name, bar, c.Count)
	}
	return b.String()
}

// FormatBRL renders v as Brazilian reais, e.g. R$ 1.234,50
func FormatBRL(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	cents := int64(math.Round(v * 100))
	whole := strconv.FormatInt(cents/100, 10)

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	return fmt.Sprintf("%sR$ %s,%02d", sign, grouped.String(), cents%100)
}
