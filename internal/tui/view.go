package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"

	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/ordering"
)

// View implements tea.Model
func (m Model) View() string {
	snap := m.board.Working()

	var b strings.Builder
	b.WriteString(m.renderHeader(snap))
	b.WriteString("\n")

	preview := snap
	if m.drag != nil {
		preview = snap.Clone()
		if _, err := ordering.Apply(preview, m.drag.move(snap)); err != nil {
			preview = snap
		}
	}

	if len(preview.Lanes) == 0 {
		b.WriteString(m.styles.subtle.Render("This pipeline has no lanes. Add one with 'plura lane create'."))
	} else {
		lanes := make([]string, len(preview.Lanes))
		for i, l := range preview.Lanes {
			lanes[i] = m.renderLane(l, i)
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, lanes...))
	}

	b.WriteString("\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) renderHeader(snap *models.BoardSnapshot) string {
	var total float64
	count := 0
	for _, l := range snap.Lanes {
		for _, t := range l.Tickets {
			total += t.Value
			count++
		}
	}
	summary := fmt.Sprintf("%d lanes, %d tickets, $%s", len(snap.Lanes), count, humanize.FormatFloat("#,###.##", total))
	return m.styles.title.Render(snap.Pipeline.Name) + m.styles.subtle.Render(summary)
}

func (m Model) renderLane(l *models.Lane, idx int) string {
	style := m.styles.lane
	switch {
	case m.drag != nil && m.drag.kind == models.EntityLane && m.drag.entityID == l.ID:
		style = m.styles.laneDrag
	case m.drag == nil && idx == m.laneIdx:
		style = m.styles.laneSel
	}

	var total float64
	for _, t := range l.Tickets {
		total += t.Value
	}

	parts := []string{
		m.styles.header.Render(fmt.Sprintf("%s (%d)", l.Name, len(l.Tickets))),
		m.styles.value.Render("$" + humanize.FormatFloat("#,###.##", total)),
	}
	if len(l.Tickets) == 0 {
		parts = append(parts, m.styles.subtle.Render("empty"))
	}
	for i, t := range l.Tickets {
		parts = append(parts, m.renderCard(t, idx, i))
	}

	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m Model) renderCard(t *models.Ticket, laneIdx, idx int) string {
	style := m.styles.card
	switch {
	case m.drag != nil && m.drag.kind == models.EntityTicket && m.drag.entityID == t.ID:
		style = m.styles.cardDrag
	case m.drag == nil && laneIdx == m.laneIdx && idx == m.ticketIdx:
		style = m.styles.cardSel
	}

	lines := []string{cardTitle(t.Title), m.styles.value.Render("$" + humanize.FormatFloat("#,###.##", t.Value))}
	if len(t.Tags) > 0 {
		names := make([]string, len(t.Tags))
		for i, tag := range t.Tags {
			names[i] = lipgloss.NewStyle().Foreground(lipgloss.Color(tag.Color)).Render(tag.Name)
		}
		lines = append(lines, strings.Join(names, " "))
	}
	if t.Customer != nil {
		lines = append(lines, m.styles.subtle.Render(truncate.StringWithTail(t.Customer.Name, titleLimit, "…")))
	}
	if t.AssigneeID != nil {
		lines = append(lines, m.styles.subtle.Render("@"+*t.AssigneeID))
	}
	return style.Render(strings.Join(lines, "\n"))
}

// cardTitle wraps a title onto at most titleLines lines of a card
func cardTitle(title string) string {
	lines := strings.Split(wordwrap.String(title, titleLimit), "\n")
	if len(lines) > titleLines {
		lines = lines[:titleLines]
		lines[titleLines-1] = strings.TrimRight(lines[titleLines-1], " ") + "…"
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderStatus() string {
	if m.status == "" {
		return ""
	}
	if m.statusErr {
		return m.styles.error.Render(m.status)
	}
	return m.styles.status.Render(m.status)
}
