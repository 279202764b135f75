package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/plura/internal/config"
)

const (
	laneWidth  = 30
	cardWidth  = laneWidth - 4
	titleLimit = cardWidth - 4
	titleLines = 2
)

type styles struct {
	title    lipgloss.Style
	lane     lipgloss.Style
	laneSel  lipgloss.Style
	laneDrag lipgloss.Style
	header   lipgloss.Style
	card     lipgloss.Style
	cardSel  lipgloss.Style
	cardDrag lipgloss.Style
	value    lipgloss.Style
	subtle   lipgloss.Style
	status   lipgloss.Style
	error    lipgloss.Style
}

func newStyles(theme config.Theme) styles {
	laneBase := lipgloss.NewStyle().
		Width(laneWidth).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())
	cardBase := lipgloss.NewStyle().
		Width(cardWidth).
		Padding(0, 1).
		Border(lipgloss.NormalBorder())

	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Accent)).
			Padding(0, 1),
		lane:     laneBase.BorderForeground(lipgloss.Color(theme.LaneBorder)),
		laneSel:  laneBase.BorderForeground(lipgloss.Color(theme.SelectedBorder)),
		laneDrag: laneBase.BorderForeground(lipgloss.Color(theme.GrabbedBorder)).BorderStyle(lipgloss.ThickBorder()),
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(theme.Accent)),
		card:     cardBase.BorderForeground(lipgloss.Color(theme.CardBorder)),
		cardSel:  cardBase.BorderForeground(lipgloss.Color(theme.SelectedBorder)),
		cardDrag: cardBase.BorderForeground(lipgloss.Color(theme.GrabbedBorder)).BorderStyle(lipgloss.ThickBorder()),
		value:    lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Value)),
		subtle:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle)),
		status:   lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Subtle)).Padding(0, 1),
		error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(theme.ErrorFg)).
			Background(lipgloss.Color(theme.ErrorBg)).
			Padding(0, 1),
	}
}
