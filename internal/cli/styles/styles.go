package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/thenoetrevino/plura/internal/config"
	"github.com/thenoetrevino/plura/internal/models"
)

var (
	// Card styles
	CardStyle lipgloss.Style
	CardWidth = 80

	// Board styles
	LaneStyle       lipgloss.Style
	LaneWidth       = 28
	LaneHeaderStyle lipgloss.Style
	TicketStyle     lipgloss.Style

	// Text styles
	TitleStyle    lipgloss.Style
	SubtitleStyle lipgloss.Style
	LabelStyle    lipgloss.Style // For field labels like "Value:", "Lane:"
	ValueStyle    lipgloss.Style // For monetary values
	SectionStyle  lipgloss.Style // For section headers like "Description", "Tags"

	// Status styles
	ErrorStyle lipgloss.Style
)

func init() {
	Init(config.DefaultTheme())
}

// Init initializes all CLI styles with the given theme
func Init(theme config.Theme) {
	theme.ApplyDefaults()

	CardStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(CardWidth)

	LaneStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.LaneBorder)).
		Padding(0, 1).
		Width(LaneWidth)

	LaneHeaderStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Accent))

	TicketStyle = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color(theme.CardBorder)).
		Width(LaneWidth - 4)

	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Accent))

	SubtitleStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Subtle))

	LabelStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.Accent))

	ValueStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Value))

	SectionStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(theme.Accent)).
		Bold(true).
		MarginTop(1)

	ErrorStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(theme.ErrorFg)).
		Background(lipgloss.Color(theme.ErrorBg)).
		Padding(0, 1)
}

// ═══════════════════════════════════════════════════════════════════
// HELPER FUNCTIONS
// ═══════════════════════════════════════════════════════════════════

// ColoredText renders text with a hex color
func ColoredText(text, hexColor string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(hexColor)).
		Render(text)
}

// RenderTagChip renders a tag as "[name]" with the tag's color
func RenderTagChip(tag *models.Tag) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color(tag.Color)).
		Bold(true).
		Render("[" + tag.Name + "]")
}

// RenderTagChips renders tags separated by spaces
func RenderTagChips(tags []*models.Tag) string {
	chips := make([]string, len(tags))
	for i, tag := range tags {
		chips[i] = RenderTagChip(tag)
	}
	return strings.Join(chips, " ")
}

// RenderCard wraps content in a styled card border
func RenderCard(content string) string {
	return CardStyle.Render(content)
}
