package ticket

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

const descriptionWidth = 76

var (
	rendererOnce sync.Once
	renderer     *glamour.TermRenderer
)

// renderDescription renders a markdown description for the terminal,
// falling back to the raw text when rendering fails
func renderDescription(description string) string {
	rendererOnce.Do(func() {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(descriptionWidth),
		)
		if err != nil {
			slog.Warn("failed to create markdown renderer", "error", err)
			return
		}
		renderer = r
	})

	if renderer == nil {
		return description
	}
	rendered, err := renderer.Render(description)
	if err != nil {
		slog.Warn("failed to render description", "error", err)
		return description
	}
	return strings.TrimSpace(rendered)
}
