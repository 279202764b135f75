// Package tui implements the interactive pipeline board. Cards and lanes are
// moved with the keyboard; every drop is applied to the board at once and
// persisted by the reorder engine in the background.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thenoetrevino/plura/internal/app"
	"github.com/thenoetrevino/plura/internal/board"
	"github.com/thenoetrevino/plura/internal/config"
	"github.com/thenoetrevino/plura/internal/events"
)

// Model is the bubbletea model of one pipeline board
type Model struct {
	ctx   context.Context
	app   *app.App
	board *board.State

	keys   keyMap
	help   help.Model
	styles styles

	laneIdx   int
	ticketIdx int
	drag      *drag

	// inFlight counts drops whose batch has not settled yet
	inFlight     int
	reloadQueued bool
	reloading    bool
	events       <-chan events.Event

	status    string
	statusErr bool
	width     int
	height    int
}

// Option configures a Model
type Option func(*Model)

// WithKeyMappings overrides the default key bindings
func WithKeyMappings(km config.KeyMappings) Option {
	return func(m *Model) {
		m.keys = newKeyMap(km)
	}
}

// WithTheme overrides the default colors
func WithTheme(theme config.Theme) Option {
	return func(m *Model) {
		m.styles = newStyles(theme)
	}
}

// New creates the board model. When the app has an event client the board
// subscribes to its pipeline and reloads on changes made by other sessions.
func New(ctx context.Context, a *app.App, st *board.State, opts ...Option) Model {
	m := Model{
		ctx:    ctx,
		app:    a,
		board:  st,
		keys:   newKeyMap(config.DefaultKeyMappings()),
		help:   help.New(),
		styles: newStyles(config.DefaultTheme()),
	}
	for _, opt := range opts {
		opt(&m)
	}

	if client := a.EventClient(); client != nil {
		if err := client.Subscribe(st.PipelineID()); err != nil {
			slog.Warn("failed to subscribe to pipeline events", "pipeline_id", st.PipelineID(), "error", err)
		}
		ch, err := client.Listen(ctx)
		if err != nil {
			slog.Warn("live updates disabled", "error", err)
		} else {
			m.events = ch
		}
	}

	return m
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return waitForEvent(m.events)
}
