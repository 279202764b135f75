package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thenoetrevino/plura/internal/events"
	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/reorder"
)

// moveSettledMsg reports the outcome of a persisted drop
type moveSettledMsg struct {
	move models.Move
	err  error
}

// boardChangedMsg carries an event received from the daemon
type boardChangedMsg struct {
	event events.Event
}

type boardReloadedMsg struct {
	err error
}

func waitForPending(p *reorder.Pending) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return moveSettledMsg{move: p.Move(), err: p.Err()}
	}
}

// waitForEvent returns nil once the channel is closed, which ends the
// listening loop
func waitForEvent(ch <-chan events.Event) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-ch
		if !ok {
			return nil
		}
		return boardChangedMsg{event: event}
	}
}

// reload re-reads the board. Drops are refused until boardReloadedMsg
// arrives so that no move is applied to a board about to be replaced.
func (m *Model) reload() tea.Cmd {
	m.reloading = true
	st, repo, ctx := m.board, m.app.Repo(), m.ctx
	return func() tea.Msg {
		return boardReloadedMsg{err: st.Reload(ctx, repo)}
	}
}
