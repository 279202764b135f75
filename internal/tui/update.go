package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/reorder"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case moveSettledMsg:
		return m.handleSettled(msg)

	case boardChangedMsg:
		return m.handleBoardChanged(msg)

	case boardReloadedMsg:
		m.reloading = false
		if msg.err != nil {
			slog.Error("failed to reload board", "pipeline_id", m.board.PipelineID(), "error", msg.err)
			m.setError(fmt.Sprintf("Reload failed: %v", msg.err))
		} else {
			m.setStatus("Board reloaded")
		}
		m.clampCursor()
		return m.flushQueuedReload()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if m.drag != nil {
		return m.handleDragKey(msg)
	}

	snap := m.board.Working()

	switch {
	case key.Matches(msg, m.keys.PrevLane):
		m.laneIdx--
		m.clampCursor()
	case key.Matches(msg, m.keys.NextLane):
		m.laneIdx++
		m.clampCursor()
	case key.Matches(msg, m.keys.PrevTicket):
		m.ticketIdx--
		m.clampCursor()
	case key.Matches(msg, m.keys.NextTicket):
		m.ticketIdx++
		m.clampCursor()

	case key.Matches(msg, m.keys.Grab):
		m.grabTicket(snap)
	case key.Matches(msg, m.keys.GrabLane):
		m.grabLane(snap)

	case key.Matches(msg, m.keys.MoveLeft):
		return m.stepTicket(snap, -1, 0)
	case key.Matches(msg, m.keys.MoveRight):
		return m.stepTicket(snap, 1, 0)
	case key.Matches(msg, m.keys.MoveUp):
		return m.stepTicket(snap, 0, -1)
	case key.Matches(msg, m.keys.MoveDown):
		return m.stepTicket(snap, 0, 1)

	case key.Matches(msg, m.keys.Reload):
		if m.inFlight > 0 || m.reloading {
			m.reloadQueued = true
			return m, nil
		}
		cmd := m.reload()
		return m, cmd
	}

	return m, nil
}

func (m Model) handleDragKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.board.Working()

	switch {
	case key.Matches(msg, m.keys.PrevLane), key.Matches(msg, m.keys.MoveLeft):
		m.drag.shiftLane(snap, -1)
	case key.Matches(msg, m.keys.NextLane), key.Matches(msg, m.keys.MoveRight):
		m.drag.shiftLane(snap, 1)
	case key.Matches(msg, m.keys.PrevTicket), key.Matches(msg, m.keys.MoveUp):
		m.drag.shiftIndex(snap, -1)
	case key.Matches(msg, m.keys.NextTicket), key.Matches(msg, m.keys.MoveDown):
		m.drag.shiftIndex(snap, 1)

	case key.Matches(msg, m.keys.Drop):
		mv := m.drag.move(snap)
		m.drag = nil
		return m.apply(mv)

	case key.Matches(msg, m.keys.Cancel):
		m.drag = nil
		m.setStatus("Drag cancelled")
		return m.flushQueuedReload()
	}

	return m, nil
}

func (m *Model) grabTicket(snap *models.BoardSnapshot) {
	if m.laneIdx >= len(snap.Lanes) {
		return
	}
	lane := snap.Lanes[m.laneIdx]
	if m.ticketIdx >= len(lane.Tickets) {
		return
	}
	m.drag = &drag{
		kind:      models.EntityTicket,
		entityID:  lane.Tickets[m.ticketIdx].ID,
		fromIndex: m.ticketIdx,
		fromLane:  lane.ID,
		toLane:    m.laneIdx,
		toIndex:   m.ticketIdx,
	}
	m.setStatus("Dragging ticket, drop with " + m.keys.Drop.Help().Key)
}

func (m *Model) grabLane(snap *models.BoardSnapshot) {
	if m.laneIdx >= len(snap.Lanes) {
		return
	}
	m.drag = &drag{
		kind:      models.EntityLane,
		entityID:  snap.Lanes[m.laneIdx].ID,
		fromIndex: m.laneIdx,
		toIndex:   m.laneIdx,
	}
	m.setStatus("Dragging lane, drop with " + m.keys.Drop.Help().Key)
}

// stepTicket moves the selected ticket one lane sideways or one slot up or
// down in a single gesture
func (m Model) stepTicket(snap *models.BoardSnapshot, laneDelta, indexDelta int) (tea.Model, tea.Cmd) {
	if m.laneIdx >= len(snap.Lanes) {
		return m, nil
	}
	from := snap.Lanes[m.laneIdx]
	if m.ticketIdx >= len(from.Tickets) {
		return m, nil
	}

	toLane := m.laneIdx + laneDelta
	if toLane < 0 || toLane >= len(snap.Lanes) {
		return m, nil
	}
	toIndex := m.ticketIdx + indexDelta
	if toIndex < 0 {
		return m, nil
	}
	if laneDelta != 0 {
		toIndex = min(m.ticketIdx, len(snap.Lanes[toLane].Tickets))
	}

	return m.apply(models.Move{
		Kind:            models.EntityTicket,
		EntityID:        from.Tickets[m.ticketIdx].ID,
		FromIndex:       m.ticketIdx,
		ToIndex:         toIndex,
		FromContainerID: from.ID,
		ToContainerID:   snap.Lanes[toLane].ID,
	})
}

// apply hands the move to the engine. The board shows the move at once;
// the returned command reports when the batch settles.
func (m Model) apply(mv models.Move) (tea.Model, tea.Cmd) {
	if m.reloading {
		m.setError("Board is reloading, try again")
		return m, nil
	}
	pending, err := m.app.Engine.Move(m.ctx, m.board, mv)
	if err != nil {
		if errors.Is(err, models.ErrForbidden) {
			m.setError("This session is read-only")
		} else {
			m.setError(fmt.Sprintf("Move rejected: %v", err))
		}
		return m, nil
	}

	m.follow(mv)
	if pending.NoOp() {
		return m.flushQueuedReload()
	}
	m.inFlight++
	m.setStatus("Saving...")
	return m, waitForPending(pending)
}

func (m Model) handleSettled(msg moveSettledMsg) (tea.Model, tea.Cmd) {
	m.inFlight--

	switch {
	case errors.Is(msg.err, models.ErrConflict):
		m.setError("Board changed in another session, reloading")
		m.reloadQueued = true
	case errors.Is(msg.err, reorder.ErrBoardReloaded):
		m.setError("Board was reloaded before the move was saved")
	case msg.err != nil:
		m.setError(fmt.Sprintf("Move failed and was undone: %v", msg.err))
	case m.inFlight == 0:
		m.setStatus("Saved")
	}

	m.clampCursor()
	return m.flushQueuedReload()
}

func (m Model) handleBoardChanged(msg boardChangedMsg) (tea.Model, tea.Cmd) {
	next := waitForEvent(m.events)

	if msg.event.SessionID == m.app.Session.ID {
		return m, next
	}
	if msg.event.PipelineID != 0 && msg.event.PipelineID != m.board.PipelineID() {
		return m, next
	}

	m.reloadQueued = true
	model, cmd := m.flushQueuedReload()
	return model, tea.Batch(next, cmd)
}

// flushQueuedReload reloads the board once nothing is dragged or in flight
func (m Model) flushQueuedReload() (tea.Model, tea.Cmd) {
	if !m.reloadQueued || m.inFlight > 0 || m.drag != nil || m.reloading {
		return m, nil
	}
	m.reloadQueued = false
	cmd := m.reload()
	return m, cmd
}

// follow moves the cursor to the entity that was just moved
func (m *Model) follow(mv models.Move) {
	snap := m.board.Working()
	if mv.Kind == models.EntityLane {
		m.laneIdx = snap.LaneIndex(mv.EntityID)
		m.clampCursor()
		return
	}
	if _, lane := snap.FindTicket(mv.EntityID); lane != nil {
		m.laneIdx = snap.LaneIndex(lane.ID)
		m.ticketIdx = lane.TicketIndex(mv.EntityID)
	}
	m.clampCursor()
}

func (m *Model) clampCursor() {
	snap := m.board.Working()
	m.laneIdx = clamp(m.laneIdx, 0, len(snap.Lanes)-1)
	if len(snap.Lanes) == 0 {
		m.ticketIdx = 0
		return
	}
	m.ticketIdx = clamp(m.ticketIdx, 0, len(snap.Lanes[m.laneIdx].Tickets)-1)
}

func (m *Model) setStatus(s string) {
	m.status, m.statusErr = s, false
}

func (m *Model) setError(s string) {
	m.status, m.statusErr = s, true
}
