package app

import (
	"context"
	"fmt"

	"github.com/thenoetrevino/plura/internal/board"
	"github.com/thenoetrevino/plura/internal/models"
)

// MoveTicket loads the board holding the ticket, moves the ticket to
// position toIndex of lane toLaneID and waits for the batch to commit.
// A toLaneID of 0 keeps the ticket in its lane; a negative toIndex appends.
// The returned board reflects the committed state.
func (a *App) MoveTicket(ctx context.Context, ticketID, toLaneID, toIndex int) (*board.State, error) {
	ticket, err := a.TicketService.GetTicketByID(ctx, a.Session, ticketID)
	if err != nil {
		return nil, err
	}
	lane, err := a.LaneService.GetLaneByID(ctx, a.Session, ticket.LaneID)
	if err != nil {
		return nil, err
	}
	st, err := a.OpenBoard(ctx, lane.PipelineID)
	if err != nil {
		return nil, err
	}

	snap := st.Working()
	_, from := snap.FindTicket(ticketID)
	if from == nil {
		return nil, models.NewNotFoundError("ticket", ticketID)
	}
	if toLaneID == 0 {
		toLaneID = from.ID
	}
	to := snap.Lane(toLaneID)
	if to == nil {
		return nil, fmt.Errorf("lane %d is not on pipeline %d: %w", toLaneID, lane.PipelineID, models.ErrNotFound)
	}
	if toIndex < 0 {
		toIndex = len(to.Tickets)
	}

	return st, a.move(ctx, st, models.Move{
		Kind:            models.EntityTicket,
		EntityID:        ticketID,
		FromIndex:       from.TicketIndex(ticketID),
		ToIndex:         toIndex,
		FromContainerID: from.ID,
		ToContainerID:   to.ID,
	})
}

// MoveLane moves a lane to position toIndex of its pipeline and waits for
// the batch to commit. A negative toIndex moves the lane to the end.
func (a *App) MoveLane(ctx context.Context, laneID, toIndex int) (*board.State, error) {
	lane, err := a.LaneService.GetLaneByID(ctx, a.Session, laneID)
	if err != nil {
		return nil, err
	}
	st, err := a.OpenBoard(ctx, lane.PipelineID)
	if err != nil {
		return nil, err
	}

	snap := st.Working()
	if toIndex < 0 {
		toIndex = len(snap.Lanes)
	}

	return st, a.move(ctx, st, models.Move{
		Kind:            models.EntityLane,
		EntityID:        laneID,
		FromIndex:       snap.LaneIndex(laneID),
		ToIndex:         toIndex,
		FromContainerID: lane.PipelineID,
		ToContainerID:   lane.PipelineID,
	})
}

func (a *App) move(ctx context.Context, st *board.State, mv models.Move) error {
	pending, err := a.Engine.Move(ctx, st, mv)
	if err != nil {
		return err
	}
	return pending.Wait(ctx)
}
