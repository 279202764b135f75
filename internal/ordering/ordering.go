// Package ordering holds the pure renumbering algorithms behind drag and drop.
// Every function here works on an in-memory board snapshot and performs no I/O.
package ordering

import (
	"errors"
	"fmt"
	"slices"

	"github.com/thenoetrevino/plura/internal/models"
)

var (
	ErrUnknownKind    = errors.New("unknown entity kind")
	ErrLaneNotFound   = errors.New("lane not found on board")
	ErrStalePosition  = errors.New("entity is not at the given position")
	ErrCrossPipeline  = errors.New("lanes cannot move between pipelines")
	ErrInvalidIndex   = errors.New("invalid index: must be >= 0")
	ErrOrderNotDense  = errors.New("order values are not a dense zero-based sequence")
	ErrLaneMembership = errors.New("ticket lane reference does not match its lane")
)

// Apply performs the move on the snapshot in place and renumbers every
// touched container. It reports false when the move leaves the board
// unchanged (same container, same position).
func Apply(snap *models.BoardSnapshot, mv models.Move) (bool, error) {
	if mv.FromIndex < 0 || mv.ToIndex < 0 {
		return false, ErrInvalidIndex
	}
	switch mv.Kind {
	case models.EntityTicket:
		return moveTicket(snap, mv)
	case models.EntityLane:
		return moveLane(snap, mv)
	default:
		return false, fmt.Errorf("%w: %q", ErrUnknownKind, mv.Kind)
	}
}

func moveTicket(snap *models.BoardSnapshot, mv models.Move) (bool, error) {
	src := snap.Lane(mv.FromContainerID)
	if src == nil {
		return false, fmt.Errorf("%w: %d", ErrLaneNotFound, mv.FromContainerID)
	}
	dst := snap.Lane(mv.ToContainerID)
	if dst == nil {
		return false, fmt.Errorf("%w: %d", ErrLaneNotFound, mv.ToContainerID)
	}
	if mv.FromIndex >= len(src.Tickets) || src.Tickets[mv.FromIndex].ID != mv.EntityID {
		return false, fmt.Errorf("%w: ticket %d at index %d of lane %d", ErrStalePosition, mv.EntityID, mv.FromIndex, src.ID)
	}

	if src == dst {
		to := min(mv.ToIndex, len(src.Tickets)-1)
		if to == mv.FromIndex {
			return false, nil
		}
		src.Tickets = Reposition(src.Tickets, mv.FromIndex, to)
		RenumberTickets(src)
		return true, nil
	}

	ticket := src.Tickets[mv.FromIndex]
	src.Tickets = slices.Delete(src.Tickets, mv.FromIndex, mv.FromIndex+1)
	RenumberTickets(src)

	to := min(mv.ToIndex, len(dst.Tickets))
	dst.Tickets = slices.Insert(dst.Tickets, to, ticket)
	ticket.LaneID = dst.ID
	RenumberTickets(dst)
	return true, nil
}

func moveLane(snap *models.BoardSnapshot, mv models.Move) (bool, error) {
	if mv.FromContainerID != snap.Pipeline.ID || mv.ToContainerID != snap.Pipeline.ID {
		return false, ErrCrossPipeline
	}
	if mv.FromIndex >= len(snap.Lanes) || snap.Lanes[mv.FromIndex].ID != mv.EntityID {
		return false, fmt.Errorf("%w: lane %d at index %d", ErrStalePosition, mv.EntityID, mv.FromIndex)
	}
	to := min(mv.ToIndex, len(snap.Lanes)-1)
	if to == mv.FromIndex {
		return false, nil
	}
	snap.Lanes = Reposition(snap.Lanes, mv.FromIndex, to)
	RenumberLanes(snap)
	return true, nil
}

// Reposition removes the item at from and reinserts it at to. Items between
// the two positions shift by one towards the vacated slot.
func Reposition[T any](items []T, from, to int) []T {
	item := items[from]
	items = slices.Delete(items, from, from+1)
	return slices.Insert(items, to, item)
}

// RenumberTickets assigns 0..n-1 to the lane's tickets in slice order
func RenumberTickets(lane *models.Lane) {
	for i, t := range lane.Tickets {
		t.Order = i
		t.LaneID = lane.ID
	}
}

// RenumberLanes assigns 0..n-1 to the pipeline's lanes in slice order
func RenumberLanes(snap *models.BoardSnapshot) {
	for i, l := range snap.Lanes {
		l.Order = i
	}
}

// CheckDense verifies the order invariant for lanes and for the tickets of
// every lane, and that each ticket points at the lane holding it.
func CheckDense(snap *models.BoardSnapshot) error {
	for i, l := range snap.Lanes {
		if l.Order != i {
			return fmt.Errorf("%w: lane %d has order %d at index %d", ErrOrderNotDense, l.ID, l.Order, i)
		}
		for j, t := range l.Tickets {
			if t.Order != j {
				return fmt.Errorf("%w: ticket %d has order %d at index %d of lane %d", ErrOrderNotDense, t.ID, t.Order, j, l.ID)
			}
			if t.LaneID != l.ID {
				return fmt.Errorf("%w: ticket %d points at lane %d but sits in lane %d", ErrLaneMembership, t.ID, t.LaneID, l.ID)
			}
		}
	}
	return nil
}
