package tui

import (
	"github.com/thenoetrevino/plura/internal/models"
)

// drag is a grabbed ticket or lane that has not been dropped yet. The board
// is untouched until the drop; the view previews the target position.
type drag struct {
	kind      models.EntityKind
	entityID  int
	fromIndex int
	fromLane  int // lane ID, tickets only

	toLane  int // lane index, tickets only
	toIndex int
}

// move converts the drag into the move submitted on drop
func (d *drag) move(snap *models.BoardSnapshot) models.Move {
	if d.kind == models.EntityLane {
		return models.Move{
			Kind:            models.EntityLane,
			EntityID:        d.entityID,
			FromIndex:       d.fromIndex,
			ToIndex:         d.toIndex,
			FromContainerID: snap.Pipeline.ID,
			ToContainerID:   snap.Pipeline.ID,
		}
	}
	return models.Move{
		Kind:            models.EntityTicket,
		EntityID:        d.entityID,
		FromIndex:       d.fromIndex,
		ToIndex:         d.toIndex,
		FromContainerID: d.fromLane,
		ToContainerID:   snap.Lanes[d.toLane].ID,
	}
}

// maxIndex is the last valid drop position in the target container
func (d *drag) maxIndex(snap *models.BoardSnapshot) int {
	if d.kind == models.EntityLane {
		return len(snap.Lanes) - 1
	}
	target := snap.Lanes[d.toLane]
	if target.ID == d.fromLane {
		return len(target.Tickets) - 1
	}
	return len(target.Tickets)
}

func (d *drag) shiftLane(snap *models.BoardSnapshot, delta int) {
	if d.kind == models.EntityLane {
		d.toIndex = clamp(d.toIndex+delta, 0, d.maxIndex(snap))
		return
	}
	d.toLane = clamp(d.toLane+delta, 0, len(snap.Lanes)-1)
	d.toIndex = clamp(d.toIndex, 0, d.maxIndex(snap))
}

func (d *drag) shiftIndex(snap *models.BoardSnapshot, delta int) {
	if d.kind == models.EntityLane {
		return
	}
	d.toIndex = clamp(d.toIndex+delta, 0, d.maxIndex(snap))
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
