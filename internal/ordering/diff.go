package ordering

import "github.com/thenoetrevino/plura/internal/models"

// Diff computes the order batch that turns confirmed into working. Only
// entities whose order or container changed are listed. Every lane that
// lost, gained or reordered a ticket contributes its confirmed version to
// the batch, and any lane reorder contributes the pipeline version.
// Returns nil when the two snapshots agree on every order.
func Diff(confirmed, working *models.BoardSnapshot) *models.OrderBatch {
	laneVersions := make(map[int]int, len(confirmed.Lanes))
	prevLanes := make(map[int]*models.Lane, len(confirmed.Lanes))
	prevTickets := make(map[int]*models.Ticket)
	for _, l := range confirmed.Lanes {
		laneVersions[l.ID] = l.Version
		prevLanes[l.ID] = l
		for _, t := range l.Tickets {
			prevTickets[t.ID] = t
		}
	}

	batch := &models.OrderBatch{
		PipelineID:           confirmed.Pipeline.ID,
		ExpectedLaneVersions: make(map[int]int),
	}

	for _, l := range working.Lanes {
		old, ok := prevLanes[l.ID]
		if !ok || old.Order == l.Order {
			continue
		}
		batch.Updates = append(batch.Updates, models.OrderUpdate{
			Kind:     models.EntityLane,
			EntityID: l.ID,
			NewOrder: l.Order,
		})
		version := confirmed.Pipeline.Version
		batch.ExpectedPipelineVersion = &version
	}

	for _, l := range working.Lanes {
		for _, t := range l.Tickets {
			old, ok := prevTickets[t.ID]
			if !ok {
				continue
			}
			if old.LaneID == l.ID && old.Order == t.Order {
				continue
			}
			update := models.OrderUpdate{
				Kind:     models.EntityTicket,
				EntityID: t.ID,
				NewOrder: t.Order,
			}
			if old.LaneID != l.ID {
				laneID := l.ID
				update.NewContainerID = &laneID
			}
			batch.Updates = append(batch.Updates, update)
			batch.ExpectedLaneVersions[old.LaneID] = laneVersions[old.LaneID]
			batch.ExpectedLaneVersions[l.ID] = laneVersions[l.ID]
		}
	}

	if batch.Empty() {
		return nil
	}
	return batch
}
