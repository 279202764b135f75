package models

import "time"

// Lane represents a column of a pipeline (e.g., "New", "In Progress", "Won").
// Order is the dense zero-based position of the lane inside its pipeline.
// Version is bumped every time the ticket order inside the lane changes.
type Lane struct {
	ID         int
	Name       string
	PipelineID int
	Order      int
	Version    int
	Tickets    []*Ticket
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TicketIndex returns the index of the ticket inside the lane, or -1
func (l *Lane) TicketIndex(ticketID int) int {
	for i, t := range l.Tickets {
		if t.ID == ticketID {
			return i
		}
	}
	return -1
}
