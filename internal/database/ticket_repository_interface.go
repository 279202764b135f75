package database

import (
	"context"

	"github.com/thenoetrevino/plura/internal/models"
)

// TicketReader defines read operations for tickets.
type TicketReader interface {
	GetTicketByID(ctx context.Context, id int) (*models.Ticket, error)
	GetTicketsByLane(ctx context.Context, laneID int) ([]*models.Ticket, error)
}

// TicketWriter defines write operations for tickets. Ticket order and lane
// membership are only changed through BatchUpdateOrders.
type TicketWriter interface {
	CreateTicket(ctx context.Context, laneID int, f TicketFields, tagIDs []int) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, id int, f TicketFields) error
	DeleteTicket(ctx context.Context, id int) error
}

// TicketRepository combines all ticket-related operations.
type TicketRepository interface {
	TicketReader
	TicketWriter
}
