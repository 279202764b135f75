package models

import "time"

// Ticket represents a deal card inside a lane
type Ticket struct {
	ID          int
	Title       string
	Description string
	Value       float64
	LaneID      int
	Order       int
	AssigneeID  *string // user id from the identity provider, nil when unassigned
	CustomerID  *int
	Customer    *Contact // loaded with the ticket when CustomerID is set
	Tags        []*Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GetID returns the ticket ID, used by quiet CLI output
func (t *Ticket) GetID() int {
	return t.ID
}
