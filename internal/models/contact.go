package models

import "time"

// Contact is a customer of a sub-account. Tickets may name one as the
// customer of the deal.
type Contact struct {
	ID           int
	Name         string
	Email        string
	SubAccountID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetID returns the contact ID, used by quiet CLI output
func (c *Contact) GetID() int {
	return c.ID
}
