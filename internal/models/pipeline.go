package models

import "time"

// Pipeline represents a kanban board owned by a sub-account.
// Version is bumped every time the lane order inside the pipeline changes,
// which lets concurrent sessions detect stale lane orders.
type Pipeline struct {
	ID           int
	Name         string
	SubAccountID string
	Version      int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
