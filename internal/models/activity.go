package models

import "time"

// Activity is one entry of the sub-account activity log
type Activity struct {
	ID           int
	SubAccountID string
	PipelineID   *int
	Description  string
	CreatedAt    time.Time
}
