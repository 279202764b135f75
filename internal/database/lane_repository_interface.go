package database

import (
	"context"

	"github.com/thenoetrevino/plura/internal/models"
)

// LaneReader defines read operations for lanes.
type LaneReader interface {
	GetLaneByID(ctx context.Context, id int) (*models.Lane, error)
	GetLanesByPipeline(ctx context.Context, pipelineID int) ([]*models.Lane, error)
}

// LaneWriter defines write operations for lanes. Lane order is only changed
// through BatchUpdateOrders.
type LaneWriter interface {
	CreateLane(ctx context.Context, pipelineID int, name string) (*models.Lane, error)
	UpdateLaneName(ctx context.Context, id int, name string) error
	DeleteLane(ctx context.Context, id int) error
}

// LaneRepository combines all lane-related operations.
type LaneRepository interface {
	LaneReader
	LaneWriter
}
