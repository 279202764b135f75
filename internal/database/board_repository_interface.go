package database

import (
	"context"

	"github.com/thenoetrevino/plura/internal/models"
)

// BoardRepository reads whole boards and persists reorder batches.
type BoardRepository interface {
	FindLanesWithTicketsAndTags(ctx context.Context, pipelineID int) ([]*models.Lane, error)
	LoadBoard(ctx context.Context, pipelineID int) (*models.BoardSnapshot, error)
	BatchUpdateOrders(ctx context.Context, batch *models.OrderBatch) (*models.BatchResult, error)
}
