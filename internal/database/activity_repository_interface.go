package database

import (
	"context"

	"github.com/thenoetrevino/plura/internal/models"
)

// ActivityRepository stores the sub-account activity log.
type ActivityRepository interface {
	CreateActivity(ctx context.Context, subAccountID string, pipelineID *int, description string) (*models.Activity, error)
	GetRecentActivities(ctx context.Context, subAccountID string, pipelineID *int, limit int) ([]*models.Activity, error)
}
