package database

import (
	"context"

	"github.com/thenoetrevino/plura/internal/models"
)

// PipelineReader defines read operations for pipelines.
type PipelineReader interface {
	GetPipelineByID(ctx context.Context, id int) (*models.Pipeline, error)
	GetPipelinesBySubAccount(ctx context.Context, subAccountID string) ([]*models.Pipeline, error)
	GetAllPipelines(ctx context.Context) ([]*models.Pipeline, error)
}

// PipelineWriter defines write operations for pipelines.
type PipelineWriter interface {
	CreatePipeline(ctx context.Context, name, subAccountID string) (*models.Pipeline, error)
	UpdatePipelineName(ctx context.Context, id int, name string) error
	DeletePipeline(ctx context.Context, id int) error
}

// PipelineRepository combines all pipeline-related operations.
type PipelineRepository interface {
	PipelineReader
	PipelineWriter
}
