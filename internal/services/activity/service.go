// Package activity records and lists the sub-account activity log.
package activity

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/session"
)

// DefaultLimit is the number of entries listed when none is requested
const DefaultLimit = 20

// Recorder writes activity entries. Failures never undo the change being
// recorded; callers log them and move on.
type Recorder interface {
	RecordActivity(ctx context.Context, description, subAccountID string, pipelineID *int) error
}

// Service defines all activity-related operations
type Service interface {
	Recorder
	ListRecent(ctx context.Context, sess *session.Session, subAccountID string, pipelineID *int, limit int) ([]*models.Activity, error)
}

type service struct {
	repo database.ActivityRepository
}

// NewService creates a new activity service
func NewService(repo database.ActivityRepository) Service {
	return &service{repo: repo}
}

// RecordActivity stores an entry for the sub-account, optionally scoped to
// a pipeline
func (s *service) RecordActivity(ctx context.Context, description, subAccountID string, pipelineID *int) error {
	if description == "" {
		return ErrEmptyDescription
	}
	if subAccountID == "" {
		return ErrInvalidSubAccountID
	}
	if _, err := s.repo.CreateActivity(ctx, subAccountID, pipelineID, description); err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListRecent returns the newest entries first. A nil pipelineID lists the
// whole sub-account.
func (s *service) ListRecent(ctx context.Context, sess *session.Session, subAccountID string, pipelineID *int, limit int) ([]*models.Activity, error) {
	if subAccountID == "" {
		return nil, ErrInvalidSubAccountID
	}
	if limit < 0 {
		return nil, ErrInvalidLimit
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if !sess.CanView(subAccountID) {
		return nil, fmt.Errorf("%w: sub-account %s", models.ErrForbidden, subAccountID)
	}
	return s.repo.GetRecentActivities(ctx, subAccountID, pipelineID, limit)
}

// Record is the fire-and-forget form used after a successful change: a
// failure is logged at Warn and otherwise ignored.
func Record(ctx context.Context, r Recorder, description, subAccountID string, pipelineID *int) {
	if r == nil {
		return
	}
	if err := r.RecordActivity(ctx, description, subAccountID, pipelineID); err != nil {
		slog.Warn("failed to record activity",
			"description", description,
			"subaccount_id", subAccountID,
			"error", err)
	}
}
