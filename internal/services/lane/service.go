package lane

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/events"
	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/services/activity"
	"github.com/thenoetrevino/plura/internal/session"
)

const maxNameLength = 50

// Service defines all lane-related business operations. Lane order is
// changed only through the reorder engine.
type Service interface {
	// Read operations
	GetLanesByPipeline(ctx context.Context, sess *session.Session, pipelineID int) ([]*models.Lane, error)
	GetLaneByID(ctx context.Context, sess *session.Session, id int) (*models.Lane, error)

	// Write operations
	CreateLane(ctx context.Context, sess *session.Session, req CreateLaneRequest) (*models.Lane, error)
	UpdateLaneName(ctx context.Context, sess *session.Session, id int, name string) error
	DeleteLane(ctx context.Context, sess *session.Session, id int) error
}

// CreateLaneRequest encapsulates data for creating a lane. New lanes are
// appended after the last lane of the pipeline.
type CreateLaneRequest struct {
	Name       string
	PipelineID int
}

// Repository is the storage the lane service needs
type Repository interface {
	database.LaneRepository
	database.PipelineReader
}

type service struct {
	repo        Repository
	activity    activity.Recorder
	eventClient events.EventPublisher
}

// NewService creates a new lane service. recorder and eventClient may be nil.
func NewService(repo Repository, recorder activity.Recorder, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		activity:    recorder,
		eventClient: eventClient,
	}
}

// GetLanesByPipeline retrieves the lanes of a pipeline in order
func (s *service) GetLanesByPipeline(ctx context.Context, sess *session.Session, pipelineID int) ([]*models.Lane, error) {
	if pipelineID <= 0 {
		return nil, ErrInvalidPipelineID
	}
	if _, err := s.pipeline(ctx, sess, pipelineID, false); err != nil {
		return nil, err
	}
	return s.repo.GetLanesByPipeline(ctx, pipelineID)
}

// GetLaneByID retrieves a specific lane
func (s *service) GetLaneByID(ctx context.Context, sess *session.Session, id int) (*models.Lane, error) {
	if id <= 0 {
		return nil, ErrInvalidLaneID
	}
	lane, err := s.repo.GetLaneByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.pipeline(ctx, sess, lane.PipelineID, false); err != nil {
		return nil, err
	}
	return lane, nil
}

// CreateLane appends a lane to the pipeline
func (s *service) CreateLane(ctx context.Context, sess *session.Session, req CreateLaneRequest) (*models.Lane, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if req.PipelineID <= 0 {
		return nil, ErrInvalidPipelineID
	}
	p, err := s.pipeline(ctx, sess, req.PipelineID, true)
	if err != nil {
		return nil, err
	}

	lane, err := s.repo.CreateLane(ctx, req.PipelineID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to create lane: %w", err)
	}

	activity.Record(ctx, s.activity, "Updated a lane | "+lane.Name, p.SubAccountID, &p.ID)
	s.publish(sess, p.ID)
	return lane, nil
}

// UpdateLaneName renames a lane without touching its position
func (s *service) UpdateLaneName(ctx context.Context, sess *session.Session, id int, name string) error {
	if id <= 0 {
		return ErrInvalidLaneID
	}
	if err := validateName(name); err != nil {
		return err
	}
	lane, err := s.repo.GetLaneByID(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.pipeline(ctx, sess, lane.PipelineID, true)
	if err != nil {
		return err
	}

	if err := s.repo.UpdateLaneName(ctx, id, name); err != nil {
		return fmt.Errorf("failed to update lane: %w", err)
	}

	activity.Record(ctx, s.activity, "Updated a lane | "+name, p.SubAccountID, &p.ID)
	s.publish(sess, p.ID)
	return nil
}

// DeleteLane deletes a lane together with its tickets and compacts the
// remaining lanes of the pipeline
func (s *service) DeleteLane(ctx context.Context, sess *session.Session, id int) error {
	if id <= 0 {
		return ErrInvalidLaneID
	}
	lane, err := s.repo.GetLaneByID(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.pipeline(ctx, sess, lane.PipelineID, true)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteLane(ctx, id); err != nil {
		return fmt.Errorf("failed to delete lane: %w", err)
	}

	activity.Record(ctx, s.activity, "Deleted a lane | "+lane.Name, p.SubAccountID, &p.ID)
	s.publish(sess, p.ID)
	return nil
}

// pipeline loads the pipeline and checks that the session may view or,
// when mutate is set, change it
func (s *service) pipeline(ctx context.Context, sess *session.Session, id int, mutate bool) (*models.Pipeline, error) {
	p, err := s.repo.GetPipelineByID(ctx, id)
	if err != nil {
		return nil, err
	}
	allowed := sess.CanView(p.SubAccountID)
	if mutate {
		allowed = sess.CanMutate(p.SubAccountID)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: pipeline %d", models.ErrForbidden, id)
	}
	return p, nil
}

func validateName(name string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	return nil
}

func (s *service) publish(sess *session.Session, pipelineID int) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(s.eventClient, events.BoardChanged(pipelineID, sess.ID), events.DefaultRetries)
}
