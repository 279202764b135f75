package pipeline

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

// DefaultName is the name of the pipeline created for a sub-account that
// has none
const DefaultName = "First Pipeline"

const maxNameLength = 100

// Service defines all pipeline-related business operations
type Service interface {
	// Read operations
	GetPipelines(ctx context.Context, sess *session.Session, subAccountID string) ([]*models.Pipeline, error)
	GetPipelineByID(ctx context.Context, sess *session.Session, id int) (*models.Pipeline, error)
	EnsureDefault(ctx context.Context, sess *session.Session, subAccountID string) (*models.Pipeline, error)

	// Write operations
	CreatePipeline(ctx context.Context, sess *session.Session, req CreatePipelineRequest) (*models.Pipeline, error)
	UpdatePipelineName(ctx context.Context, sess *session.Session, id int, name string) error
	DeletePipeline(ctx context.Context, sess *session.Session, id int) error
}

// CreatePipelineRequest encapsulates data for creating a pipeline
type CreatePipelineRequest struct {
	Name         string
	SubAccountID string
}

type service struct {
	repo        database.PipelineRepository
	activity    activity.Recorder
	eventClient events.EventPublisher
}

// NewService creates a new pipeline service. recorder and eventClient may
// be nil.
func NewService(repo database.PipelineRepository, recorder activity.Recorder, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		activity:    recorder,
		eventClient: eventClient,
	}
}

// GetPipelines lists the pipelines of a sub-account
func (s *service) GetPipelines(ctx context.Context, sess *session.Session, subAccountID string) ([]*models.Pipeline, error) {
	if subAccountID == "" {
		return nil, ErrInvalidSubAccountID
	}
	if !sess.CanView(subAccountID) {
		return nil, fmt.Errorf("%w: sub-account %s", models.ErrForbidden, subAccountID)
	}
	return s.repo.GetPipelinesBySubAccount(ctx, subAccountID)
}

// GetPipelineByID retrieves a pipeline the session may view
func (s *service) GetPipelineByID(ctx context.Context, sess *session.Session, id int) (*models.Pipeline, error) {
	if id <= 0 {
		return nil, ErrInvalidPipelineID
	}
	p, err := s.repo.GetPipelineByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.CanView(p.SubAccountID) {
		return nil, fmt.Errorf("%w: pipeline %d", models.ErrForbidden, id)
	}
	return p, nil
}

// EnsureDefault returns the first pipeline of the sub-account, creating
// DefaultName when there is none yet
func (s *service) EnsureDefault(ctx context.Context, sess *session.Session, subAccountID string) (*models.Pipeline, error) {
	pipelines, err := s.GetPipelines(ctx, sess, subAccountID)
	if err != nil {
		return nil, err
	}
	if len(pipelines) > 0 {
		return pipelines[0], nil
	}
	return s.CreatePipeline(ctx, sess, CreatePipelineRequest{Name: DefaultName, SubAccountID: subAccountID})
}

// CreatePipeline creates an empty pipeline
func (s *service) CreatePipeline(ctx context.Context, sess *session.Session, req CreatePipelineRequest) (*models.Pipeline, error) {
	if err := validateName(req.Name); err != nil {
		return nil, err
	}
	if req.SubAccountID == "" {
		return nil, ErrInvalidSubAccountID
	}
	if !sess.CanMutate(req.SubAccountID) {
		return nil, fmt.Errorf("%w: sub-account %s", models.ErrForbidden, req.SubAccountID)
	}

	p, err := s.repo.CreatePipeline(ctx, req.Name, req.SubAccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline: %w", err)
	}

	activity.Record(ctx, s.activity, "Created a pipeline | "+p.Name, p.SubAccountID, &p.ID)
	s.publish(sess, p.ID)
	return p, nil
}

// UpdatePipelineName renames a pipeline
func (s *service) UpdatePipelineName(ctx context.Context, sess *session.Session, id int, name string) error {
	if id <= 0 {
		return ErrInvalidPipelineID
	}
	if err := validateName(name); err != nil {
		return err
	}
	p, err := s.mutable(ctx, sess, id)
	if err != nil {
		return err
	}

	if err := s.repo.UpdatePipelineName(ctx, id, name); err != nil {
		return fmt.Errorf("failed to update pipeline: %w", err)
	}

	activity.Record(ctx, s.activity, "Updated a pipeline | "+name, p.SubAccountID, &p.ID)
	s.publish(sess, id)
	return nil
}

// DeletePipeline deletes a pipeline with all of its lanes and tickets
func (s *service) DeletePipeline(ctx context.Context, sess *session.Session, id int) error {
	if id <= 0 {
		return ErrInvalidPipelineID
	}
	p, err := s.mutable(ctx, sess, id)
	if err != nil {
		return err
	}

	if err := s.repo.DeletePipeline(ctx, id); err != nil {
		return fmt.Errorf("failed to delete pipeline: %w", err)
	}

	activity.Record(ctx, s.activity, "Deleted a pipeline | "+p.Name, p.SubAccountID, nil)
	s.publish(sess, id)
	return nil
}

func (s *service) mutable(ctx context.Context, sess *session.Session, id int) (*models.Pipeline, error) {
	p, err := s.repo.GetPipelineByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.CanMutate(p.SubAccountID) {
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
