package tag

import (
	"context"
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/events"
	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/session"
)

var hexColorRegex = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

const maxNameLength = 50

// Service defines all tag-related business operations
type Service interface {
	GetTagsBySubAccount(ctx context.Context, sess *session.Session, subAccountID string) ([]*models.Tag, error)
	CreateTag(ctx context.Context, sess *session.Session, req CreateTagRequest) (*models.Tag, error)
	UpdateTag(ctx context.Context, sess *session.Session, req UpdateTagRequest) error
	DeleteTag(ctx context.Context, sess *session.Session, id int) error
}

// CreateTagRequest encapsulates data for creating a tag
type CreateTagRequest struct {
	SubAccountID string
	Name         string
	Color        string
}

// UpdateTagRequest changes the fields that are set
type UpdateTagRequest struct {
	ID    int
	Name  *string
	Color *string
}

type service struct {
	repo        database.TagRepository
	eventClient events.EventPublisher
}

// NewService creates a new tag service
func NewService(repo database.TagRepository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// GetTagsBySubAccount lists the tags of a sub-account ordered by name
func (s *service) GetTagsBySubAccount(ctx context.Context, sess *session.Session, subAccountID string) ([]*models.Tag, error) {
	if subAccountID == "" {
		return nil, ErrInvalidSubAccountID
	}
	if !sess.CanView(subAccountID) {
		return nil, fmt.Errorf("%w: sub-account %s", models.ErrForbidden, subAccountID)
	}
	return s.repo.GetTagsBySubAccount(ctx, subAccountID)
}

// CreateTag creates a tag with a unique name inside its sub-account
func (s *service) CreateTag(ctx context.Context, sess *session.Session, req CreateTagRequest) (*models.Tag, error) {
	if req.SubAccountID == "" {
		return nil, ErrInvalidSubAccountID
	}
	if err := validate(req.Name, req.Color); err != nil {
		return nil, err
	}
	if !sess.CanMutate(req.SubAccountID) {
		return nil, fmt.Errorf("%w: sub-account %s", models.ErrForbidden, req.SubAccountID)
	}

	tag, err := s.repo.CreateTag(ctx, req.SubAccountID, req.Name, req.Color)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return tag, nil
}

// UpdateTag renames or recolors a tag
func (s *service) UpdateTag(ctx context.Context, sess *session.Session, req UpdateTagRequest) error {
	tag, err := s.mutable(ctx, sess, req.ID)
	if err != nil {
		return err
	}

	name, color := tag.Name, tag.Color
	if req.Name != nil {
		name = *req.Name
	}
	if req.Color != nil {
		color = *req.Color
	}
	if err := validate(name, color); err != nil {
		return err
	}

	if err := s.repo.UpdateTag(ctx, tag.ID, name, color); err != nil {
		return fmt.Errorf("failed to update tag: %w", err)
	}
	s.publish(sess)
	return nil
}

// DeleteTag deletes a tag and detaches it from every ticket
func (s *service) DeleteTag(ctx context.Context, sess *session.Session, id int) error {
	tag, err := s.mutable(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTag(ctx, tag.ID); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}
	s.publish(sess)
	return nil
}

func (s *service) mutable(ctx context.Context, sess *session.Session, id int) (*models.Tag, error) {
	if id <= 0 {
		return nil, ErrInvalidTagID
	}
	tag, err := s.repo.GetTagByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.CanMutate(tag.SubAccountID) {
		return nil, fmt.Errorf("%w: tag %d", models.ErrForbidden, id)
	}
	return tag, nil
}

func validate(name, color string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	if !hexColorRegex.MatchString(color) {
		return ErrInvalidColor
	}
	return nil
}

// publish notifies every pipeline, since any board may show the tag
func (s *service) publish(sess *session.Session) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(s.eventClient, events.BoardChanged(0, sess.ID), events.DefaultRetries)
}
