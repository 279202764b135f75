package ticket

import (
	"context"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/events"
	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/services/activity"
	"github.com/thenoetrevino/plura/internal/session"
)

const maxTitleLength = 255

// Service defines all ticket-related business operations. Ticket order and
// lane membership are changed only through the reorder engine.
type Service interface {
	// Read operations
	GetTicketByID(ctx context.Context, sess *session.Session, id int) (*models.Ticket, error)
	GetTicketsByLane(ctx context.Context, sess *session.Session, laneID int) ([]*models.Ticket, error)

	// Write operations
	CreateTicket(ctx context.Context, sess *session.Session, req CreateTicketRequest) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, sess *session.Session, req UpdateTicketRequest) error
	DeleteTicket(ctx context.Context, sess *session.Session, id int) error

	// Tag operations
	AttachTag(ctx context.Context, sess *session.Session, ticketID, tagID int) error
	DetachTag(ctx context.Context, sess *session.Session, ticketID, tagID int) error
}

// CreateTicketRequest encapsulates data for creating a ticket. New tickets
// are appended after the last ticket of the lane.
type CreateTicketRequest struct {
	LaneID      int
	Title       string
	Description string
	Value       float64
	AssigneeID  *string
	CustomerID  *int
	TagIDs      []int
}

// UpdateTicketRequest changes the fields that are set. Unassign clears the
// assignee and takes precedence over AssigneeID, ClearCustomer does the same
// for CustomerID.
type UpdateTicketRequest struct {
	TicketID      int
	Title         *string
	Description   *string
	Value         *float64
	AssigneeID    *string
	Unassign      bool
	CustomerID    *int
	ClearCustomer bool
}

// Repository is the storage the ticket service needs
type Repository interface {
	database.TicketRepository
	database.TagRepository
	database.ContactReader
	database.LaneReader
	database.PipelineReader
}

type service struct {
	repo        Repository
	activity    activity.Recorder
	eventClient events.EventPublisher
}

// NewService creates a new ticket service. recorder and eventClient may be nil.
func NewService(repo Repository, recorder activity.Recorder, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		activity:    recorder,
		eventClient: eventClient,
	}
}

// GetTicketByID retrieves a ticket with its tags
func (s *service) GetTicketByID(ctx context.Context, sess *session.Session, id int) (*models.Ticket, error) {
	if id <= 0 {
		return nil, ErrInvalidTicketID
	}
	t, err := s.repo.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.pipelineOfLane(ctx, sess, t.LaneID, false); err != nil {
		return nil, err
	}
	return t, nil
}

// GetTicketsByLane retrieves the tickets of a lane in order
func (s *service) GetTicketsByLane(ctx context.Context, sess *session.Session, laneID int) ([]*models.Ticket, error) {
	if laneID <= 0 {
		return nil, ErrInvalidLaneID
	}
	if _, err := s.pipelineOfLane(ctx, sess, laneID, false); err != nil {
		return nil, err
	}
	return s.repo.GetTicketsByLane(ctx, laneID)
}

// CreateTicket appends a ticket to a lane and attaches the requested tags
func (s *service) CreateTicket(ctx context.Context, sess *session.Session, req CreateTicketRequest) (*models.Ticket, error) {
	if req.LaneID <= 0 {
		return nil, ErrInvalidLaneID
	}
	if err := validateFields(req.Title, req.Value); err != nil {
		return nil, err
	}
	p, err := s.pipelineOfLane(ctx, sess, req.LaneID, true)
	if err != nil {
		return nil, err
	}
	for _, tagID := range req.TagIDs {
		if err := s.checkTag(ctx, p, tagID); err != nil {
			return nil, err
		}
	}
	if err := s.checkCustomer(ctx, p, req.CustomerID); err != nil {
		return nil, err
	}

	t, err := s.repo.CreateTicket(ctx, req.LaneID, database.TicketFields{
		Title:       req.Title,
		Description: req.Description,
		Value:       req.Value,
		AssigneeID:  req.AssigneeID,
		CustomerID:  req.CustomerID,
	}, req.TagIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket: %w", err)
	}

	activity.Record(ctx, s.activity, "Created a ticket | "+t.Title, p.SubAccountID, &p.ID)
	s.publish(sess, p.ID)
	return t, nil
}

// UpdateTicket updates the fields set in req. Order and lane are never
// touched.
func (s *service) UpdateTicket(ctx context.Context, sess *session.Session, req UpdateTicketRequest) error {
	if req.TicketID <= 0 {
		return ErrInvalidTicketID
	}
	t, err := s.repo.GetTicketByID(ctx, req.TicketID)
	if err != nil {
		return err
	}
	p, err := s.pipelineOfLane(ctx, sess, t.LaneID, true)
	if err != nil {
		return err
	}

	title, description, value, assignee, customer := t.Title, t.Description, t.Value, t.AssigneeID, t.CustomerID
	if req.Title != nil {
		title = *req.Title
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.Value != nil {
		value = *req.Value
	}
	if req.AssigneeID != nil {
		assignee = req.AssigneeID
	}
	if req.Unassign {
		assignee = nil
	}
	if req.CustomerID != nil {
		if err := s.checkCustomer(ctx, p, req.CustomerID); err != nil {
			return err
		}
		customer = req.CustomerID
	}
	if req.ClearCustomer {
		customer = nil
	}
	if err := validateFields(title, value); err != nil {
		return err
	}

	if err := s.repo.UpdateTicket(ctx, t.ID, database.TicketFields{
		Title:       title,
		Description: description,
		Value:       value,
		AssigneeID:  assignee,
		CustomerID:  customer,
	}); err != nil {
		return fmt.Errorf("failed to update ticket: %w", err)
	}

	activity.Record(ctx, s.activity, "Updated a ticket | "+title, p.SubAccountID, &p.ID)
	s.publish(sess, p.ID)
	return nil
}

// DeleteTicket deletes a ticket and compacts the remaining tickets of its lane
func (s *service) DeleteTicket(ctx context.Context, sess *session.Session, id int) error {
	if id <= 0 {
		return ErrInvalidTicketID
	}
	t, err := s.repo.GetTicketByID(ctx, id)
	if err != nil {
		return err
	}
	p, err := s.pipelineOfLane(ctx, sess, t.LaneID, true)
	if err != nil {
		return err
	}

	if err := s.repo.DeleteTicket(ctx, id); err != nil {
		return fmt.Errorf("failed to delete ticket: %w", err)
	}

	activity.Record(ctx, s.activity, "Deleted a ticket | "+t.Title, p.SubAccountID, &p.ID)
	s.publish(sess, p.ID)
	return nil
}

// AttachTag adds a tag of the pipeline's sub-account to a ticket
func (s *service) AttachTag(ctx context.Context, sess *session.Session, ticketID, tagID int) error {
	p, err := s.tagTarget(ctx, sess, ticketID, tagID)
	if err != nil {
		return err
	}
	if err := s.repo.AddTagToTicket(ctx, ticketID, tagID); err != nil {
		return fmt.Errorf("failed to attach tag: %w", err)
	}
	s.publish(sess, p.ID)
	return nil
}

// DetachTag removes a tag from a ticket
func (s *service) DetachTag(ctx context.Context, sess *session.Session, ticketID, tagID int) error {
	p, err := s.tagTarget(ctx, sess, ticketID, tagID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveTagFromTicket(ctx, ticketID, tagID); err != nil {
		return fmt.Errorf("failed to detach tag: %w", err)
	}
	s.publish(sess, p.ID)
	return nil
}

func (s *service) tagTarget(ctx context.Context, sess *session.Session, ticketID, tagID int) (*models.Pipeline, error) {
	if ticketID <= 0 {
		return nil, ErrInvalidTicketID
	}
	if tagID <= 0 {
		return nil, ErrInvalidTagID
	}
	t, err := s.repo.GetTicketByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	p, err := s.pipelineOfLane(ctx, sess, t.LaneID, true)
	if err != nil {
		return nil, err
	}
	if err := s.checkTag(ctx, p, tagID); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *service) checkTag(ctx context.Context, p *models.Pipeline, tagID int) error {
	if tagID <= 0 {
		return ErrInvalidTagID
	}
	tag, err := s.repo.GetTagByID(ctx, tagID)
	if err != nil {
		return err
	}
	if tag.SubAccountID != p.SubAccountID {
		return ErrTagOtherSubAccount
	}
	return nil
}

// checkCustomer makes sure an optional customer is a contact of the
// pipeline's sub-account
func (s *service) checkCustomer(ctx context.Context, p *models.Pipeline, contactID *int) error {
	if contactID == nil {
		return nil
	}
	if *contactID <= 0 {
		return ErrInvalidContactID
	}
	c, err := s.repo.GetContactByID(ctx, *contactID)
	if err != nil {
		return err
	}
	if c.SubAccountID != p.SubAccountID {
		return ErrContactOtherSubAccount
	}
	return nil
}

// pipelineOfLane resolves the pipeline holding a lane and checks that the
// session may view or, when mutate is set, change it
func (s *service) pipelineOfLane(ctx context.Context, sess *session.Session, laneID int, mutate bool) (*models.Pipeline, error) {
	lane, err := s.repo.GetLaneByID(ctx, laneID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetPipelineByID(ctx, lane.PipelineID)
	if err != nil {
		return nil, err
	}
	allowed := sess.CanView(p.SubAccountID)
	if mutate {
		allowed = sess.CanMutate(p.SubAccountID)
	}
	if !allowed {
		return nil, fmt.Errorf("%w: pipeline %d", models.ErrForbidden, p.ID)
	}
	return p, nil
}

func validateFields(title string, value float64) error {
	if title == "" {
		return ErrEmptyTitle
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return ErrTitleTooLong
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return ErrInvalidValue
	}
	if value < 0 {
		return ErrNegativeValue
	}
	return nil
}

func (s *service) publish(sess *session.Session, pipelineID int) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(s.eventClient, events.BoardChanged(pipelineID, sess.ID), events.DefaultRetries)
}
