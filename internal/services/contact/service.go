package contact

import (
	"context"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/events"
	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/session"
)

const maxNameLength = 100

// Service defines all contact-related business operations
type Service interface {
	GetContactByID(ctx context.Context, sess *session.Session, id int) (*models.Contact, error)
	GetContactsBySubAccount(ctx context.Context, sess *session.Session, subAccountID string) ([]*models.Contact, error)
	CreateContact(ctx context.Context, sess *session.Session, req CreateContactRequest) (*models.Contact, error)
	UpdateContact(ctx context.Context, sess *session.Session, req UpdateContactRequest) error
	DeleteContact(ctx context.Context, sess *session.Session, id int) error
}

// CreateContactRequest encapsulates data for creating a contact. Email is
// optional.
type CreateContactRequest struct {
	SubAccountID string
	Name         string
	Email        string
}

// UpdateContactRequest changes the fields that are set
type UpdateContactRequest struct {
	ID    int
	Name  *string
	Email *string
}

type service struct {
	repo        database.ContactRepository
	eventClient events.EventPublisher
}

// NewService creates a new contact service. eventClient may be nil.
func NewService(repo database.ContactRepository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// GetContactByID retrieves a contact the session may view
func (s *service) GetContactByID(ctx context.Context, sess *session.Session, id int) (*models.Contact, error) {
	if id <= 0 {
		return nil, ErrInvalidContactID
	}
	c, err := s.repo.GetContactByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.CanView(c.SubAccountID) {
		return nil, fmt.Errorf("%w: contact %d", models.ErrForbidden, id)
	}
	return c, nil
}

// GetContactsBySubAccount lists the contacts of a sub-account ordered by name
func (s *service) GetContactsBySubAccount(ctx context.Context, sess *session.Session, subAccountID string) ([]*models.Contact, error) {
	if subAccountID == "" {
		return nil, ErrInvalidSubAccountID
	}
	if !sess.CanView(subAccountID) {
		return nil, fmt.Errorf("%w: sub-account %s", models.ErrForbidden, subAccountID)
	}
	return s.repo.GetContactsBySubAccount(ctx, subAccountID)
}

// CreateContact creates a contact in a sub-account
func (s *service) CreateContact(ctx context.Context, sess *session.Session, req CreateContactRequest) (*models.Contact, error) {
	if req.SubAccountID == "" {
		return nil, ErrInvalidSubAccountID
	}
	name, email := strings.TrimSpace(req.Name), strings.TrimSpace(req.Email)
	if err := validate(name, email); err != nil {
		return nil, err
	}
	if !sess.CanMutate(req.SubAccountID) {
		return nil, fmt.Errorf("%w: sub-account %s", models.ErrForbidden, req.SubAccountID)
	}

	c, err := s.repo.CreateContact(ctx, req.SubAccountID, name, email)
	if err != nil {
		return nil, fmt.Errorf("failed to create contact: %w", err)
	}
	return c, nil
}

// UpdateContact renames a contact or changes its email. Boards showing the
// contact as a customer are told to reload.
func (s *service) UpdateContact(ctx context.Context, sess *session.Session, req UpdateContactRequest) error {
	c, err := s.mutable(ctx, sess, req.ID)
	if err != nil {
		return err
	}

	name, email := c.Name, c.Email
	if req.Name != nil {
		name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email = strings.TrimSpace(*req.Email)
	}
	if err := validate(name, email); err != nil {
		return err
	}

	if err := s.repo.UpdateContact(ctx, c.ID, name, email); err != nil {
		return fmt.Errorf("failed to update contact: %w", err)
	}
	s.publish(sess)
	return nil
}

// DeleteContact deletes a contact. Its tickets stay and lose their customer.
func (s *service) DeleteContact(ctx context.Context, sess *session.Session, id int) error {
	c, err := s.mutable(ctx, sess, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteContact(ctx, c.ID); err != nil {
		return fmt.Errorf("failed to delete contact: %w", err)
	}
	s.publish(sess)
	return nil
}

func (s *service) mutable(ctx context.Context, sess *session.Session, id int) (*models.Contact, error) {
	if id <= 0 {
		return nil, ErrInvalidContactID
	}
	c, err := s.repo.GetContactByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.CanMutate(c.SubAccountID) {
		return nil, fmt.Errorf("%w: contact %d", models.ErrForbidden, id)
	}
	return c, nil
}

func validate(name, email string) error {
	if name == "" {
		return ErrEmptyName
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return ErrNameTooLong
	}
	if email == "" {
		return nil
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return ErrInvalidEmail
	}
	return nil
}

// publish notifies every pipeline, since any board may show the contact
func (s *service) publish(sess *session.Session) {
	if s.eventClient == nil {
		return
	}
	_ = events.PublishWithRetry(s.eventClient, events.BoardChanged(0, sess.ID), events.DefaultRetries)
}
