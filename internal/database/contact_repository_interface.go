package database

import (
	"context"

	"github.com/thenoetrevino/plura/internal/models"
)

// ContactReader defines read operations for contacts.
type ContactReader interface {
	GetContactByID(ctx context.Context, id int) (*models.Contact, error)
	GetContactsBySubAccount(ctx context.Context, subAccountID string) ([]*models.Contact, error)
}

// ContactWriter defines write operations for contacts.
type ContactWriter interface {
	CreateContact(ctx context.Context, subAccountID, name, email string) (*models.Contact, error)
	UpdateContact(ctx context.Context, id int, name, email string) error
	DeleteContact(ctx context.Context, id int) error
}

// ContactRepository combines all contact-related operations.
type ContactRepository interface {
	ContactReader
	ContactWriter
}
