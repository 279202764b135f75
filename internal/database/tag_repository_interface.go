package database

import (
	"context"

	"github.com/thenoetrevino/plura/internal/models"
)

// TagReader defines read operations for tags.
type TagReader interface {
	GetTagByID(ctx context.Context, id int) (*models.Tag, error)
	GetTagsBySubAccount(ctx context.Context, subAccountID string) ([]*models.Tag, error)
	GetTagsForTicket(ctx context.Context, ticketID int) ([]*models.Tag, error)
}

// TagWriter defines write operations for tags.
type TagWriter interface {
	CreateTag(ctx context.Context, subAccountID, name, color string) (*models.Tag, error)
	UpdateTag(ctx context.Context, id int, name, color string) error
	DeleteTag(ctx context.Context, id int) error
	AddTagToTicket(ctx context.Context, ticketID, tagID int) error
	RemoveTagFromTicket(ctx context.Context, ticketID, tagID int) error
}

// TagRepository combines all tag-related operations.
type TagRepository interface {
	TagReader
	TagWriter
}
