package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/plura/internal/models"
)

// TagRepo handles all tag-related database operations.
type TagRepo struct {
	db *sql.DB
}

// CreateTag creates a new tag scoped to the sub-account
func (r *TagRepo) CreateTag(ctx context.Context, subAccountID, name, color string) (*models.Tag, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO tags (name, color, subaccount_id) VALUES (?, ?, ?)`,
		name, color, subAccountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert tag '%s': %w", name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get tag ID after insert: %w", err)
	}

	return &models.Tag{
		ID:           int(id),
		Name:         name,
		Color:        color,
		SubAccountID: subAccountID,
	}, nil
}

// GetTagByID retrieves a tag by its ID
func (r *TagRepo) GetTagByID(ctx context.Context, id int) (*models.Tag, error) {
	tag := &models.Tag{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, color, subaccount_id FROM tags WHERE id = ?`, id,
	).Scan(&tag.ID, &tag.Name, &tag.Color, &tag.SubAccountID)
	if err != nil {
		return nil, notFound(err, "tag", id)
	}
	return tag, nil
}

// GetTagsBySubAccount lists the tags of a sub-account ordered by name
func (r *TagRepo) GetTagsBySubAccount(ctx context.Context, subAccountID string) ([]*models.Tag, error) {
	return r.list(ctx,
		`SELECT id, name, color, subaccount_id FROM tags WHERE subaccount_id = ? ORDER BY name`,
		subAccountID)
}

// GetTagsForTicket lists the tags attached to a ticket ordered by name
func (r *TagRepo) GetTagsForTicket(ctx context.Context, ticketID int) ([]*models.Tag, error) {
	return r.list(ctx,
		`SELECT t.id, t.name, t.color, t.subaccount_id
		 FROM tags t
		 INNER JOIN ticket_tags tt ON tt.tag_id = t.id
		 WHERE tt.ticket_id = ?
		 ORDER BY t.name`,
		ticketID)
}

func (r *TagRepo) list(ctx context.Context, query string, args ...any) ([]*models.Tag, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	tags := []*models.Tag{}
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Color, &tag.SubAccountID); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating tag rows: %w", err)
	}
	return tags, nil
}

// UpdateTag changes a tag's name and color
func (r *TagRepo) UpdateTag(ctx context.Context, id int, name, color string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tags SET name = ?, color = ? WHERE id = ?`, name, color, id)
	if err != nil {
		return fmt.Errorf("failed to update tag %d: %w", id, err)
	}
	return requireRow(res, "tag", id)
}

// DeleteTag removes a tag. Its ticket associations go with it.
func (r *TagRepo) DeleteTag(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tags WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete tag %d: %w", id, err)
	}
	return requireRow(res, "tag", id)
}

// AddTagToTicket attaches a tag to a ticket. Attaching twice is a no-op.
func (r *TagRepo) AddTagToTicket(ctx context.Context, ticketID, tagID int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := getTicketLane(ctx, tx, ticketID); err != nil {
			return err
		}
		return insertTicketTag(ctx, tx, ticketID, tagID)
	})
}

func insertTicketTag(ctx context.Context, tx *sql.Tx, ticketID, tagID int) error {
	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM tags WHERE id = ?`, tagID).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check tag %d: %w", tagID, err)
	}
	if exists == 0 {
		return models.NewNotFoundError("tag", tagID)
	}
	_, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO ticket_tags (ticket_id, tag_id) VALUES (?, ?)`,
		ticketID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to attach tag %d to ticket %d: %w", tagID, ticketID, err)
	}
	return nil
}

// RemoveTagFromTicket detaches a tag from a ticket
func (r *TagRepo) RemoveTagFromTicket(ctx context.Context, ticketID, tagID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM ticket_tags WHERE ticket_id = ? AND tag_id = ?`,
		ticketID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to detach tag %d from ticket %d: %w", tagID, ticketID, err)
	}
	return nil
}

func getTicketLane(ctx context.Context, q dbtx, ticketID int) (int, error) {
	var laneID int
	if err := q.QueryRowContext(ctx, `SELECT lane_id FROM tickets WHERE id = ?`, ticketID).Scan(&laneID); err != nil {
		return 0, notFound(err, "ticket", ticketID)
	}
	return laneID, nil
}
