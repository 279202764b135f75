package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thenoetrevino/plura/internal/models"
)

// TicketRepo handles all ticket-related database operations.
type TicketRepo struct {
	db *sql.DB
}

// TicketFields holds the columns of a ticket that callers may set
type TicketFields struct {
	Title       string
	Description string
	Value       float64
	AssigneeID  *string
	CustomerID  *int
}

const ticketColumns = `id, title, description, value, lane_id, position, assignee_id, customer_id, created_at, updated_at`

func scanTicket(row interface{ Scan(...any) error }) (*models.Ticket, error) {
	t := &models.Ticket{}
	var assignee sql.NullString
	var customer sql.NullInt64
	if err := row.Scan(&t.ID, &t.Title, &t.Description, &t.Value, &t.LaneID, &t.Order, &assignee, &customer, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.AssigneeID = nullStringToPtr(assignee)
	t.CustomerID = nullInt64ToPtr(customer)
	t.Tags = []*models.Tag{}
	return t, nil
}

func getTicket(ctx context.Context, q dbtx, id int) (*models.Ticket, error) {
	t, err := scanTicket(q.QueryRowContext(ctx, `SELECT `+ticketColumns+` FROM tickets WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "ticket", id)
	}
	if err := attachTags(ctx, q, []*models.Ticket{t}); err != nil {
		return nil, err
	}
	if err := attachCustomers(ctx, q, []*models.Ticket{t}); err != nil {
		return nil, err
	}
	return t, nil
}

// queryTickets runs a ticket query and attaches the tags of every ticket
func queryTickets(ctx context.Context, q dbtx, query string, args ...any) ([]*models.Ticket, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying tickets: %w", err)
	}
	tickets := []*models.Ticket{}
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scanning ticket row: %w", err)
		}
		tickets = append(tickets, t)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ticket rows: %w", err)
	}
	if err := attachTags(ctx, q, tickets); err != nil {
		return nil, err
	}
	if err := attachCustomers(ctx, q, tickets); err != nil {
		return nil, err
	}
	return tickets, nil
}

// attachTags loads the tags of all given tickets in a single query
func attachTags(ctx context.Context, q dbtx, tickets []*models.Ticket) error {
	if len(tickets) == 0 {
		return nil
	}
	byID := make(map[int]*models.Ticket, len(tickets))
	args := make([]any, len(tickets))
	for i, t := range tickets {
		byID[t.ID] = t
		args[i] = t.ID
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(tickets)), ",")
	rows, err := q.QueryContext(ctx,
		`SELECT tt.ticket_id, t.id, t.name, t.color, t.subaccount_id
		 FROM ticket_tags tt
		 INNER JOIN tags t ON t.id = tt.tag_id
		 WHERE tt.ticket_id IN (`+placeholders+`)
		 ORDER BY t.name`, args...)
	if err != nil {
		return fmt.Errorf("querying ticket tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var ticketID int
		tag := &models.Tag{}
		if err := rows.Scan(&ticketID, &tag.ID, &tag.Name, &tag.Color, &tag.SubAccountID); err != nil {
			return fmt.Errorf("scanning ticket tag: %w", err)
		}
		if t, ok := byID[ticketID]; ok {
			t.Tags = append(t.Tags, tag)
		}
	}
	return rows.Err()
}

// CreateTicket appends a ticket to the end of the lane, attaches tagIDs and
// bumps the lane version. Nothing is written if any tag or the customer is
// missing.
func (r *TicketRepo) CreateTicket(ctx context.Context, laneID int, f TicketFields, tagIDs []int) (*models.Ticket, error) {
	var ticket *models.Ticket
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := bumpLaneVersion(ctx, tx, laneID); err != nil {
			return err
		}
		if err := checkContactExists(ctx, tx, f.CustomerID); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM tickets WHERE lane_id = ?`, laneID).Scan(&count); err != nil {
			return fmt.Errorf("failed to count tickets of lane %d: %w", laneID, err)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO tickets (title, description, value, lane_id, position, assignee_id, customer_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			f.Title, f.Description, f.Value, laneID, count, stringPtrToNull(f.AssigneeID), intPtrToNull(f.CustomerID),
		)
		if err != nil {
			return fmt.Errorf("failed to insert ticket '%s': %w", f.Title, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get ticket ID after insert: %w", err)
		}
		for _, tagID := range tagIDs {
			if err := insertTicketTag(ctx, tx, int(id), tagID); err != nil {
				return err
			}
		}
		ticket, err = getTicket(ctx, tx, int(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

// GetTicketByID retrieves a ticket with its tags
func (r *TicketRepo) GetTicketByID(ctx context.Context, id int) (*models.Ticket, error) {
	return getTicket(ctx, r.db, id)
}

// GetTicketsByLane lists the tickets of a lane ordered by position
func (r *TicketRepo) GetTicketsByLane(ctx context.Context, laneID int) ([]*models.Ticket, error) {
	return queryTickets(ctx, r.db,
		`SELECT `+ticketColumns+` FROM tickets WHERE lane_id = ? ORDER BY position`, laneID)
}

// UpdateTicket changes every field except lane and position
func (r *TicketRepo) UpdateTicket(ctx context.Context, id int, f TicketFields) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := checkContactExists(ctx, tx, f.CustomerID); err != nil {
			return err
		}
		res, err := tx.ExecContext(ctx,
			`UPDATE tickets
			 SET title = ?, description = ?, value = ?, assignee_id = ?, customer_id = ?, updated_at = CURRENT_TIMESTAMP
			 WHERE id = ?`,
			f.Title, f.Description, f.Value, stringPtrToNull(f.AssigneeID), intPtrToNull(f.CustomerID), id,
		)
		if err != nil {
			return fmt.Errorf("failed to update ticket %d: %w", id, err)
		}
		return requireRow(res, "ticket", id)
	})
}

// DeleteTicket removes a ticket, compacts the remaining tickets of its lane
// and bumps the lane version
func (r *TicketRepo) DeleteTicket(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		laneID, err := getTicketLane(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete ticket %d: %w", id, err)
		}
		if err := compactTickets(ctx, tx, laneID); err != nil {
			return err
		}
		return bumpLaneVersion(ctx, tx, laneID)
	})
}
