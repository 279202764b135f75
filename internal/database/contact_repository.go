package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/thenoetrevino/plura/internal/models"
)

// ContactRepo handles all contact-related database operations.
type ContactRepo struct {
	db *sql.DB
}

const contactColumns = `id, name, email, subaccount_id, created_at, updated_at`

func scanContact(row interface{ Scan(...any) error }) (*models.Contact, error) {
	c := &models.Contact{}
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.SubAccountID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// CreateContact creates a contact scoped to the sub-account
func (r *ContactRepo) CreateContact(ctx context.Context, subAccountID, name, email string) (*models.Contact, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO contacts (name, email, subaccount_id) VALUES (?, ?, ?)`,
		name, email, subAccountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert contact '%s': %w", name, err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get contact ID after insert: %w", err)
	}
	return r.GetContactByID(ctx, int(id))
}

// GetContactByID retrieves a contact by its ID
func (r *ContactRepo) GetContactByID(ctx context.Context, id int) (*models.Contact, error) {
	c, err := scanContact(r.db.QueryRowContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "contact", id)
	}
	return c, nil
}

// GetContactsBySubAccount lists the contacts of a sub-account ordered by name
func (r *ContactRepo) GetContactsBySubAccount(ctx context.Context, subAccountID string) ([]*models.Contact, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE subaccount_id = ? ORDER BY name, id`, subAccountID)
	if err != nil {
		return nil, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	contacts := []*models.Contact{}
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning contact row: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating contact rows: %w", err)
	}
	return contacts, nil
}

// UpdateContact changes a contact's name and email
func (r *ContactRepo) UpdateContact(ctx context.Context, id int, name, email string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE contacts SET name = ?, email = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, email, id)
	if err != nil {
		return fmt.Errorf("failed to update contact %d: %w", id, err)
	}
	return requireRow(res, "contact", id)
}

// DeleteContact removes a contact and clears it from the tickets that name
// it as their customer
func (r *ContactRepo) DeleteContact(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`UPDATE tickets SET customer_id = NULL, updated_at = CURRENT_TIMESTAMP WHERE customer_id = ?`, id); err != nil {
			return fmt.Errorf("failed to clear contact %d from tickets: %w", id, err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("failed to delete contact %d: %w", id, err)
		}
		return requireRow(res, "contact", id)
	})
}

// attachCustomers loads the customer contact of all given tickets in a
// single query
func attachCustomers(ctx context.Context, q dbtx, tickets []*models.Ticket) error {
	seen := make(map[int]bool)
	args := []any{}
	for _, t := range tickets {
		if t.CustomerID != nil && !seen[*t.CustomerID] {
			seen[*t.CustomerID] = true
			args = append(args, *t.CustomerID)
		}
	}
	if len(args) == 0 {
		return nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")
	rows, err := q.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return fmt.Errorf("querying ticket customers: %w", err)
	}
	defer rows.Close()

	byID := make(map[int]*models.Contact, len(args))
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return fmt.Errorf("scanning ticket customer: %w", err)
		}
		byID[c.ID] = c
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for _, t := range tickets {
		if t.CustomerID != nil {
			t.Customer = byID[*t.CustomerID]
		}
	}
	return nil
}

func checkContactExists(ctx context.Context, q dbtx, id *int) error {
	if id == nil {
		return nil
	}
	var exists int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM contacts WHERE id = ?`, *id).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check contact %d: %w", *id, err)
	}
	if exists == 0 {
		return models.NewNotFoundError("contact", *id)
	}
	return nil
}
