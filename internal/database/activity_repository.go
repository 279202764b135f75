package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/plura/internal/models"
)

// ActivityRepo handles the activity log.
type ActivityRepo struct {
	db *sql.DB
}

// CreateActivity appends an entry to the activity log
func (r *ActivityRepo) CreateActivity(ctx context.Context, subAccountID string, pipelineID *int, description string) (*models.Activity, error) {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO activities (subaccount_id, pipeline_id, description) VALUES (?, ?, ?)`,
		subAccountID, intPtrToNull(pipelineID), description,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert activity: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get activity ID after insert: %w", err)
	}

	activity := &models.Activity{}
	var pid sql.NullInt64
	err = r.db.QueryRowContext(ctx,
		`SELECT id, subaccount_id, pipeline_id, description, created_at FROM activities WHERE id = ?`, id,
	).Scan(&activity.ID, &activity.SubAccountID, &pid, &activity.Description, &activity.CreatedAt)
	if err != nil {
		return nil, notFound(err, "activity", int(id))
	}
	activity.PipelineID = nullInt64ToPtr(pid)
	return activity, nil
}

// GetRecentActivities returns the newest entries first. A nil pipelineID
// lists the whole sub-account.
func (r *ActivityRepo) GetRecentActivities(ctx context.Context, subAccountID string, pipelineID *int, limit int) ([]*models.Activity, error) {
	query := `SELECT id, subaccount_id, pipeline_id, description, created_at
		FROM activities WHERE subaccount_id = ?`
	args := []any{subAccountID}
	if pipelineID != nil {
		query += ` AND pipeline_id = ?`
		args = append(args, *pipelineID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer rows.Close()

	activities := []*models.Activity{}
	for rows.Next() {
		a := &models.Activity{}
		var pid sql.NullInt64
		if err := rows.Scan(&a.ID, &a.SubAccountID, &pid, &a.Description, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning activity row: %w", err)
		}
		a.PipelineID = nullInt64ToPtr(pid)
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activity rows: %w", err)
	}
	return activities, nil
}
