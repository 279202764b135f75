package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/plura/internal/models"
)

// LaneRepo handles all lane-related database operations.
type LaneRepo struct {
	db *sql.DB
}

const laneColumns = `id, name, pipeline_id, position, version, created_at, updated_at`

func scanLane(row interface{ Scan(...any) error }) (*models.Lane, error) {
	l := &models.Lane{}
	if err := row.Scan(&l.ID, &l.Name, &l.PipelineID, &l.Order, &l.Version, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

func getLane(ctx context.Context, q dbtx, id int) (*models.Lane, error) {
	l, err := scanLane(q.QueryRowContext(ctx, `SELECT `+laneColumns+` FROM lanes WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "lane", id)
	}
	return l, nil
}

func listLanes(ctx context.Context, q dbtx, pipelineID int) ([]*models.Lane, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT `+laneColumns+` FROM lanes WHERE pipeline_id = ? ORDER BY position`, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("querying lanes for pipeline: %w", err)
	}
	defer rows.Close()

	lanes := []*models.Lane{}
	for rows.Next() {
		l, err := scanLane(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning lane row: %w", err)
		}
		lanes = append(lanes, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating lane rows: %w", err)
	}
	return lanes, nil
}

// CreateLane appends a lane to the end of the pipeline and bumps the
// pipeline version
func (r *LaneRepo) CreateLane(ctx context.Context, pipelineID int, name string) (*models.Lane, error) {
	var lane *models.Lane
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := bumpPipelineVersion(ctx, tx, pipelineID); err != nil {
			return err
		}

		var count int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM lanes WHERE pipeline_id = ?`, pipelineID).Scan(&count); err != nil {
			return fmt.Errorf("failed to count lanes of pipeline %d: %w", pipelineID, err)
		}

		result, err := tx.ExecContext(ctx,
			`INSERT INTO lanes (name, pipeline_id, position) VALUES (?, ?, ?)`,
			name, pipelineID, count,
		)
		if err != nil {
			return fmt.Errorf("failed to insert lane '%s': %w", name, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get lane ID after insert: %w", err)
		}
		lane, err = getLane(ctx, tx, int(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return lane, nil
}

// GetLaneByID retrieves a lane without its tickets
func (r *LaneRepo) GetLaneByID(ctx context.Context, id int) (*models.Lane, error) {
	return getLane(ctx, r.db, id)
}

// GetLanesByPipeline lists the lanes of a pipeline ordered by position,
// without their tickets
func (r *LaneRepo) GetLanesByPipeline(ctx context.Context, pipelineID int) ([]*models.Lane, error) {
	return listLanes(ctx, r.db, pipelineID)
}

// UpdateLaneName renames a lane. The position is never touched.
func (r *LaneRepo) UpdateLaneName(ctx context.Context, id int, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE lanes SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return fmt.Errorf("failed to rename lane %d: %w", id, err)
	}
	return requireRow(res, "lane", id)
}

// DeleteLane removes a lane and every ticket in it, then compacts the
// positions of the remaining lanes and bumps the pipeline version.
func (r *LaneRepo) DeleteLane(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		lane, err := getLane(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tickets WHERE lane_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete tickets of lane %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM lanes WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete lane %d: %w", id, err)
		}
		if err := compactLanes(ctx, tx, lane.PipelineID); err != nil {
			return err
		}
		return bumpPipelineVersion(ctx, tx, lane.PipelineID)
	})
}
