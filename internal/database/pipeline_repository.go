package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/thenoetrevino/plura/internal/models"
)

// PipelineRepo handles all pipeline-related database operations.
type PipelineRepo struct {
	db *sql.DB
}

const pipelineColumns = `id, name, subaccount_id, version, created_at, updated_at`

func scanPipeline(row interface{ Scan(...any) error }) (*models.Pipeline, error) {
	p := &models.Pipeline{}
	if err := row.Scan(&p.ID, &p.Name, &p.SubAccountID, &p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func getPipeline(ctx context.Context, q dbtx, id int) (*models.Pipeline, error) {
	p, err := scanPipeline(q.QueryRowContext(ctx,
		`SELECT `+pipelineColumns+` FROM pipelines WHERE id = ?`, id))
	if err != nil {
		return nil, notFound(err, "pipeline", id)
	}
	return p, nil
}

// CreatePipeline creates an empty pipeline owned by the sub-account
func (r *PipelineRepo) CreatePipeline(ctx context.Context, name, subAccountID string) (*models.Pipeline, error) {
	var pipeline *models.Pipeline
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx,
			`INSERT INTO pipelines (name, subaccount_id) VALUES (?, ?)`,
			name, subAccountID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert pipeline '%s': %w", name, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("failed to get pipeline ID after insert: %w", err)
		}
		pipeline, err = getPipeline(ctx, tx, int(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return pipeline, nil
}

// GetPipelineByID retrieves a pipeline by its ID
func (r *PipelineRepo) GetPipelineByID(ctx context.Context, id int) (*models.Pipeline, error) {
	return getPipeline(ctx, r.db, id)
}

// GetPipelinesBySubAccount lists the pipelines of a sub-account, oldest first
func (r *PipelineRepo) GetPipelinesBySubAccount(ctx context.Context, subAccountID string) ([]*models.Pipeline, error) {
	return r.list(ctx, `SELECT `+pipelineColumns+` FROM pipelines WHERE subaccount_id = ? ORDER BY id`, subAccountID)
}

// GetAllPipelines lists every pipeline
func (r *PipelineRepo) GetAllPipelines(ctx context.Context) ([]*models.Pipeline, error) {
	return r.list(ctx, `SELECT `+pipelineColumns+` FROM pipelines ORDER BY subaccount_id, id`)
}

func (r *PipelineRepo) list(ctx context.Context, query string, args ...any) ([]*models.Pipeline, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying pipelines: %w", err)
	}
	defer rows.Close()

	pipelines := []*models.Pipeline{}
	for rows.Next() {
		p, err := scanPipeline(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pipeline row: %w", err)
		}
		pipelines = append(pipelines, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pipeline rows: %w", err)
	}
	return pipelines, nil
}

// UpdatePipelineName renames a pipeline
func (r *PipelineRepo) UpdatePipelineName(ctx context.Context, id int, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE pipelines SET name = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		name, id,
	)
	if err != nil {
		return fmt.Errorf("failed to rename pipeline %d: %w", id, err)
	}
	return requireRow(res, "pipeline", id)
}

// DeletePipeline removes a pipeline together with its lanes and tickets.
// Activity entries survive with their pipeline reference cleared.
func (r *PipelineRepo) DeletePipeline(ctx context.Context, id int) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := getPipeline(ctx, tx, id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM tickets WHERE lane_id IN (SELECT id FROM lanes WHERE pipeline_id = ?)`, id); err != nil {
			return fmt.Errorf("failed to delete tickets of pipeline %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM lanes WHERE pipeline_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete lanes of pipeline %d: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM pipelines WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete pipeline %d: %w", id, err)
		}
		return nil
	})
}
