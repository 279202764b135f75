package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/thenoetrevino/plura/internal/models"
)

// dbtx is satisfied by both *sql.DB and *sql.Tx so that read helpers can run
// inside or outside a transaction.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx executes a function within a database transaction.
// It automatically handles begin, rollback on error, and commit on success.
func withTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			slog.Error("failed to rollback transaction", "error", err)
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// nullInt64ToPtr converts sql.NullInt64 to *int.
// Returns nil if the value is not valid.
func nullInt64ToPtr(nv sql.NullInt64) *int {
	if nv.Valid {
		val := int(nv.Int64)
		return &val
	}
	return nil
}

// nullStringToPtr converts sql.NullString to *string.
// Returns nil if the value is not valid.
func nullStringToPtr(ns sql.NullString) *string {
	if ns.Valid {
		val := ns.String
		return &val
	}
	return nil
}

// intPtrToNull converts an optional int into a nullable SQL argument
func intPtrToNull(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// stringPtrToNull converts an optional string into a nullable SQL argument
func stringPtrToNull(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}

// compactLanes renumbers the lanes of a pipeline to 0..n-1 in their current
// order. Positions only ever shrink, so ascending updates never collide with
// the unique (pipeline_id, position) index.
func compactLanes(ctx context.Context, tx *sql.Tx, pipelineID int) error {
	return compact(ctx, tx,
		`SELECT id, position FROM lanes WHERE pipeline_id = ? ORDER BY position`,
		`UPDATE lanes SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		pipelineID)
}

// compactTickets renumbers the tickets of a lane to 0..n-1
func compactTickets(ctx context.Context, tx *sql.Tx, laneID int) error {
	return compact(ctx, tx,
		`SELECT id, position FROM tickets WHERE lane_id = ? ORDER BY position`,
		`UPDATE tickets SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
		laneID)
}

func compact(ctx context.Context, tx *sql.Tx, selectQuery, updateQuery string, containerID int) error {
	rows, err := tx.QueryContext(ctx, selectQuery, containerID)
	if err != nil {
		return fmt.Errorf("failed to read positions of container %d: %w", containerID, err)
	}
	type row struct{ id, position int }
	var current []row
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.id, &r.position); err != nil {
			_ = rows.Close()
			return fmt.Errorf("failed to scan position: %w", err)
		}
		current = append(current, r)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i, r := range current {
		if r.position == i {
			continue
		}
		if _, err := tx.ExecContext(ctx, updateQuery, i, r.id); err != nil {
			return fmt.Errorf("failed to compact position of %d: %w", r.id, err)
		}
	}
	return nil
}

// bumpLaneVersion increments the version of a lane. It fails with
// *models.NotFoundError when the lane does not exist.
func bumpLaneVersion(ctx context.Context, tx *sql.Tx, laneID int) error {
	return bumpVersion(ctx, tx, "lane", `UPDATE lanes SET version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, laneID)
}

// bumpPipelineVersion increments the version of a pipeline
func bumpPipelineVersion(ctx context.Context, tx *sql.Tx, pipelineID int) error {
	return bumpVersion(ctx, tx, "pipeline", `UPDATE pipelines SET version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, pipelineID)
}

func bumpVersion(ctx context.Context, tx *sql.Tx, kind, query string, id int) error {
	res, err := tx.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to bump %s %d version: %w", kind, id, err)
	}
	return requireRow(res, kind, id)
}

// requireRow turns a statement that touched no row into a NotFoundError
func requireRow(res sql.Result, kind string, id int) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows for %s %d: %w", kind, id, err)
	}
	if n == 0 {
		return models.NewNotFoundError(kind, id)
	}
	return nil
}

// notFound maps sql.ErrNoRows to a NotFoundError and wraps anything else
func notFound(err error, kind string, id int) error {
	if errors.Is(err, sql.ErrNoRows) {
		return models.NewNotFoundError(kind, id)
	}
	return fmt.Errorf("failed to read %s %d: %w", kind, id, err)
}
