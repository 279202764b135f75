package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/ordering"
)

// BoardRepo reads whole boards and applies reorder batches.
type BoardRepo struct {
	db *sql.DB
}

// FindLanesWithTicketsAndTags returns the lanes of a pipeline ordered by
// position, each with its tickets ordered by position, their tags and their
// customer.
func (r *BoardRepo) FindLanesWithTicketsAndTags(ctx context.Context, pipelineID int) ([]*models.Lane, error) {
	return lanesWithTickets(ctx, r.db, pipelineID)
}

func lanesWithTickets(ctx context.Context, q dbtx, pipelineID int) ([]*models.Lane, error) {
	lanes, err := listLanes(ctx, q, pipelineID)
	if err != nil {
		return nil, err
	}

	tickets, err := queryTickets(ctx, q,
		`SELECT t.id, t.title, t.description, t.value, t.lane_id, t.position, t.assignee_id, t.customer_id, t.created_at, t.updated_at
		 FROM tickets t
		 INNER JOIN lanes l ON l.id = t.lane_id
		 WHERE l.pipeline_id = ?
		 ORDER BY l.position, t.position`, pipelineID)
	if err != nil {
		return nil, err
	}

	byID := make(map[int]*models.Lane, len(lanes))
	for _, l := range lanes {
		l.Tickets = []*models.Ticket{}
		byID[l.ID] = l
	}
	for _, t := range tickets {
		if l, ok := byID[t.LaneID]; ok {
			l.Tickets = append(l.Tickets, t)
		}
	}
	return lanes, nil
}

// LoadBoard reads the pipeline and its full board in one transaction.
// Fails with *models.NotFoundError when the pipeline does not exist.
func (r *BoardRepo) LoadBoard(ctx context.Context, pipelineID int) (*models.BoardSnapshot, error) {
	var snap *models.BoardSnapshot
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		pipeline, err := getPipeline(ctx, tx, pipelineID)
		if err != nil {
			return err
		}
		lanes, err := lanesWithTickets(ctx, tx, pipelineID)
		if err != nil {
			return err
		}
		snap = &models.BoardSnapshot{Pipeline: *pipeline, Lanes: lanes}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// BatchUpdateOrders applies a reorder batch all-or-nothing.
//
// Every container named in the batch must still be at its expected version,
// otherwise the batch fails with *models.ConflictError and nothing is
// written. Positions are written in two phases, first to negative
// placeholders and then to their final values, so that the unique position
// indexes never see a transient duplicate. Each touched container is
// verified to be dense before commit.
func (r *BoardRepo) BatchUpdateOrders(ctx context.Context, batch *models.OrderBatch) (*models.BatchResult, error) {
	result := &models.BatchResult{LaneVersions: make(map[int]int)}
	if batch.Empty() {
		return result, nil
	}

	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if batch.ExpectedPipelineVersion != nil {
			v, err := checkVersion(ctx, tx, "pipeline",
				`UPDATE pipelines SET version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND version = ?`,
				`SELECT version FROM pipelines WHERE id = ?`,
				batch.PipelineID, *batch.ExpectedPipelineVersion)
			if err != nil {
				return err
			}
			result.PipelineVersion = &v
		}

		for _, laneID := range slices.Sorted(maps.Keys(batch.ExpectedLaneVersions)) {
			v, err := checkVersion(ctx, tx, "lane",
				`UPDATE lanes SET version = version + 1, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND version = ?`,
				`SELECT version FROM lanes WHERE id = ?`,
				laneID, batch.ExpectedLaneVersions[laneID])
			if err != nil {
				return err
			}
			result.LaneVersions[laneID] = v
		}

		if err := r.checkMembership(ctx, tx, batch); err != nil {
			return err
		}

		// Phase 1: move every updated row to a unique negative placeholder
		for _, u := range batch.Updates {
			if err := writePosition(ctx, tx, batch.PipelineID, u, -(u.NewOrder + 1)); err != nil {
				return err
			}
		}
		// Phase 2: final positions
		for _, u := range batch.Updates {
			if err := writePosition(ctx, tx, batch.PipelineID, u, u.NewOrder); err != nil {
				return err
			}
		}

		return verifyDense(ctx, tx, batch)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// checkVersion bumps the version of a container if it still matches
// expected and returns the new version
func checkVersion(ctx context.Context, tx *sql.Tx, kind, bumpQuery, readQuery string, id, expected int) (int, error) {
	res, err := tx.ExecContext(ctx, bumpQuery, id, expected)
	if err != nil {
		return 0, fmt.Errorf("failed to check %s %d version: %w", kind, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check %s %d version: %w", kind, id, err)
	}
	if n == 1 {
		return expected + 1, nil
	}

	actual := -1
	if err := tx.QueryRowContext(ctx, readQuery, id).Scan(&actual); err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to read %s %d version: %w", kind, id, err)
	}
	return 0, &models.ConflictError{Kind: kind, ID: id, Expected: expected, Actual: actual}
}

// checkMembership makes sure every entity of the batch still belongs to a
// container the batch was checked against
func (r *BoardRepo) checkMembership(ctx context.Context, tx *sql.Tx, batch *models.OrderBatch) error {
	for _, u := range batch.Updates {
		switch u.Kind {
		case models.EntityTicket:
			laneID, err := getTicketLane(ctx, tx, u.EntityID)
			if errors.Is(err, models.ErrNotFound) {
				return &models.ConflictError{Kind: "ticket", ID: u.EntityID, Actual: -1}
			}
			if err != nil {
				return err
			}
			if _, ok := batch.ExpectedLaneVersions[laneID]; !ok {
				return &models.ConflictError{Kind: "lane", ID: laneID, Actual: -1}
			}
			if u.NewContainerID != nil {
				if _, ok := batch.ExpectedLaneVersions[*u.NewContainerID]; !ok {
					return fmt.Errorf("ticket %d moves to lane %d outside the batch", u.EntityID, *u.NewContainerID)
				}
			}
		case models.EntityLane:
			if batch.ExpectedPipelineVersion == nil {
				return fmt.Errorf("lane %d reordered without a pipeline version", u.EntityID)
			}
			var pipelineID int
			err := tx.QueryRowContext(ctx, `SELECT pipeline_id FROM lanes WHERE id = ?`, u.EntityID).Scan(&pipelineID)
			if errors.Is(err, sql.ErrNoRows) {
				return &models.ConflictError{Kind: "lane", ID: u.EntityID, Actual: -1}
			}
			if err != nil {
				return fmt.Errorf("failed to read lane %d: %w", u.EntityID, err)
			}
			if pipelineID != batch.PipelineID {
				return fmt.Errorf("%w: lane %d belongs to pipeline %d", ordering.ErrCrossPipeline, u.EntityID, pipelineID)
			}
		default:
			return fmt.Errorf("%w: %q", ordering.ErrUnknownKind, u.Kind)
		}
	}
	return nil
}

func writePosition(ctx context.Context, tx *sql.Tx, pipelineID int, u models.OrderUpdate, position int) error {
	var err error
	switch u.Kind {
	case models.EntityTicket:
		if u.NewContainerID != nil {
			_, err = tx.ExecContext(ctx,
				`UPDATE tickets SET lane_id = ?, position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				*u.NewContainerID, position, u.EntityID)
		} else {
			_, err = tx.ExecContext(ctx,
				`UPDATE tickets SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
				position, u.EntityID)
		}
	case models.EntityLane:
		_, err = tx.ExecContext(ctx,
			`UPDATE lanes SET position = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ? AND pipeline_id = ?`,
			position, u.EntityID, pipelineID)
	}
	if err != nil {
		return fmt.Errorf("failed to write position of %s %d: %w", u.Kind, u.EntityID, err)
	}
	return nil
}

// verifyDense checks that every container touched by the batch holds
// positions 0..n-1. The unique indexes rule out duplicates, so count and
// bounds are enough.
func verifyDense(ctx context.Context, tx *sql.Tx, batch *models.OrderBatch) error {
	check := func(kind string, id int, query string) error {
		var count int
		var minPos, maxPos sql.NullInt64
		if err := tx.QueryRowContext(ctx, query, id).Scan(&count, &minPos, &maxPos); err != nil {
			return fmt.Errorf("failed to verify %s %d positions: %w", kind, id, err)
		}
		if count == 0 {
			return nil
		}
		if minPos.Int64 != 0 || maxPos.Int64 != int64(count-1) {
			return fmt.Errorf("%w: %s %d holds %d entries in positions %d..%d",
				ordering.ErrOrderNotDense, kind, id, count, minPos.Int64, maxPos.Int64)
		}
		return nil
	}

	if batch.ExpectedPipelineVersion != nil {
		if err := check("pipeline", batch.PipelineID,
			`SELECT COUNT(*), MIN(position), MAX(position) FROM lanes WHERE pipeline_id = ?`); err != nil {
			return err
		}
	}
	for laneID := range batch.ExpectedLaneVersions {
		if err := check("lane", laneID,
			`SELECT COUNT(*), MIN(position), MAX(position) FROM tickets WHERE lane_id = ?`); err != nil {
			return err
		}
	}
	return nil
}
