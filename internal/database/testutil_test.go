package database

import (
	"context"
	"database/sql"
	"testing"

	"github.com/thenoetrevino/plura/internal/models"
)

// ============================================================================
// DATABASE SETUP HELPERS
// ============================================================================

// setupTestDB creates a migrated in-memory database
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// seedBoard creates a pipeline whose lanes hold the given number of tickets
func seedBoard(t *testing.T, repo *Repository, ticketsPerLane ...int) *models.Pipeline {
	t.Helper()
	ctx := context.Background()

	pipeline, err := repo.CreatePipeline(ctx, "Sales", "sub-1")
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}
	for i, n := range ticketsPerLane {
		lane, err := repo.CreateLane(ctx, pipeline.ID, string(rune('A'+i)))
		if err != nil {
			t.Fatalf("Failed to create lane: %v", err)
		}
		for j := 0; j < n; j++ {
			title := lane.Name + string(rune('0'+j))
			if _, err := repo.CreateTicket(ctx, lane.ID, TicketFields{Title: title, Value: float64(100 * j)}, nil); err != nil {
				t.Fatalf("Failed to create ticket: %v", err)
			}
		}
	}
	return pipeline
}

func loadBoard(t *testing.T, repo *Repository, pipelineID int) *models.BoardSnapshot {
	t.Helper()
	snap, err := repo.LoadBoard(context.Background(), pipelineID)
	if err != nil {
		t.Fatalf("Failed to load board: %v", err)
	}
	return snap
}

func titles(l *models.Lane) []string {
	out := make([]string, len(l.Tickets))
	for i, t := range l.Tickets {
		out[i] = t.Title
	}
	return out
}
