package database

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/ordering"
)

// applyAndPersist applies a move to a working copy of snap and persists the
// resulting batch, returning the reloaded board
func applyAndPersist(t *testing.T, repo *Repository, snap *models.BoardSnapshot, mv models.Move) *models.BoardSnapshot {
	t.Helper()
	working := snap.Clone()
	if _, err := ordering.Apply(working, mv); err != nil {
		t.Fatalf("Apply(%+v) failed: %v", mv, err)
	}
	if batch := ordering.Diff(snap, working); batch != nil {
		if _, err := repo.BatchUpdateOrders(context.Background(), batch); err != nil {
			t.Fatalf("BatchUpdateOrders failed: %v", err)
		}
	}
	return loadBoard(t, repo, snap.Pipeline.ID)
}

// ============================================================================
// BATCH UPDATES
// ============================================================================

// Moving a ticket from lane A (5 tickets) position 2 to lane B (3 tickets) position 1
func TestBatchUpdateOrders_CrossLane(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))

	p := seedBoard(t, repo, 5, 3)
	before := loadBoard(t, repo, p.ID)
	laneA, laneB := before.Lanes[0], before.Lanes[1]

	working := before.Clone()
	if _, err := ordering.Apply(working, models.Move{
		Kind: models.EntityTicket, EntityID: laneA.Tickets[2].ID,
		FromIndex: 2, ToIndex: 1,
		FromContainerID: laneA.ID, ToContainerID: laneB.ID,
	}); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	batch := ordering.Diff(before, working)
	if batch == nil {
		t.Fatal("Expected a batch for a cross-lane move")
	}
	if batch.ExpectedPipelineVersion != nil {
		t.Error("A ticket move must not check the pipeline version")
	}

	result, err := repo.BatchUpdateOrders(context.Background(), batch)
	if err != nil {
		t.Fatalf("BatchUpdateOrders failed: %v", err)
	}
	wantVersions := map[int]int{laneA.ID: laneA.Version + 1, laneB.ID: laneB.Version + 1}
	if diff := cmp.Diff(wantVersions, result.LaneVersions); diff != "" {
		t.Errorf("lane versions mismatch (-want +got):\n%s", diff)
	}

	after := loadBoard(t, repo, p.ID)
	if diff := cmp.Diff([]string{"A0", "A1", "A3", "A4"}, titles(after.Lanes[0])); diff != "" {
		t.Errorf("lane A mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"B0", "A2", "B1", "B2"}, titles(after.Lanes[1])); diff != "" {
		t.Errorf("lane B mismatch (-want +got):\n%s", diff)
	}
	if err := ordering.CheckDense(after); err != nil {
		t.Errorf("Expected dense orders: %v", err)
	}
	if after.Lanes[0].Version != result.LaneVersions[laneA.ID] {
		t.Errorf("Stored lane version %d differs from returned %d", after.Lanes[0].Version, result.LaneVersions[laneA.ID])
	}
}

func TestBatchUpdateOrders_LaneReorder(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))

	p := seedBoard(t, repo, 1, 0, 2)
	before := loadBoard(t, repo, p.ID)

	after := applyAndPersist(t, repo, before, models.Move{
		Kind: models.EntityLane, EntityID: before.Lanes[2].ID,
		FromIndex: 2, ToIndex: 0,
		FromContainerID: p.ID, ToContainerID: p.ID,
	})

	var names []string
	for _, l := range after.Lanes {
		names = append(names, l.Name)
	}
	if diff := cmp.Diff([]string{"C", "A", "B"}, names); diff != "" {
		t.Errorf("lane order mismatch (-want +got):\n%s", diff)
	}
	if after.Pipeline.Version != before.Pipeline.Version+1 {
		t.Errorf("Expected pipeline version %d, got %d", before.Pipeline.Version+1, after.Pipeline.Version)
	}
	if diff := cmp.Diff([]string{"C0", "C1"}, titles(after.Lanes[0])); diff != "" {
		t.Errorf("tickets must travel with their lane (-want +got):\n%s", diff)
	}
}

func TestBatchUpdateOrders_EmptyBatch(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))

	result, err := repo.BatchUpdateOrders(context.Background(), &models.OrderBatch{PipelineID: 1})
	if err != nil {
		t.Fatalf("Expected no error for an empty batch, got %v", err)
	}
	if len(result.LaneVersions) != 0 || result.PipelineVersion != nil {
		t.Errorf("Expected an empty result, got %+v", result)
	}
}

func TestBatchUpdateOrders_Conflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		// interfere changes the database after the batch was computed
		interfere  func(t *testing.T, repo *Repository, snap *models.BoardSnapshot)
		move       func(snap *models.BoardSnapshot) models.Move
		wantKind   string
		wantActual func(snap *models.BoardSnapshot) int
	}{
		{
			name: "ticket added to source lane",
			interfere: func(t *testing.T, repo *Repository, snap *models.BoardSnapshot) {
				if _, err := repo.CreateTicket(context.Background(), snap.Lanes[0].ID, TicketFields{Title: "late"}, nil); err != nil {
					t.Fatalf("CreateTicket failed: %v", err)
				}
			},
			move: func(snap *models.BoardSnapshot) models.Move {
				return models.Move{Kind: models.EntityTicket, EntityID: snap.Lanes[0].Tickets[0].ID,
					FromIndex: 0, ToIndex: 2, FromContainerID: snap.Lanes[0].ID, ToContainerID: snap.Lanes[0].ID}
			},
			wantKind:   "lane",
			wantActual: func(snap *models.BoardSnapshot) int { return snap.Lanes[0].Version + 1 },
		},
		{
			name: "destination lane deleted",
			interfere: func(t *testing.T, repo *Repository, snap *models.BoardSnapshot) {
				if err := repo.DeleteLane(context.Background(), snap.Lanes[1].ID); err != nil {
					t.Fatalf("DeleteLane failed: %v", err)
				}
			},
			move: func(snap *models.BoardSnapshot) models.Move {
				return models.Move{Kind: models.EntityTicket, EntityID: snap.Lanes[0].Tickets[0].ID,
					FromIndex: 0, ToIndex: 0, FromContainerID: snap.Lanes[0].ID, ToContainerID: snap.Lanes[1].ID}
			},
			wantKind:   "lane",
			wantActual: func(*models.BoardSnapshot) int { return -1 },
		},
		{
			name: "lane added to pipeline",
			interfere: func(t *testing.T, repo *Repository, snap *models.BoardSnapshot) {
				if _, err := repo.CreateLane(context.Background(), snap.Pipeline.ID, "Late"); err != nil {
					t.Fatalf("CreateLane failed: %v", err)
				}
			},
			move: func(snap *models.BoardSnapshot) models.Move {
				return models.Move{Kind: models.EntityLane, EntityID: snap.Lanes[0].ID,
					FromIndex: 0, ToIndex: 1, FromContainerID: snap.Pipeline.ID, ToContainerID: snap.Pipeline.ID}
			},
			wantKind:   "pipeline",
			wantActual: func(snap *models.BoardSnapshot) int { return snap.Pipeline.Version + 1 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := NewRepository(setupTestDB(t))
			p := seedBoard(t, repo, 3, 2)
			snap := loadBoard(t, repo, p.ID)

			working := snap.Clone()
			if _, err := ordering.Apply(working, tt.move(snap)); err != nil {
				t.Fatalf("Apply failed: %v", err)
			}
			batch := ordering.Diff(snap, working)
			if batch == nil {
				t.Fatal("Expected a batch")
			}

			tt.interfere(t, repo, snap)
			between := loadBoard(t, repo, p.ID)

			_, err := repo.BatchUpdateOrders(context.Background(), batch)
			if !errors.Is(err, models.ErrConflict) {
				t.Fatalf("Expected ErrConflict, got %v", err)
			}
			var conflict *models.ConflictError
			if !errors.As(err, &conflict) {
				t.Fatalf("Expected *ConflictError, got %T", err)
			}
			if conflict.Kind != tt.wantKind || conflict.Actual != tt.wantActual(snap) {
				t.Errorf("Expected %s conflict at version %d, got %+v", tt.wantKind, tt.wantActual(snap), conflict)
			}

			if diff := cmp.Diff(between, loadBoard(t, repo, p.ID)); diff != "" {
				t.Errorf("A rejected batch must write nothing (-before +after):\n%s", diff)
			}
		})
	}
}

func TestBatchUpdateOrders_RejectsNonDenseBatch(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))

	p := seedBoard(t, repo, 3)
	snap := loadBoard(t, repo, p.ID)
	lane := snap.Lanes[0]

	batch := &models.OrderBatch{
		PipelineID:           p.ID,
		ExpectedLaneVersions: map[int]int{lane.ID: lane.Version},
		Updates: []models.OrderUpdate{
			{Kind: models.EntityTicket, EntityID: lane.Tickets[2].ID, NewOrder: 7},
		},
	}
	if _, err := repo.BatchUpdateOrders(context.Background(), batch); !errors.Is(err, ordering.ErrOrderNotDense) {
		t.Fatalf("Expected ErrOrderNotDense, got %v", err)
	}
	if diff := cmp.Diff(snap, loadBoard(t, repo, p.ID)); diff != "" {
		t.Errorf("A rejected batch must write nothing (-before +after):\n%s", diff)
	}
}

// ============================================================================
// PROPERTIES
// ============================================================================

// Random sequences of moves, creates and deletes keep every order dense and
// the stored board identical to the locally computed one
func TestBoard_RandomOperationsStayDense(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	rng := rand.New(rand.NewPCG(3, 5))
	p := seedBoard(t, repo, 4, 2, 0, 3)
	snap := loadBoard(t, repo, p.ID)

	for i := 0; i < 150; i++ {
		switch op := rng.IntN(10); {
		case op < 6:
			src := snap.Lanes[rng.IntN(len(snap.Lanes))]
			if len(src.Tickets) == 0 {
				continue
			}
			dst := snap.Lanes[rng.IntN(len(snap.Lanes))]
			from := rng.IntN(len(src.Tickets))
			mv := models.Move{
				Kind: models.EntityTicket, EntityID: src.Tickets[from].ID,
				FromIndex: from, ToIndex: rng.IntN(len(dst.Tickets) + 1),
				FromContainerID: src.ID, ToContainerID: dst.ID,
			}
			working := snap.Clone()
			if _, err := ordering.Apply(working, mv); err != nil {
				t.Fatalf("op %d: Apply(%+v) failed: %v", i, mv, err)
			}
			snap = applyAndPersist(t, repo, snap, mv)
			if diff := cmp.Diff(ordering.Diff(working, snap), (*models.OrderBatch)(nil)); diff != "" {
				t.Fatalf("op %d: stored board differs from local result:\n%s", i, diff)
			}
		case op == 6:
			from := rng.IntN(len(snap.Lanes))
			snap = applyAndPersist(t, repo, snap, models.Move{
				Kind: models.EntityLane, EntityID: snap.Lanes[from].ID,
				FromIndex: from, ToIndex: rng.IntN(len(snap.Lanes)),
				FromContainerID: p.ID, ToContainerID: p.ID,
			})
		case op == 7:
			lane := snap.Lanes[rng.IntN(len(snap.Lanes))]
			if _, err := repo.CreateTicket(ctx, lane.ID, TicketFields{Title: "new", Value: 1}, nil); err != nil {
				t.Fatalf("op %d: CreateTicket failed: %v", i, err)
			}
			snap = loadBoard(t, repo, p.ID)
		case op == 8:
			lane := snap.Lanes[rng.IntN(len(snap.Lanes))]
			if len(lane.Tickets) == 0 {
				continue
			}
			if err := repo.DeleteTicket(ctx, lane.Tickets[rng.IntN(len(lane.Tickets))].ID); err != nil {
				t.Fatalf("op %d: DeleteTicket failed: %v", i, err)
			}
			snap = loadBoard(t, repo, p.ID)
		default:
			if len(snap.Lanes) > 2 && rng.IntN(2) == 0 {
				if err := repo.DeleteLane(ctx, snap.Lanes[rng.IntN(len(snap.Lanes))].ID); err != nil {
					t.Fatalf("op %d: DeleteLane failed: %v", i, err)
				}
			} else if _, err := repo.CreateLane(ctx, p.ID, "lane"); err != nil {
				t.Fatalf("op %d: CreateLane failed: %v", i, err)
			}
			snap = loadBoard(t, repo, p.ID)
		}

		if err := ordering.CheckDense(snap); err != nil {
			t.Fatalf("op %d: %v", i, err)
		}
	}
}

// ============================================================================
// MIGRATIONS
// ============================================================================

func TestSchemaVersion(t *testing.T) {
	t.Parallel()
	db := setupTestDB(t)

	version, err := SchemaVersion(context.Background(), db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != 2 {
		t.Errorf("Expected schema version 2, got %d", version)
	}
}

func TestInitDB_File(t *testing.T) {
	t.Parallel()
	path := t.TempDir() + "/nested/plura.db"

	db, err := InitDB(context.Background(), path)
	if err != nil {
		t.Fatalf("InitDB failed: %v", err)
	}
	repo := NewRepository(db)
	if _, err := repo.CreatePipeline(context.Background(), "Sales", "sub-1"); err != nil {
		t.Fatalf("CreatePipeline failed: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err = InitDB(context.Background(), path)
	if err != nil {
		t.Fatalf("Re-opening with InitDB failed: %v", err)
	}
	defer db.Close()
	pipelines, err := NewRepository(db).GetAllPipelines(context.Background())
	if err != nil {
		t.Fatalf("GetAllPipelines failed: %v", err)
	}
	if len(pipelines) != 1 {
		t.Errorf("Expected data to persist across opens, got %d pipelines", len(pipelines))
	}
}
