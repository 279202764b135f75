package lane

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/services/activity"
	"github.com/thenoetrevino/plura/internal/testutil"
)

// ============================================================================
// CREATE
// ============================================================================

func TestCreateLane_Appends(t *testing.T) {
	t.Parallel()

	repo := testutil.SetupTestRepository(t)
	publisher := testutil.NewMockEventPublisher()
	svc := NewService(repo, activity.NewService(repo), publisher)
	pipelineID := testutil.CreateTestPipeline(t, repo, "Sales")
	sess := testutil.UserSession()

	for i, name := range []string{"New", "Contacted", "Won"} {
		lane, err := svc.CreateLane(context.Background(), sess, CreateLaneRequest{Name: name, PipelineID: pipelineID})
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if lane.Order != i {
			t.Errorf("Expected lane '%s' at order %d, got %d", name, i, lane.Order)
		}
	}

	if publisher.EventCount() != 3 {
		t.Errorf("Expected 3 events, got %d", publisher.EventCount())
	}
	entries, _ := repo.GetRecentActivities(context.Background(), testutil.TestSubAccount, &pipelineID, 1)
	if len(entries) != 1 || entries[0].Description != "Updated a lane | Won" {
		t.Errorf("Expected lane activity, got %+v", entries)
	}
}

func TestCreateLane_Validation(t *testing.T) {
	t.Parallel()

	repo := testutil.SetupTestRepository(t)
	svc := NewService(repo, nil, nil)
	pipelineID := testutil.CreateTestPipeline(t, repo, "Sales")

	tests := []struct {
		name    string
		req     CreateLaneRequest
		wantErr error
	}{
		{"empty name", CreateLaneRequest{PipelineID: pipelineID}, ErrEmptyName},
		{"name too long", CreateLaneRequest{Name: strings.Repeat("x", 51), PipelineID: pipelineID}, ErrNameTooLong},
		{"multibyte name too long", CreateLaneRequest{Name: strings.Repeat("é", 51), PipelineID: pipelineID}, ErrNameTooLong},
		{"invalid pipeline", CreateLaneRequest{Name: "New"}, ErrInvalidPipelineID},
		{"missing pipeline", CreateLaneRequest{Name: "New", PipelineID: 999}, models.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateLane(context.Background(), testutil.UserSession(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestCreateLane_NameLengthCountsCharacters(t *testing.T) {
	t.Parallel()

	repo := testutil.SetupTestRepository(t)
	svc := NewService(repo, nil, nil)
	pipelineID := testutil.CreateTestPipeline(t, repo, "Sales")

	// 30 characters, 60 bytes
	name := strings.Repeat("é", 30)
	lane, err := svc.CreateLane(context.Background(), testutil.UserSession(), CreateLaneRequest{Name: name, PipelineID: pipelineID})
	if err != nil {
		t.Fatalf("Expected multibyte name under the limit to be accepted, got %v", err)
	}
	if lane.Name != name {
		t.Errorf("Expected name to round-trip, got %q", lane.Name)
	}
}

func TestCreateLane_GuestForbidden(t *testing.T) {
	t.Parallel()

	repo := testutil.SetupTestRepository(t)
	svc := NewService(repo, nil, nil)
	pipelineID := testutil.CreateTestPipeline(t, repo, "Sales")

	_, err := svc.CreateLane(context.Background(), testutil.GuestSession(), CreateLaneRequest{Name: "New", PipelineID: pipelineID})
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
	lanes, err := svc.GetLanesByPipeline(context.Background(), testutil.GuestSession(), pipelineID)
	if err != nil {
		t.Fatalf("Guests may still read lanes, got %v", err)
	}
	if len(lanes) != 0 {
		t.Errorf("Expected no lanes, got %d", len(lanes))
	}
}

// ============================================================================
// UPDATE / DELETE
// ============================================================================

func TestUpdateLaneName_KeepsOrder(t *testing.T) {
	t.Parallel()

	repo := testutil.SetupTestRepository(t)
	svc := NewService(repo, nil, nil)
	board := testutil.CreateTestBoard(t, repo, 0, 0, 0)
	sess := testutil.UserSession()

	if err := svc.UpdateLaneName(context.Background(), sess, board.Lanes[1].ID, "Qualified"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	lane, err := svc.GetLaneByID(context.Background(), sess, board.Lanes[1].ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if lane.Name != "Qualified" || lane.Order != 1 {
		t.Errorf("Expected 'Qualified' at order 1, got '%s' at %d", lane.Name, lane.Order)
	}
	if lane.Version != board.Lanes[1].Version {
		t.Errorf("A rename must not bump the lane version")
	}
}

// Deleting a lane with 3 tickets removes all 3 and compacts sibling lanes
func TestDeleteLane_CascadesTickets(t *testing.T) {
	t.Parallel()

	repo := testutil.SetupTestRepository(t)
	svc := NewService(repo, activity.NewService(repo), nil)
	board := testutil.CreateTestBoard(t, repo, 1, 3, 2)
	sess := testutil.UserSession()
	doomed := board.Lanes[1]

	if err := svc.DeleteLane(context.Background(), sess, doomed.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	lanes, err := svc.GetLanesByPipeline(context.Background(), sess, board.Pipeline.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(lanes) != 2 {
		t.Fatalf("Expected 2 lanes, got %d", len(lanes))
	}
	for i, l := range lanes {
		if l.Order != i {
			t.Errorf("Expected lane %d at order %d, got %d", l.ID, i, l.Order)
		}
	}
	for _, tk := range doomed.Tickets {
		if _, err := repo.GetTicketByID(context.Background(), tk.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ticket %d deleted, got %v", tk.ID, err)
		}
	}

	if err := svc.DeleteLane(context.Background(), sess, doomed.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound on second delete, got %v", err)
	}
}
