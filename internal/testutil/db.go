package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/thenoetrevino/plura/internal/database"
	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/session"
)

// TestSubAccount is the sub-account every fixture is created in
const TestSubAccount = "sub-test"

// SetupTestDB creates a migrated in-memory database closed on cleanup
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.OpenMemory(context.Background())
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// SetupTestRepository returns a repository over a fresh in-memory database
func SetupTestRepository(t *testing.T) *database.Repository {
	t.Helper()
	return database.NewRepository(SetupTestDB(t))
}

// OwnerSession returns an agency owner session that can mutate every sub-account
func OwnerSession() *session.Session {
	return session.New("owner", session.RoleAgencyOwner, nil)
}

// UserSession returns a sub-account user limited to TestSubAccount
func UserSession() *session.Session {
	return session.New("user", session.RoleSubAccountUser, []string{TestSubAccount})
}

// GuestSession returns a read-only session on TestSubAccount
func GuestSession() *session.Session {
	return session.New("guest", session.RoleSubAccountGuest, []string{TestSubAccount})
}

// CreateTestPipeline creates a pipeline in TestSubAccount and returns its ID
func CreateTestPipeline(t *testing.T, repo database.PipelineWriter, name string) int {
	t.Helper()
	p, err := repo.CreatePipeline(context.Background(), name, TestSubAccount)
	if err != nil {
		t.Fatalf("Failed to create test pipeline: %v", err)
	}
	return p.ID
}

// CreateTestLane appends a lane to a pipeline and returns its ID
func CreateTestLane(t *testing.T, repo database.LaneWriter, pipelineID int, name string) int {
	t.Helper()
	l, err := repo.CreateLane(context.Background(), pipelineID, name)
	if err != nil {
		t.Fatalf("Failed to create test lane: %v", err)
	}
	return l.ID
}

// CreateTestTicket appends a ticket to a lane and returns its ID
func CreateTestTicket(t *testing.T, repo database.TicketWriter, laneID int, title string) int {
	t.Helper()
	tk, err := repo.CreateTicket(context.Background(), laneID, database.TicketFields{Title: title}, nil)
	if err != nil {
		t.Fatalf("Failed to create test ticket: %v", err)
	}
	return tk.ID
}

// CreateTestContact creates a contact in TestSubAccount and returns its ID
func CreateTestContact(t *testing.T, repo database.ContactWriter, name, email string) int {
	t.Helper()
	c, err := repo.CreateContact(context.Background(), TestSubAccount, name, email)
	if err != nil {
		t.Fatalf("Failed to create test contact: %v", err)
	}
	return c.ID
}

// CreateTestTag creates a tag in TestSubAccount and returns its ID
func CreateTestTag(t *testing.T, repo database.TagWriter, name, color string) int {
	t.Helper()
	tag, err := repo.CreateTag(context.Background(), TestSubAccount, name, color)
	if err != nil {
		t.Fatalf("Failed to create test tag: %v", err)
	}
	return tag.ID
}

// CreateTestBoard creates a pipeline with one lane per entry of
// ticketsPerLane, each holding that many tickets. Lanes are named "Lane 0",
// "Lane 1"... and tickets "L<lane>-T<n>".
func CreateTestBoard(t *testing.T, repo database.DataStore, ticketsPerLane ...int) *models.BoardSnapshot {
	t.Helper()
	pipelineID := CreateTestPipeline(t, repo, "Test Pipeline")
	for i, n := range ticketsPerLane {
		laneID := CreateTestLane(t, repo, pipelineID, fmt.Sprintf("Lane %d", i))
		for j := 0; j < n; j++ {
			CreateTestTicket(t, repo, laneID, fmt.Sprintf("L%d-T%d", i, j))
		}
	}
	snap, err := repo.LoadBoard(context.Background(), pipelineID)
	if err != nil {
		t.Fatalf("Failed to load test board: %v", err)
	}
	return snap
}
