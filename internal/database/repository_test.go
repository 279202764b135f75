package database

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/ordering"
)

// ============================================================================
// PIPELINES
// ============================================================================

func TestPipelineCRUD(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p, err := repo.CreatePipeline(ctx, "Sales", "sub-1")
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}
	if p.ID == 0 || p.Version != 0 || p.CreatedAt.IsZero() {
		t.Errorf("Unexpected pipeline after create: %+v", p)
	}
	if _, err := repo.CreatePipeline(ctx, "Hiring", "sub-2"); err != nil {
		t.Fatalf("Failed to create second pipeline: %v", err)
	}

	list, err := repo.GetPipelinesBySubAccount(ctx, "sub-1")
	if err != nil {
		t.Fatalf("Failed to list pipelines: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Sales" {
		t.Errorf("Expected only the Sales pipeline for sub-1, got %+v", list)
	}
	all, err := repo.GetAllPipelines(ctx)
	if err != nil {
		t.Fatalf("Failed to list all pipelines: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("Expected 2 pipelines, got %d", len(all))
	}

	if err := repo.UpdatePipelineName(ctx, p.ID, "Deals"); err != nil {
		t.Fatalf("Failed to rename pipeline: %v", err)
	}
	got, err := repo.GetPipelineByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("Failed to get pipeline: %v", err)
	}
	if got.Name != "Deals" {
		t.Errorf("Expected name 'Deals', got '%s'", got.Name)
	}

	if err := repo.UpdatePipelineName(ctx, 999, "x"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound renaming a missing pipeline, got %v", err)
	}
}

func TestDeletePipeline_RemovesBoardKeepsActivity(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedBoard(t, repo, 2, 1)
	if _, err := repo.CreateActivity(ctx, "sub-1", &p.ID, "Created pipeline"); err != nil {
		t.Fatalf("Failed to create activity: %v", err)
	}

	if err := repo.DeletePipeline(ctx, p.ID); err != nil {
		t.Fatalf("Failed to delete pipeline: %v", err)
	}
	if _, err := repo.GetPipelineByID(ctx, p.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	lanes, err := repo.GetLanesByPipeline(ctx, p.ID)
	if err != nil {
		t.Fatalf("Failed to list lanes: %v", err)
	}
	if len(lanes) != 0 {
		t.Errorf("Expected no lanes after pipeline delete, got %d", len(lanes))
	}

	activities, err := repo.GetRecentActivities(ctx, "sub-1", nil, 10)
	if err != nil {
		t.Fatalf("Failed to list activities: %v", err)
	}
	if len(activities) != 1 || activities[0].PipelineID != nil {
		t.Errorf("Expected the activity to survive with a cleared pipeline, got %+v", activities)
	}

	if err := repo.DeletePipeline(ctx, p.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

// ============================================================================
// LANES
// ============================================================================

func TestCreateLane_AppendsAndBumpsPipeline(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p, err := repo.CreatePipeline(ctx, "Sales", "sub-1")
	if err != nil {
		t.Fatalf("Failed to create pipeline: %v", err)
	}
	for i, name := range []string{"New", "Qualified", "Won"} {
		lane, err := repo.CreateLane(ctx, p.ID, name)
		if err != nil {
			t.Fatalf("Failed to create lane %s: %v", name, err)
		}
		if lane.Order != i {
			t.Errorf("Expected lane %s at order %d, got %d", name, i, lane.Order)
		}
	}

	got, _ := repo.GetPipelineByID(ctx, p.ID)
	if got.Version != 3 {
		t.Errorf("Expected pipeline version 3 after 3 lane creates, got %d", got.Version)
	}

	if _, err := repo.CreateLane(ctx, 999, "Orphan"); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing pipeline, got %v", err)
	}
}

func TestUpdateLaneName_KeepsOrder(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedBoard(t, repo, 0, 0)
	lanes, _ := repo.GetLanesByPipeline(ctx, p.ID)

	if err := repo.UpdateLaneName(ctx, lanes[1].ID, "Renamed"); err != nil {
		t.Fatalf("Failed to rename lane: %v", err)
	}
	got, err := repo.GetLaneByID(ctx, lanes[1].ID)
	if err != nil {
		t.Fatalf("Failed to get lane: %v", err)
	}
	if got.Name != "Renamed" || got.Order != 1 {
		t.Errorf("Expected Renamed at order 1, got %s at %d", got.Name, got.Order)
	}
}

// Deleting a lane with 3 tickets removes all 3 and compacts sibling lanes
func TestDeleteLane_CascadesAndCompacts(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedBoard(t, repo, 1, 3, 2, 1)
	before := loadBoard(t, repo, p.ID)
	doomed := before.Lanes[1]

	if err := repo.DeleteLane(ctx, doomed.ID); err != nil {
		t.Fatalf("Failed to delete lane: %v", err)
	}

	after := loadBoard(t, repo, p.ID)
	if len(after.Lanes) != 3 {
		t.Fatalf("Expected 3 lanes, got %d", len(after.Lanes))
	}
	if err := ordering.CheckDense(after); err != nil {
		t.Errorf("Expected dense orders after delete: %v", err)
	}
	var names []string
	for _, l := range after.Lanes {
		names = append(names, l.Name)
	}
	if diff := cmp.Diff([]string{"A", "C", "D"}, names); diff != "" {
		t.Errorf("lane order mismatch (-want +got):\n%s", diff)
	}
	for _, tk := range doomed.Tickets {
		if _, err := repo.GetTicketByID(ctx, tk.ID); !errors.Is(err, models.ErrNotFound) {
			t.Errorf("Expected ticket %d to be deleted, got %v", tk.ID, err)
		}
	}
	if after.Pipeline.Version != before.Pipeline.Version+1 {
		t.Errorf("Expected pipeline version %d, got %d", before.Pipeline.Version+1, after.Pipeline.Version)
	}

	if err := repo.DeleteLane(ctx, doomed.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

// ============================================================================
// TICKETS
// ============================================================================

func TestTicketCRUD(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedBoard(t, repo, 2)
	lane := loadBoard(t, repo, p.ID).Lanes[0]

	assignee := "user-7"
	ticket, err := repo.CreateTicket(ctx, lane.ID, TicketFields{Title: "Acme", Description: "Renewal", Value: 1250.5, AssigneeID: &assignee}, nil)
	if err != nil {
		t.Fatalf("Failed to create ticket: %v", err)
	}
	if ticket.Order != 2 {
		t.Errorf("Expected new ticket appended at order 2, got %d", ticket.Order)
	}
	if ticket.AssigneeID == nil || *ticket.AssigneeID != "user-7" {
		t.Errorf("Expected assignee user-7, got %v", ticket.AssigneeID)
	}

	if err := repo.UpdateTicket(ctx, ticket.ID, TicketFields{Title: "Acme Corp", Description: "Upsell", Value: 2000}); err != nil {
		t.Fatalf("Failed to update ticket: %v", err)
	}
	got, err := repo.GetTicketByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("Failed to get ticket: %v", err)
	}
	if got.Title != "Acme Corp" || got.Description != "Upsell" || got.Value != 2000 {
		t.Errorf("Unexpected ticket after update: %+v", got)
	}
	if got.AssigneeID != nil {
		t.Errorf("Expected assignee cleared, got %v", *got.AssigneeID)
	}
	if got.Order != 2 || got.LaneID != lane.ID {
		t.Errorf("Update must not touch order or lane, got lane %d order %d", got.LaneID, got.Order)
	}

	if _, err := repo.CreateTicket(ctx, lane.ID, TicketFields{Title: "Negative", Value: -1}, nil); err == nil {
		t.Error("Expected the value check constraint to reject a negative value")
	}
	if _, err := repo.CreateTicket(ctx, 999, TicketFields{Title: "Orphan"}, nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing lane, got %v", err)
	}
}

func TestDeleteTicket_CompactsLane(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedBoard(t, repo, 5)
	before := loadBoard(t, repo, p.ID)
	lane := before.Lanes[0]

	if err := repo.DeleteTicket(ctx, lane.Tickets[1].ID); err != nil {
		t.Fatalf("Failed to delete ticket: %v", err)
	}

	after := loadBoard(t, repo, p.ID)
	if diff := cmp.Diff([]string{"A0", "A2", "A3", "A4"}, titles(after.Lanes[0])); diff != "" {
		t.Errorf("ticket order mismatch (-want +got):\n%s", diff)
	}
	if err := ordering.CheckDense(after); err != nil {
		t.Errorf("Expected dense orders after delete: %v", err)
	}
	if after.Lanes[0].Version != lane.Version+1 {
		t.Errorf("Expected lane version %d, got %d", lane.Version+1, after.Lanes[0].Version)
	}
	if err := repo.DeleteTicket(ctx, lane.Tickets[1].ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestCreateTicket_TagsAreAtomic(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedBoard(t, repo, 1)
	before := loadBoard(t, repo, p.ID).Lanes[0]
	hot, err := repo.CreateTag(ctx, "sub-1", "hot", "#FF0000")
	if err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}

	_, err = repo.CreateTicket(ctx, before.ID, TicketFields{Title: "Acme"}, []int{hot.ID, 999})
	if !errors.Is(err, models.ErrNotFound) {
		t.Fatalf("Expected ErrNotFound for a missing tag, got %v", err)
	}

	after := loadBoard(t, repo, p.ID).Lanes[0]
	if diff := cmp.Diff([]string{"A0"}, titles(after)); diff != "" {
		t.Errorf("A failed create must not leave a ticket (-want +got):\n%s", diff)
	}
	if after.Version != before.Version {
		t.Errorf("Expected lane version %d after a failed create, got %d", before.Version, after.Version)
	}

	ticket, err := repo.CreateTicket(ctx, before.ID, TicketFields{Title: "Acme"}, []int{hot.ID})
	if err != nil {
		t.Fatalf("Failed to create ticket: %v", err)
	}
	if len(ticket.Tags) != 1 || ticket.Tags[0].Name != "hot" {
		t.Errorf("Expected the created ticket to carry [hot], got %+v", ticket.Tags)
	}
}

// ============================================================================
// CONTACTS
// ============================================================================

func TestContacts(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedBoard(t, repo, 1)
	lane := loadBoard(t, repo, p.ID).Lanes[0]

	acme, err := repo.CreateContact(ctx, "sub-1", "Acme Corp", "buyer@acme.test")
	if err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}
	if acme.ID == 0 || acme.CreatedAt.IsZero() {
		t.Errorf("Unexpected contact after create: %+v", acme)
	}
	if _, err := repo.CreateContact(ctx, "sub-2", "Globex", ""); err != nil {
		t.Fatalf("Failed to create contact: %v", err)
	}

	list, err := repo.GetContactsBySubAccount(ctx, "sub-1")
	if err != nil {
		t.Fatalf("Failed to list contacts: %v", err)
	}
	if len(list) != 1 || list[0].Name != "Acme Corp" {
		t.Errorf("Expected only Acme Corp in sub-1, got %+v", list)
	}

	ticket, err := repo.CreateTicket(ctx, lane.ID, TicketFields{Title: "Renewal", CustomerID: &acme.ID}, nil)
	if err != nil {
		t.Fatalf("Failed to create ticket: %v", err)
	}
	if ticket.Customer == nil || ticket.Customer.Name != "Acme Corp" {
		t.Errorf("Expected customer Acme Corp on the created ticket, got %+v", ticket.Customer)
	}

	if err := repo.UpdateContact(ctx, acme.ID, "Acme Inc", "ceo@acme.test"); err != nil {
		t.Fatalf("Failed to update contact: %v", err)
	}
	board := loadBoard(t, repo, p.ID)
	card := board.Lanes[0].Tickets[1]
	if card.Customer == nil || card.Customer.Name != "Acme Inc" || card.Customer.Email != "ceo@acme.test" {
		t.Errorf("Expected the board to carry the renamed customer, got %+v", card.Customer)
	}
	if board.Lanes[0].Tickets[0].Customer != nil {
		t.Errorf("Expected no customer on the seeded ticket, got %+v", board.Lanes[0].Tickets[0].Customer)
	}

	missing := 999
	if _, err := repo.CreateTicket(ctx, lane.ID, TicketFields{Title: "Ghost", CustomerID: &missing}, nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing customer, got %v", err)
	}
	if err := repo.UpdateTicket(ctx, ticket.ID, TicketFields{Title: "Renewal", CustomerID: &missing}); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound updating to a missing customer, got %v", err)
	}

	if err := repo.DeleteContact(ctx, acme.ID); err != nil {
		t.Fatalf("Failed to delete contact: %v", err)
	}
	got, err := repo.GetTicketByID(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("Failed to get ticket: %v", err)
	}
	if got.CustomerID != nil || got.Customer != nil {
		t.Errorf("Expected customer cleared after contact delete, got %v", got.CustomerID)
	}
	if err := repo.DeleteContact(ctx, acme.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}
}

// ============================================================================
// TAGS
// ============================================================================

func TestTags(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedBoard(t, repo, 1)
	ticket := loadBoard(t, repo, p.ID).Lanes[0].Tickets[0]

	hot, err := repo.CreateTag(ctx, "sub-1", "hot", "#FF0000")
	if err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}
	vip, err := repo.CreateTag(ctx, "sub-1", "vip", "#00FF00")
	if err != nil {
		t.Fatalf("Failed to create tag: %v", err)
	}
	if _, err := repo.CreateTag(ctx, "sub-1", "hot", "#000000"); err == nil {
		t.Error("Expected duplicate tag name in the same sub-account to fail")
	}
	if _, err := repo.CreateTag(ctx, "sub-2", "hot", "#000000"); err != nil {
		t.Errorf("Same tag name in another sub-account should be allowed: %v", err)
	}

	for _, id := range []int{vip.ID, hot.ID, hot.ID} {
		if err := repo.AddTagToTicket(ctx, ticket.ID, id); err != nil {
			t.Fatalf("Failed to attach tag %d: %v", id, err)
		}
	}
	tags, err := repo.GetTagsForTicket(ctx, ticket.ID)
	if err != nil {
		t.Fatalf("Failed to get ticket tags: %v", err)
	}
	if len(tags) != 2 || tags[0].Name != "hot" || tags[1].Name != "vip" {
		t.Errorf("Expected [hot vip], got %+v", tags)
	}

	board := loadBoard(t, repo, p.ID)
	if got := len(board.Lanes[0].Tickets[0].Tags); got != 2 {
		t.Errorf("Expected board to carry 2 tags on the ticket, got %d", got)
	}

	if err := repo.AddTagToTicket(ctx, ticket.ID, 999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing tag, got %v", err)
	}
	if err := repo.AddTagToTicket(ctx, 999, hot.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing ticket, got %v", err)
	}

	if err := repo.RemoveTagFromTicket(ctx, ticket.ID, vip.ID); err != nil {
		t.Fatalf("Failed to detach tag: %v", err)
	}
	if err := repo.UpdateTag(ctx, hot.ID, "urgent", "#FF8800"); err != nil {
		t.Fatalf("Failed to update tag: %v", err)
	}
	if err := repo.DeleteTag(ctx, vip.ID); err != nil {
		t.Fatalf("Failed to delete tag: %v", err)
	}

	tags, _ = repo.GetTagsForTicket(ctx, ticket.ID)
	if len(tags) != 1 || tags[0].Name != "urgent" || tags[0].Color != "#FF8800" {
		t.Errorf("Expected [urgent], got %+v", tags)
	}
	subTags, _ := repo.GetTagsBySubAccount(ctx, "sub-1")
	if len(subTags) != 1 {
		t.Errorf("Expected 1 tag left in sub-1, got %d", len(subTags))
	}
}

// ============================================================================
// ACTIVITY
// ============================================================================

func TestActivities_NewestFirst(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))
	ctx := context.Background()

	p := seedBoard(t, repo)
	for _, d := range []string{"first", "second", "third"} {
		if _, err := repo.CreateActivity(ctx, "sub-1", &p.ID, d); err != nil {
			t.Fatalf("Failed to create activity: %v", err)
		}
	}
	if _, err := repo.CreateActivity(ctx, "sub-1", nil, "account level"); err != nil {
		t.Fatalf("Failed to create activity: %v", err)
	}

	scoped, err := repo.GetRecentActivities(ctx, "sub-1", &p.ID, 2)
	if err != nil {
		t.Fatalf("Failed to list activities: %v", err)
	}
	if len(scoped) != 2 || scoped[0].Description != "third" || scoped[1].Description != "second" {
		t.Errorf("Expected [third second], got %+v", scoped)
	}

	all, _ := repo.GetRecentActivities(ctx, "sub-1", nil, 10)
	if len(all) != 4 || all[0].Description != "account level" {
		t.Errorf("Expected 4 entries newest first, got %+v", all)
	}
}

// ============================================================================
// BOARD READS
// ============================================================================

func TestLoadBoard(t *testing.T) {
	t.Parallel()
	repo := NewRepository(setupTestDB(t))

	p := seedBoard(t, repo, 3, 0, 2)
	snap := loadBoard(t, repo, p.ID)

	if snap.Pipeline.ID != p.ID || len(snap.Lanes) != 3 {
		t.Fatalf("Unexpected board: pipeline %d with %d lanes", snap.Pipeline.ID, len(snap.Lanes))
	}
	if err := ordering.CheckDense(snap); err != nil {
		t.Errorf("Loaded board should be dense: %v", err)
	}
	if diff := cmp.Diff([]string{"C0", "C1"}, titles(snap.Lanes[2])); diff != "" {
		t.Errorf("lane C mismatch (-want +got):\n%s", diff)
	}
	if snap.Lanes[1].Tickets == nil {
		t.Error("Empty lanes should carry an empty, non-nil ticket slice")
	}

	lanes, err := repo.FindLanesWithTicketsAndTags(context.Background(), p.ID)
	if err != nil {
		t.Fatalf("FindLanesWithTicketsAndTags failed: %v", err)
	}
	if diff := cmp.Diff(snap.Lanes, lanes); diff != "" {
		t.Errorf("FindLanesWithTicketsAndTags differs from LoadBoard (-load +find):\n%s", diff)
	}

	if _, err := repo.LoadBoard(context.Background(), 999); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a missing pipeline, got %v", err)
	}
}
