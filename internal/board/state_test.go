package board

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/session"
)

type fakeLoader struct {
	snap  *models.BoardSnapshot
	err   error
	calls int
}

func (f *fakeLoader) LoadBoard(_ context.Context, pipelineID int) (*models.BoardSnapshot, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if f.snap == nil || f.snap.Pipeline.ID != pipelineID {
		return nil, models.NewNotFoundError("pipeline", pipelineID)
	}
	return f.snap.Clone(), nil
}

func testBoard() *models.BoardSnapshot {
	snap := &models.BoardSnapshot{Pipeline: models.Pipeline{ID: 1, Name: "Sales", SubAccountID: "sub-1", Version: 3}}
	for i, n := range []int{3, 2} {
		lane := &models.Lane{ID: 10 + i, Name: "Lane", PipelineID: 1, Order: i, Version: 5}
		for j := 0; j < n; j++ {
			lane.Tickets = append(lane.Tickets, &models.Ticket{ID: 100 + 10*i + j, Title: "T", LaneID: lane.ID, Order: j})
		}
		snap.Lanes = append(snap.Lanes, lane)
	}
	return snap
}

func owner() *session.Session {
	return session.New("u1", session.RoleAgencyOwner, nil)
}

func TestLoadSnapshot(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{snap: testBoard()}
	st, err := LoadSnapshot(context.Background(), loader, owner(), 1)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if diff := cmp.Diff(testBoard(), st.Confirmed()); diff != "" {
		t.Errorf("confirmed snapshot mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(st.Confirmed(), st.Working()); diff != "" {
		t.Errorf("working should equal confirmed after load (-confirmed +working):\n%s", diff)
	}
	if st.Pending() {
		t.Error("freshly loaded board should not be pending")
	}
}

func TestLoadSnapshot_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		loader  *fakeLoader
		sess    *session.Session
		id      int
		wantErr error
	}{
		{"missing pipeline", &fakeLoader{snap: testBoard()}, owner(), 99, models.ErrNotFound},
		{"foreign sub-account", &fakeLoader{snap: testBoard()}, session.New("u2", session.RoleSubAccountUser, []string{"sub-2"}), 1, models.ErrForbidden},
		{"store failure", &fakeLoader{err: errors.New("disk I/O error")}, owner(), 1, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, err := LoadSnapshot(context.Background(), tt.loader, tt.sess, tt.id)
			if err == nil {
				t.Fatal("Expected an error")
			}
			if st != nil {
				t.Error("Expected nil state on error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestApplyLocalMove_OnlyTouchesWorking(t *testing.T) {
	t.Parallel()

	st := New(owner(), testBoard())
	changed, err := st.ApplyLocalMove(models.Move{
		Kind: models.EntityTicket, EntityID: 100,
		FromIndex: 0, ToIndex: 1,
		FromContainerID: 10, ToContainerID: 11,
	})
	if err != nil {
		t.Fatalf("ApplyLocalMove failed: %v", err)
	}
	if !changed {
		t.Fatal("Expected the move to change the board")
	}
	if diff := cmp.Diff(testBoard(), st.Confirmed()); diff != "" {
		t.Errorf("confirmed must not change on a local move (-want +got):\n%s", diff)
	}
	if !st.Pending() {
		t.Error("board should be pending after a local move")
	}
	if got := st.Working().Lanes[1].Tickets[1].ID; got != 100 {
		t.Errorf("Expected ticket 100 at lane 11 index 1, got %d", got)
	}
}

func TestApplyLocalMove_RejectedMoveLeavesWorking(t *testing.T) {
	t.Parallel()

	st := New(owner(), testBoard())
	_, err := st.ApplyLocalMove(models.Move{
		Kind: models.EntityTicket, EntityID: 100,
		FromIndex: 2, ToIndex: 0,
		FromContainerID: 10, ToContainerID: 11,
	})
	if err == nil {
		t.Fatal("Expected a stale position error")
	}
	if diff := cmp.Diff(testBoard(), st.Working()); diff != "" {
		t.Errorf("working changed on rejected move (-want +got):\n%s", diff)
	}
}

func TestApplyLocalMove_GuestForbidden(t *testing.T) {
	t.Parallel()

	st := New(session.New("g", session.RoleSubAccountGuest, []string{"sub-1"}), testBoard())
	_, err := st.ApplyLocalMove(models.Move{
		Kind: models.EntityLane, EntityID: 10,
		FromIndex: 0, ToIndex: 1,
		FromContainerID: 1, ToContainerID: 1,
	})
	if !errors.Is(err, models.ErrForbidden) {
		t.Fatalf("Expected ErrForbidden, got %v", err)
	}
	if st.Pending() {
		t.Error("forbidden move must not be applied")
	}
}

func TestRollback_RestoresConfirmedBitForBit(t *testing.T) {
	t.Parallel()

	st := New(owner(), testBoard())
	moves := []models.Move{
		{Kind: models.EntityTicket, EntityID: 102, FromIndex: 2, ToIndex: 0, FromContainerID: 10, ToContainerID: 10},
		{Kind: models.EntityTicket, EntityID: 110, FromIndex: 0, ToIndex: 3, FromContainerID: 11, ToContainerID: 10},
		{Kind: models.EntityLane, EntityID: 11, FromIndex: 1, ToIndex: 0, FromContainerID: 1, ToContainerID: 1},
	}
	for _, mv := range moves {
		if _, err := st.ApplyLocalMove(mv); err != nil {
			t.Fatalf("ApplyLocalMove(%+v) failed: %v", mv, err)
		}
	}

	st.Rollback()

	if diff := cmp.Diff(st.Confirmed(), st.Working()); diff != "" {
		t.Errorf("rollback mismatch (-confirmed +working):\n%s", diff)
	}
	if st.Pending() {
		t.Error("board should not be pending after rollback")
	}
}

func TestCommit_SyncsVersionsIntoWorking(t *testing.T) {
	t.Parallel()

	st := New(owner(), testBoard())
	if _, err := st.ApplyLocalMove(models.Move{
		Kind: models.EntityTicket, EntityID: 100, FromIndex: 0, ToIndex: 2, FromContainerID: 10, ToContainerID: 10,
	}); err != nil {
		t.Fatalf("first move failed: %v", err)
	}

	batch, submitted, _ := st.Outstanding()
	if batch == nil {
		t.Fatal("Expected an outstanding batch")
	}

	// A second move lands while the first batch is in flight
	if _, err := st.ApplyLocalMove(models.Move{
		Kind: models.EntityTicket, EntityID: 110, FromIndex: 0, ToIndex: 1, FromContainerID: 11, ToContainerID: 11,
	}); err != nil {
		t.Fatalf("second move failed: %v", err)
	}

	submitted.Lane(10).Version = 6
	st.Commit(submitted)

	if got := st.Confirmed().Lane(10).Version; got != 6 {
		t.Errorf("Expected confirmed lane version 6, got %d", got)
	}
	if got := st.Working().Lane(10).Version; got != 6 {
		t.Errorf("Expected working lane version 6, got %d", got)
	}

	next, _, _ := st.Outstanding()
	if next == nil {
		t.Fatal("Expected the queued move to remain pending")
	}
	if len(next.Updates) != 2 {
		t.Errorf("Expected 2 updates for lane 11 swap, got %d", len(next.Updates))
	}
	if _, ok := next.ExpectedLaneVersions[10]; ok {
		t.Error("committed lane 10 should not be part of the next batch")
	}
}

func TestReload_DiscardsPendingMoves(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{snap: testBoard()}
	st, err := LoadSnapshot(context.Background(), loader, owner(), 1)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if _, err := st.ApplyLocalMove(models.Move{
		Kind: models.EntityLane, EntityID: 10, FromIndex: 0, ToIndex: 1, FromContainerID: 1, ToContainerID: 1,
	}); err != nil {
		t.Fatalf("ApplyLocalMove failed: %v", err)
	}

	loader.snap.Lanes[0].Name = "Renamed elsewhere"
	if err := st.Reload(context.Background(), loader); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if st.Pending() {
		t.Error("reload should discard pending moves")
	}
	if got := st.Working().Lanes[0].Name; got != "Renamed elsewhere" {
		t.Errorf("Expected reloaded lane name, got %q", got)
	}
	if loader.calls != 2 {
		t.Errorf("Expected 2 loader calls, got %d", loader.calls)
	}
}

func TestCommitAt_RefusesBatchFromBeforeReload(t *testing.T) {
	t.Parallel()

	loader := &fakeLoader{snap: testBoard()}
	st, err := LoadSnapshot(context.Background(), loader, owner(), 1)
	if err != nil {
		t.Fatalf("LoadSnapshot failed: %v", err)
	}
	if _, err := st.ApplyLocalMove(models.Move{
		Kind: models.EntityTicket, EntityID: 100, FromIndex: 0, ToIndex: 2, FromContainerID: 10, ToContainerID: 10,
	}); err != nil {
		t.Fatalf("ApplyLocalMove failed: %v", err)
	}

	_, submitted, generation := st.Outstanding()
	if err := st.Reload(context.Background(), loader); err != nil {
		t.Fatalf("Reload failed: %v", err)
	}

	if st.CommitAt(submitted, generation) {
		t.Fatal("CommitAt should refuse a batch computed before the reload")
	}
	if st.Pending() {
		t.Error("refused commit must leave the reloaded board without pending moves")
	}

	_, submitted, generation = st.Outstanding()
	if submitted != nil {
		t.Fatal("Expected nothing outstanding after reload")
	}
	if !st.CommitAt(st.Working(), generation) {
		t.Error("CommitAt should accept the current generation")
	}
}
