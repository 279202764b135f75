// Package board holds the client-side state of one pipeline board.
//
// A State keeps two snapshots. The confirmed snapshot mirrors what the store
// last acknowledged; the working snapshot is what the user sees, including
// optimistic moves that have not been persisted yet. The working snapshot
// always converges back to the confirmed one, either through Commit after a
// successful batch or through Rollback after a failed one.
package board

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/ordering"
	"github.com/thenoetrevino/plura/internal/session"
)

// Loader reads a full pipeline board from persistence
type Loader interface {
	LoadBoard(ctx context.Context, pipelineID int) (*models.BoardSnapshot, error)
}

// State is safe for concurrent use. Batch completion runs on a goroutine
// owned by the reorder engine while the UI keeps applying moves.
type State struct {
	mu        sync.Mutex
	sess      *session.Session
	confirmed *models.BoardSnapshot
	working   *models.BoardSnapshot

	// generation is bumped by every Reload. A batch computed before a
	// reload must not be committed over the reloaded snapshots.
	generation uint64
}

// LoadSnapshot reads the pipeline in one transaction and returns a State
// whose confirmed and working snapshots both equal the loaded board.
func LoadSnapshot(ctx context.Context, loader Loader, sess *session.Session, pipelineID int) (*State, error) {
	snap, err := load(ctx, loader, sess, pipelineID)
	if err != nil {
		return nil, err
	}
	return &State{
		sess:      sess,
		confirmed: snap,
		working:   snap.Clone(),
	}, nil
}

// New wraps an already loaded snapshot
func New(sess *session.Session, snap *models.BoardSnapshot) *State {
	return &State{
		sess:      sess,
		confirmed: snap.Clone(),
		working:   snap.Clone(),
	}
}

func load(ctx context.Context, loader Loader, sess *session.Session, pipelineID int) (*models.BoardSnapshot, error) {
	snap, err := loader.LoadBoard(ctx, pipelineID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("loading pipeline %d: %w", pipelineID, err)
	}
	if !sess.CanView(snap.Pipeline.SubAccountID) {
		return nil, fmt.Errorf("pipeline %d: %w", pipelineID, models.ErrForbidden)
	}
	return snap, nil
}

// Reload replaces both snapshots with a fresh read. Any pending local moves
// are discarded and batches computed before the reload can no longer be
// committed through CommitAt.
func (s *State) Reload(ctx context.Context, loader Loader) error {
	snap, err := load(ctx, loader, s.sess, s.PipelineID())
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.confirmed = snap
	s.working = snap.Clone()
	s.generation++
	return nil
}

// ApplyLocalMove applies the move to the working snapshot only. It performs
// no I/O. A rejected move leaves the working snapshot untouched. The
// returned bool is false when the move did not change any order.
func (s *State) ApplyLocalMove(mv models.Move) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.sess.CanMutate(s.working.Pipeline.SubAccountID) {
		return false, models.ErrForbidden
	}

	next := s.working.Clone()
	changed, err := ordering.Apply(next, mv)
	if err != nil || !changed {
		return false, err
	}
	s.working = next
	return true, nil
}

// Rollback restores the working snapshot to the last confirmed snapshot
func (s *State) Rollback() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.working = s.confirmed.Clone()
}

// Commit makes snap the confirmed snapshot. Container versions carried by
// snap are copied into the working snapshot so that moves made after the
// submitted batch are diffed against the right versions.
func (s *State) Commit(snap *models.BoardSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commitLocked(snap)
}

// CommitAt commits snap only when the board has not been reloaded since
// generation was returned by Outstanding. It reports whether it committed.
func (s *State) CommitAt(snap *models.BoardSnapshot, generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if generation != s.generation {
		return false
	}
	s.commitLocked(snap)
	return true
}

func (s *State) commitLocked(snap *models.BoardSnapshot) {
	s.confirmed = snap.Clone()
	s.working.Pipeline.Version = s.confirmed.Pipeline.Version
	for _, l := range s.working.Lanes {
		if c := s.confirmed.Lane(l.ID); c != nil {
			l.Version = c.Version
		}
	}
}

// Outstanding returns the batch that would turn the confirmed snapshot into
// the working snapshot, along with a copy of the working snapshot it was
// computed from and the current reload generation. The batch is nil when
// nothing is pending.
func (s *State) Outstanding() (*models.OrderBatch, *models.BoardSnapshot, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batch := ordering.Diff(s.confirmed, s.working)
	if batch == nil {
		return nil, nil, s.generation
	}
	return batch, s.working.Clone(), s.generation
}

// Pending reports whether the working snapshot holds unpersisted moves
func (s *State) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ordering.Diff(s.confirmed, s.working) != nil
}

// Working returns a copy of the snapshot the user sees
func (s *State) Working() *models.BoardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working.Clone()
}

// Confirmed returns a copy of the last persisted snapshot
func (s *State) Confirmed() *models.BoardSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmed.Clone()
}

func (s *State) Session() *session.Session {
	return s.sess
}

func (s *State) PipelineID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.confirmed.Pipeline.ID
}
