// Package reorder turns drag and drop gestures into persisted order batches.
//
// The Engine applies every move optimistically to a board.State and then
// persists the difference between the working and confirmed snapshots as a
// single all-or-nothing batch. At most one batch per board is in flight;
// moves made meanwhile are folded into the next batch.
package reorder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/thenoetrevino/plura/internal/board"
	"github.com/thenoetrevino/plura/internal/events"
	"github.com/thenoetrevino/plura/internal/models"
)

var (
	ErrEngineClosed = errors.New("reorder engine is closed")

	// ErrBoardReloaded resolves moves that were applied to a board which was
	// reloaded while an earlier batch was still being persisted
	ErrBoardReloaded = errors.New("board was reloaded before the move was saved")
)

// Store persists order batches. Implementations must apply the batch
// atomically and fail with *models.ConflictError when a container version
// does not match. LoadBoard is used to re-read a board that was reloaded
// while one of its batches was in flight.
type Store interface {
	board.Loader
	BatchUpdateOrders(ctx context.Context, batch *models.OrderBatch) (*models.BatchResult, error)
}

// ActivityRecorder writes the audit entry for a committed move
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, description, subAccountID string, pipelineID *int) error
}

// queue is the per-board bookkeeping. flight holds the moves folded into the
// batch being persisted, waiting the moves applied since. generation is the
// board generation the in-flight batch was computed at.
type queue struct {
	inFlight   bool
	flight     []*Pending
	waiting    []*Pending
	generation uint64
}

type Engine struct {
	store    Store
	activity ActivityRecorder
	events   events.EventPublisher
	logger   *slog.Logger

	mu     sync.Mutex
	queues map[*board.State]*queue
	closed bool
	wg     sync.WaitGroup

	locksMu sync.Mutex
	locks   map[int]*sync.Mutex
}

// Option configures an Engine
type Option func(*Engine)

func WithActivityRecorder(r ActivityRecorder) Option {
	return func(e *Engine) { e.activity = r }
}

func WithEventPublisher(p events.EventPublisher) Option {
	return func(e *Engine) { e.events = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(store Store, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		logger: slog.Default(),
		queues: make(map[*board.State]*queue),
		locks:  make(map[int]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Move applies mv to the working snapshot of st right away and schedules
// its persistence. The returned Pending resolves with nil once the move is
// committed, with a *models.ConflictError when another session changed an
// affected container, or with a *models.PersistenceError on store failure.
// Either failure rolls the board back to its confirmed snapshot. A move
// applied to a board that was reloaded while an earlier batch was in flight
// resolves with ErrBoardReloaded and the board is read again.
//
// ctx only scopes values for the store call; cancelling it does not abort
// a batch that is already running.
func (e *Engine) Move(ctx context.Context, st *board.State, mv models.Move) (*Pending, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}

	changed, err := st.ApplyLocalMove(mv)
	if err != nil {
		return nil, err
	}
	if !changed {
		return resolved(mv), nil
	}

	p := newPending(mv)
	q, ok := e.queues[st]
	if !ok {
		q = &queue{}
		e.queues[st] = q
	}
	q.waiting = append(q.waiting, p)
	if !q.inFlight {
		e.flushLocked(context.WithoutCancel(ctx), st, q)
	}
	return p, nil
}

// InFlight reports whether a batch for st is being persisted
func (e *Engine) InFlight(st *board.State) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	q, ok := e.queues[st]
	return ok && q.inFlight
}

// Close rejects new moves and waits for in-flight batches to finish
func (e *Engine) Close() error {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
	return nil
}

// flushLocked submits the outstanding difference of st. Must hold e.mu.
func (e *Engine) flushLocked(ctx context.Context, st *board.State, q *queue) {
	batch, submitted, generation := st.Outstanding()
	if batch == nil {
		// Queued moves cancelled each other out
		for _, p := range q.waiting {
			p.resolve(nil)
		}
		delete(e.queues, st)
		return
	}

	q.inFlight = true
	q.generation = generation
	q.flight, q.waiting = q.waiting, nil

	e.wg.Add(1)
	go e.persist(ctx, st, q, batch, submitted)
}

func (e *Engine) persist(ctx context.Context, st *board.State, q *queue, batch *models.OrderBatch, submitted *models.BoardSnapshot) {
	defer e.wg.Done()

	lock := e.pipelineLock(batch.PipelineID)
	lock.Lock()
	result, err := e.store.BatchUpdateOrders(ctx, batch)
	lock.Unlock()

	if err != nil {
		e.fail(st, q, classify(err))
		return
	}

	applyResult(submitted, result)

	e.mu.Lock()
	committed := q.flight
	q.flight = nil
	q.inFlight = false
	var discarded []*Pending
	if !st.CommitAt(submitted, q.generation) {
		// The reload may have read the board before this batch landed, and
		// moves applied since were diffed against that read
		discarded, q.waiting = q.waiting, nil
		e.resync(ctx, st)
	}
	if len(q.waiting) > 0 {
		e.flushLocked(ctx, st, q)
	} else {
		delete(e.queues, st)
	}
	e.mu.Unlock()

	for _, p := range committed {
		p.resolve(nil)
	}
	for _, p := range discarded {
		p.resolve(ErrBoardReloaded)
	}

	e.logger.Debug("order batch committed",
		"pipeline_id", batch.PipelineID,
		"updates", len(batch.Updates),
		"moves", len(committed))

	e.afterCommit(ctx, st, submitted, committed)
}

// resync re-reads a board whose reload raced a committed batch. When the
// read fails the board falls back to its confirmed snapshot; stale versions
// then surface as a conflict on the next batch. Must hold e.mu.
func (e *Engine) resync(ctx context.Context, st *board.State) {
	if err := st.Reload(ctx, e.store); err != nil {
		e.logger.Warn("failed to re-read board after reload during batch",
			"pipeline_id", st.PipelineID(),
			"error", err)
		st.Rollback()
		return
	}
	e.logger.Debug("board re-read after reload during batch", "pipeline_id", st.PipelineID())
}

func (e *Engine) fail(st *board.State, q *queue, err error) {
	e.mu.Lock()
	st.Rollback()
	failed := append(q.flight, q.waiting...)
	q.flight, q.waiting = nil, nil
	q.inFlight = false
	delete(e.queues, st)
	e.mu.Unlock()

	e.logger.Warn("order batch failed, board rolled back",
		"pipeline_id", st.PipelineID(),
		"moves", len(failed),
		"error", err)

	for _, p := range failed {
		p.resolve(err)
	}
}

// afterCommit records activity and notifies other sessions. Failures are
// logged and never undo the committed batch.
func (e *Engine) afterCommit(ctx context.Context, st *board.State, snap *models.BoardSnapshot, committed []*Pending) {
	pipelineID := snap.Pipeline.ID
	if e.activity != nil {
		for _, p := range committed {
			desc := describe(snap, p.move)
			if desc == "" {
				continue
			}
			if err := e.activity.RecordActivity(ctx, desc, snap.Pipeline.SubAccountID, &pipelineID); err != nil {
				e.logger.Warn("failed to record move activity", "pipeline_id", pipelineID, "error", err)
			}
		}
	}

	sessionID := ""
	if sess := st.Session(); sess != nil {
		sessionID = sess.ID
	}
	if err := events.PublishWithRetry(e.events, events.BoardChanged(pipelineID, sessionID), events.DefaultRetries); err != nil {
		e.logger.Warn("failed to publish board change", "pipeline_id", pipelineID, "error", err)
	}
}

func (e *Engine) pipelineLock(pipelineID int) *sync.Mutex {
	e.locksMu.Lock()
	defer e.locksMu.Unlock()
	l, ok := e.locks[pipelineID]
	if !ok {
		l = &sync.Mutex{}
		e.locks[pipelineID] = l
	}
	return l
}

func classify(err error) error {
	if errors.Is(err, models.ErrConflict) || errors.Is(err, models.ErrPersistence) {
		return err
	}
	return &models.PersistenceError{Op: "batch update orders", Err: err}
}

// applyResult copies the container versions returned by the store into the
// submitted snapshot so it can become the confirmed snapshot.
func applyResult(snap *models.BoardSnapshot, result *models.BatchResult) {
	if result == nil {
		return
	}
	for laneID, version := range result.LaneVersions {
		if l := snap.Lane(laneID); l != nil {
			l.Version = version
		}
	}
	if result.PipelineVersion != nil {
		snap.Pipeline.Version = *result.PipelineVersion
	}
}

func describe(snap *models.BoardSnapshot, mv models.Move) string {
	switch mv.Kind {
	case models.EntityTicket:
		if t, _ := snap.FindTicket(mv.EntityID); t != nil {
			return fmt.Sprintf("Moved ticket | %s", t.Title)
		}
	case models.EntityLane:
		if l := snap.Lane(mv.EntityID); l != nil {
			return fmt.Sprintf("Moved lane | %s", l.Name)
		}
	}
	return ""
}
