package reorder

import (
	"context"

	"github.com/thenoetrevino/plura/internal/models"
)

// Pending tracks the persistence outcome of one local move. It resolves
// once the batch carrying the move commits or fails.
type Pending struct {
	move models.Move
	noop bool
	done chan struct{}
	err  error
}

func newPending(mv models.Move) *Pending {
	return &Pending{move: mv, done: make(chan struct{})}
}

func resolved(mv models.Move) *Pending {
	p := newPending(mv)
	p.noop = true
	close(p.done)
	return p
}

func (p *Pending) resolve(err error) {
	p.err = err
	close(p.done)
}

// Wait blocks until the move is persisted or ctx is done. Cancelling ctx
// does not cancel the persistence call.
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed once the outcome is known
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Err returns the outcome. It is only meaningful after Done is closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// NoOp reports whether the move left the board unchanged and issued no batch
func (p *Pending) NoOp() bool {
	return p.noop
}

func (p *Pending) Move() models.Move {
	return p.move
}
