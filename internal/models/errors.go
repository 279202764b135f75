package models

import (
	"errors"
	"fmt"
)

// Sentinels matched with errors.Is against the typed errors below
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("stale board: reload and retry")
	ErrPersistence = errors.New("persistence failed")
	ErrForbidden   = errors.New("session may not access this pipeline")
)

// NotFoundError indicates that an entity is missing at load time
type NotFoundError struct {
	Kind string
	ID   int
}

func NewNotFoundError(kind string, id int) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ConflictError indicates that a container was changed by another session
// since the board was loaded. Actual is -1 when the container no longer exists.
type ConflictError struct {
	Kind     string // "lane" or "pipeline"
	ID       int
	Expected int
	Actual   int
}

func (e *ConflictError) Error() string {
	if e.Actual < 0 {
		return fmt.Sprintf("%s %d was deleted by another session: %v", e.Kind, e.ID, ErrConflict)
	}
	return fmt.Sprintf("%s %d is at version %d, expected %d: %v", e.Kind, e.ID, e.Actual, e.Expected, ErrConflict)
}

func (e *ConflictError) Is(target error) bool {
	return target == ErrConflict
}

// PersistenceError wraps a transient store failure
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

func (e *PersistenceError) Is(target error) bool {
	return target == ErrPersistence
}
