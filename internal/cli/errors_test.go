package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/ordering"
	"github.com/thenoetrevino/plura/internal/reorder"
	laneservice "github.com/thenoetrevino/plura/internal/services/lane"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
		wantExit int
	}{
		{"not found", models.NewNotFoundError("lane", 3), "NOT_FOUND", ExitNotFound},
		{"missing lane in move", fmt.Errorf("move: %w", ordering.ErrLaneNotFound), "NOT_FOUND", ExitNotFound},
		{"conflict", &models.ConflictError{Kind: "lane", ID: 1, Expected: 1, Actual: 2}, "CONFLICT", ExitConflict},
		{"forbidden", fmt.Errorf("%w: sub-account x", models.ErrForbidden), "FORBIDDEN", ExitForbidden},
		{"persistence", &models.PersistenceError{Op: "batch update orders", Err: errors.New("locked")}, "PERSISTENCE_ERROR", ExitError},
		{"engine closed", reorder.ErrEngineClosed, "PERSISTENCE_ERROR", ExitError},
		{"validation", laneservice.ErrEmptyName, "VALIDATION_ERROR", ExitValidation},
		{"stale position", fmt.Errorf("apply: %w", ordering.ErrStalePosition), "VALIDATION_ERROR", ExitValidation},
		{"cancelled", ErrCancelled, "CANCELLED", ExitError},
		{"other", errors.New("boom"), "ERROR", ExitError},
		{"coded keeps its exit", &CodedError{Code: ExitUsage, Err: laneservice.ErrEmptyName}, "VALIDATION_ERROR", ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, exit := Classify(tt.err)
			if code != tt.wantCode {
				t.Errorf("Expected code %s, got %s", tt.wantCode, code)
			}
			if exit != tt.wantExit {
				t.Errorf("Expected exit %d, got %d", tt.wantExit, exit)
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(nil); got != ExitSuccess {
		t.Errorf("Expected %d for nil, got %d", ExitSuccess, got)
	}
	wrapped := fmt.Errorf("command failed: %w", &CodedError{Code: ExitConflict, Err: models.ErrConflict})
	if got := ExitCode(wrapped); got != ExitConflict {
		t.Errorf("Expected %d for wrapped CodedError, got %d", ExitConflict, got)
	}
}

func TestFail_ReturnsCodedError(t *testing.T) {
	f := &OutputFormatter{Quiet: true}
	err := f.Fail(models.NewNotFoundError("ticket", 9))

	var coded *CodedError
	if !errors.As(err, &coded) {
		t.Fatalf("Expected *CodedError, got %T", err)
	}
	if coded.Code != ExitNotFound {
		t.Errorf("Expected exit %d, got %d", ExitNotFound, coded.Code)
	}
	if !errors.Is(err, models.ErrNotFound) {
		t.Error("CodedError should unwrap to the original error")
	}
}
