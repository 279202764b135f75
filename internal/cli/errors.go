package cli

import (
	"errors"

	"github.com/thenoetrevino/plura/internal/models"
	"github.com/thenoetrevino/plura/internal/ordering"
	"github.com/thenoetrevino/plura/internal/reorder"
	activityservice "github.com/thenoetrevino/plura/internal/services/activity"
	contactservice "github.com/thenoetrevino/plura/internal/services/contact"
	laneservice "github.com/thenoetrevino/plura/internal/services/lane"
	pipelineservice "github.com/thenoetrevino/plura/internal/services/pipeline"
	tagservice "github.com/thenoetrevino/plura/internal/services/tag"
	ticketservice "github.com/thenoetrevino/plura/internal/services/ticket"
)

// ErrCancelled is returned when the user declines a confirmation prompt
var ErrCancelled = errors.New("cancelled")

// CodedError carries the process exit code for a failed command. The error
// has already been reported to the user.
type CodedError struct {
	Code int
	Err  error
}

func (e *CodedError) Error() string {
	return e.Err.Error()
}

func (e *CodedError) Unwrap() error {
	return e.Err
}

var validationErrors = []error{
	pipelineservice.ErrEmptyName,
	pipelineservice.ErrNameTooLong,
	pipelineservice.ErrInvalidPipelineID,
	pipelineservice.ErrInvalidSubAccountID,
	laneservice.ErrEmptyName,
	laneservice.ErrNameTooLong,
	laneservice.ErrInvalidLaneID,
	laneservice.ErrInvalidPipelineID,
	ticketservice.ErrEmptyTitle,
	ticketservice.ErrTitleTooLong,
	ticketservice.ErrNegativeValue,
	ticketservice.ErrInvalidValue,
	ticketservice.ErrInvalidTicketID,
	ticketservice.ErrInvalidLaneID,
	ticketservice.ErrInvalidTagID,
	ticketservice.ErrTagOtherSubAccount,
	ticketservice.ErrInvalidContactID,
	ticketservice.ErrContactOtherSubAccount,
	contactservice.ErrEmptyName,
	contactservice.ErrNameTooLong,
	contactservice.ErrInvalidEmail,
	contactservice.ErrInvalidContactID,
	contactservice.ErrInvalidSubAccountID,
	tagservice.ErrEmptyName,
	tagservice.ErrNameTooLong,
	tagservice.ErrInvalidColor,
	tagservice.ErrInvalidTagID,
	tagservice.ErrInvalidSubAccountID,
	activityservice.ErrInvalidLimit,
	activityservice.ErrInvalidSubAccountID,
	ordering.ErrInvalidIndex,
	ordering.ErrStalePosition,
	ordering.ErrCrossPipeline,
	ordering.ErrUnknownKind,
}

// Classify maps an error to its JSON error code and exit code
func Classify(err error) (string, int) {
	var exitErr *CodedError
	if errors.As(err, &exitErr) {
		code, _ := Classify(exitErr.Err)
		return code, exitErr.Code
	}

	switch {
	case errors.Is(err, models.ErrNotFound), errors.Is(err, ordering.ErrLaneNotFound):
		return "NOT_FOUND", ExitNotFound
	case errors.Is(err, models.ErrConflict):
		return "CONFLICT", ExitConflict
	case errors.Is(err, models.ErrForbidden):
		return "FORBIDDEN", ExitForbidden
	case errors.Is(err, ErrCancelled):
		return "CANCELLED", ExitError
	case errors.Is(err, reorder.ErrEngineClosed), errors.Is(err, models.ErrPersistence):
		return "PERSISTENCE_ERROR", ExitError
	}
	for _, v := range validationErrors {
		if errors.Is(err, v) {
			return "VALIDATION_ERROR", ExitValidation
		}
	}
	return "ERROR", ExitError
}

// ExitCode returns the process exit code for an error returned by a command
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	_, exit := Classify(err)
	return exit
}

func suggestionFor(exit int) string {
	switch exit {
	case ExitConflict:
		return "Another session changed this board. Reload it and retry the move."
	case ExitForbidden:
		return "Check the identity role and subaccounts in your config file."
	}
	return ""
}
