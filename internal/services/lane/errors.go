package lane

import "errors"

// Lane-related errors
var (
	// Validation errors
	ErrEmptyName         = errors.New("name cannot be empty")
	ErrNameTooLong       = errors.New("name cannot exceed 50 characters")
	ErrInvalidLaneID     = errors.New("invalid lane ID")
	ErrInvalidPipelineID = errors.New("invalid pipeline ID")
)
