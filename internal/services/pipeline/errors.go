package pipeline

import "errors"

// Pipeline-related errors
var (
	// Validation errors
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrNameTooLong         = errors.New("name cannot exceed 100 characters")
	ErrInvalidPipelineID   = errors.New("invalid pipeline ID")
	ErrInvalidSubAccountID = errors.New("invalid sub-account ID")
)
