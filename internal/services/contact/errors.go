package contact

import "errors"

// Contact-related errors
var (
	// Validation errors
	ErrEmptyName           = errors.New("name cannot be empty")
	ErrNameTooLong         = errors.New("name cannot exceed 100 characters")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrInvalidContactID    = errors.New("invalid contact ID")
	ErrInvalidSubAccountID = errors.New("invalid sub-account ID")
)
