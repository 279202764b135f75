package activity

import "errors"

// Activity-related errors
var (
	ErrEmptyDescription    = errors.New("description cannot be empty")
	ErrInvalidSubAccountID = errors.New("invalid sub-account ID")
	ErrInvalidLimit        = errors.New("limit must be positive")
)
