package ticket

import "errors"

// Ticket-related errors
var (
	// Validation errors
	ErrEmptyTitle       = errors.New("title cannot be empty")
	ErrTitleTooLong     = errors.New("title cannot exceed 255 characters")
	ErrNegativeValue    = errors.New("value cannot be negative")
	ErrInvalidValue     = errors.New("value must be a finite number")
	ErrInvalidTicketID  = errors.New("invalid ticket ID")
	ErrInvalidLaneID    = errors.New("invalid lane ID")
	ErrInvalidTagID     = errors.New("invalid tag ID")
	ErrInvalidContactID = errors.New("invalid contact ID")

	// Business logic errors
	ErrTagOtherSubAccount     = errors.New("tag belongs to another sub-account")
	ErrContactOtherSubAccount = errors.New("contact belongs to another sub-account")
)
