package models

// ============================================================================
// ENTITY KIND CONSTANTS
// ============================================================================

// EntityKind identifies what a move or an order update refers to
type EntityKind string

const (
	EntityTicket EntityKind = "ticket"
	EntityLane   EntityKind = "lane"
)

// ============================================================================
// VALIDATION LIMITS
// ============================================================================

const (
	MaxPipelineNameLength = 100
	MaxLaneNameLength     = 50
	MaxTicketTitleLength  = 255
	MaxTagNameLength      = 30
)

// DefaultTagColor is used when a tag is created without a color
const DefaultTagColor = "#7D56F4"
