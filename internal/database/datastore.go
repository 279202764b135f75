package database

// DataStore defines the unified interface for all data operations.
// It is composed of smaller, domain-specific interfaces; consumers should
// depend on the smallest one they need (e.g. LaneRepository).
type DataStore interface {
	PipelineRepository
	LaneRepository
	TicketRepository
	TagRepository
	ContactRepository
	ActivityRepository
	BoardRepository
}
