package database

import "database/sql"

// Repository provides a unified interface to all data operations.
// It composes domain-specific repositories using struct embedding.
type Repository struct {
	*PipelineRepo
	*LaneRepo
	*TicketRepo
	*TagRepo
	*ContactRepo
	*ActivityRepo
	*BoardRepo
}

// NewRepository creates a new Repository instance wrapping the given database connection.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		PipelineRepo: &PipelineRepo{db: db},
		LaneRepo:     &LaneRepo{db: db},
		TicketRepo:   &TicketRepo{db: db},
		TagRepo:      &TagRepo{db: db},
		ContactRepo:  &ContactRepo{db: db},
		ActivityRepo: &ActivityRepo{db: db},
		BoardRepo:    &BoardRepo{db: db},
	}
}

// Compile-time verification that *Repository implements DataStore
var _ DataStore = (*Repository)(nil)
