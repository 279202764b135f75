package models

// BoardSnapshot is the full state of one pipeline: its lanes ordered by
// Order, each with its tickets ordered by Order.
type BoardSnapshot struct {
	Pipeline Pipeline
	Lanes    []*Lane
}

// Clone returns a deep copy of the snapshot. Tags and customers are copied
// by value so that the clone shares no mutable memory with the original.
func (s *BoardSnapshot) Clone() *BoardSnapshot {
	if s == nil {
		return nil
	}
	out := &BoardSnapshot{
		Pipeline: s.Pipeline,
		Lanes:    make([]*Lane, len(s.Lanes)),
	}
	for i, lane := range s.Lanes {
		l := *lane
		l.Tickets = make([]*Ticket, len(lane.Tickets))
		for j, ticket := range lane.Tickets {
			t := *ticket
			if ticket.AssigneeID != nil {
				assignee := *ticket.AssigneeID
				t.AssigneeID = &assignee
			}
			if ticket.CustomerID != nil {
				customerID := *ticket.CustomerID
				t.CustomerID = &customerID
			}
			if ticket.Customer != nil {
				customer := *ticket.Customer
				t.Customer = &customer
			}
			if ticket.Tags != nil {
				t.Tags = make([]*Tag, len(ticket.Tags))
				for k, tag := range ticket.Tags {
					tg := *tag
					t.Tags[k] = &tg
				}
			}
			l.Tickets[j] = &t
		}
		out.Lanes[i] = &l
	}
	return out
}

// Lane returns the lane with the given ID, or nil
func (s *BoardSnapshot) Lane(laneID int) *Lane {
	for _, l := range s.Lanes {
		if l.ID == laneID {
			return l
		}
	}
	return nil
}

// LaneIndex returns the index of the lane, or -1
func (s *BoardSnapshot) LaneIndex(laneID int) int {
	for i, l := range s.Lanes {
		if l.ID == laneID {
			return i
		}
	}
	return -1
}

// FindTicket returns the ticket and the lane holding it, or nils
func (s *BoardSnapshot) FindTicket(ticketID int) (*Ticket, *Lane) {
	for _, l := range s.Lanes {
		for _, t := range l.Tickets {
			if t.ID == ticketID {
				return t, l
			}
		}
	}
	return nil, nil
}

// Move describes one drag-and-drop gesture. For tickets the containers are
// lane IDs; for lanes both containers are the pipeline ID.
type Move struct {
	Kind            EntityKind
	EntityID        int
	FromIndex       int
	ToIndex         int
	FromContainerID int
	ToContainerID   int
}

// OrderUpdate is one row of a reorder batch. NewContainerID is set only when
// a ticket changes lane.
type OrderUpdate struct {
	Kind           EntityKind
	EntityID       int
	NewOrder       int
	NewContainerID *int
}

// OrderBatch is the set of order updates produced by one or more coalesced
// moves. The store applies it all-or-nothing after checking that every
// container still has the expected version.
type OrderBatch struct {
	PipelineID              int
	ExpectedLaneVersions    map[int]int // lane ID -> version the batch was computed against
	ExpectedPipelineVersion *int        // set when lane orders change
	Updates                 []OrderUpdate
}

// Empty reports whether the batch carries no updates
func (b *OrderBatch) Empty() bool {
	return b == nil || len(b.Updates) == 0
}

// BatchResult carries the container versions after a committed batch
type BatchResult struct {
	LaneVersions    map[int]int
	PipelineVersion *int
}
