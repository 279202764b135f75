package testutil

import (
	"context"
	"sync"

	"github.com/thenoetrevino/plura/internal/events"
)

// MockEventPublisher is an events.EventPublisher that records every event
// sent through it.
type MockEventPublisher struct {
	mu sync.Mutex

	SentEvents []events.Event

	CloseCalled   bool
	ConnectCalled bool

	// SubscriptionHistory tracks every Subscribe(pipelineID) call in order
	SubscriptionHistory []int

	// SendErr, when set, is returned by SendEvent instead of recording
	SendErr error
}

// NewMockEventPublisher creates a new mock event publisher.
func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{}
}

func (m *MockEventPublisher) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ConnectCalled = true
	return nil
}

func (m *MockEventPublisher) SendEvent(event events.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SendErr != nil {
		return m.SendErr
	}
	m.SentEvents = append(m.SentEvents, event)
	return nil
}

// Listen returns a closed channel
func (m *MockEventPublisher) Listen(ctx context.Context) (<-chan events.Event, error) {
	ch := make(chan events.Event)
	close(ch)
	return ch, nil
}

func (m *MockEventPublisher) Subscribe(pipelineID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SubscriptionHistory = append(m.SubscriptionHistory, pipelineID)
	return nil
}

func (m *MockEventPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CloseCalled = true
	return nil
}

// EventsForPipeline returns the events sent for a pipeline
func (m *MockEventPublisher) EventsForPipeline(pipelineID int) []events.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []events.Event
	for _, e := range m.SentEvents {
		if e.PipelineID == pipelineID {
			result = append(result, e)
		}
	}
	return result
}

// EventCount returns the total number of events sent.
func (m *MockEventPublisher) EventCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SentEvents)
}

var _ events.EventPublisher = (*MockEventPublisher)(nil)
