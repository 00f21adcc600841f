package mocks

import (
	"context"
	"sync"

	"github.com/ersonp/lingo-core/internal/domain/entities"
)

// Publisher is a mock implementation of ports.EventPublisher that records events.
type Publisher struct {
	mu     sync.Mutex
	Events []entities.Event
}

// Publish records the event.
func (m *Publisher) Publish(_ context.Context, event entities.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// OfType returns the recorded events of the given type.
func (m *Publisher) OfType(eventType entities.EventType) []entities.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []entities.Event
	for _, e := range m.Events {
		if e.Type() == eventType {
			result = append(result, e)
		}
	}
	return result
}
