// Package queue provides the FIFO event queue shared by every role in the
// trading pipeline. The orchestrator owns the queue and is its sole
// consumer; every role, including the orchestrator itself, is a producer.
package queue

import (
	"sync"

	"github.com/rxtech-lab/event-trading/internal/types"
)

// EventQueue is a mutex-guarded FIFO of pipeline events. The core run loop
// is single-threaded, but the broker-backed execution handler pushes fills
// from an asynchronous session callback, so Push must be safe for
// concurrent producers.
type EventQueue struct {
	mu     sync.Mutex
	events []types.Event
}

// NewEventQueue creates an empty event queue.
func NewEventQueue() *EventQueue {
	return &EventQueue{
		events: nil,
	}
}

// Push appends an event to the back of the queue.
func (q *EventQueue) Push(event types.Event) {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.events = append(q.events, event)
}

// Pop removes and returns the event at the front of the queue. The second
// return value is false when the queue is empty.
func (q *EventQueue) Pop() (types.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return nil, false
	}

	event := q.events[0]
	q.events = q.events[1:]

	return event, true
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return len(q.events)
}
