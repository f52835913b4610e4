package event

import (
	"slices"
	"sync"

	"github.com/lixenwraith/war-arena/parameter"
)

// EventQueue buffers events emitted during a cycle until the router drains them
// Holds up to parameter.EventQueueSize events; further events are dropped and
// counted per type, except deaths which are always kept
type EventQueue struct {
	mu      sync.Mutex
	events  []GameEvent
	dropped map[EventType]uint64
}

func NewEventQueue() *EventQueue {
	return &EventQueue{
		events:  make([]GameEvent, 0, parameter.EventQueueSize),
		dropped: make(map[EventType]uint64),
	}
}

// Push appends ev in emission order; safe for concurrent producers
func (eq *EventQueue) Push(ev GameEvent) {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	if len(eq.events) >= parameter.EventQueueSize && ev.Type != EventDeath {
		eq.dropped[ev.Type]++
		return
	}
	eq.events = append(eq.events, ev)
}

// Consume returns all pending events in emission order and empties the queue
func (eq *EventQueue) Consume() []GameEvent {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	if len(eq.events) == 0 {
		return nil
	}
	out := slices.Clone(eq.events)
	eq.events = eq.events[:0]
	return out
}

// Len returns the pending event count
func (eq *EventQueue) Len() int {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	return len(eq.events)
}

// Dropped returns the total number of events rejected while full
func (eq *EventQueue) Dropped() uint64 {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	var n uint64
	for _, c := range eq.dropped {
		n += c
	}
	return n
}

// DroppedByType returns rejected event counts keyed by type name
func (eq *EventQueue) DroppedByType() map[string]uint64 {
	eq.mu.Lock()
	defer eq.mu.Unlock()
	out := make(map[string]uint64, len(eq.dropped))
	for t, c := range eq.dropped {
		out[t.String()] = c
	}
	return out
}
