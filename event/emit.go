package event

// Emitter stamps events with the current cycle before queueing
// Cycle is owned by the gameloop; systems only read it
type Emitter struct {
	queue *EventQueue
	cycle func() uint64
}

// NewEmitter binds a queue to a cycle source
func NewEmitter(queue *EventQueue, cycle func() uint64) *Emitter {
	return &Emitter{queue: queue, cycle: cycle}
}

// Emit pushes a payload; nil emitter discards
func (e *Emitter) Emit(t EventType, payload any) {
	if e == nil || e.queue == nil {
		return
	}
	var c uint64
	if e.cycle != nil {
		c = e.cycle()
	}
	e.queue.Push(GameEvent{Type: t, Payload: payload, Cycle: c})
}
