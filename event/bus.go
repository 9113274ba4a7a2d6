package event

// Handler consumes one event
type Handler func(Event)

// Bus queues events during a tick and dispatches them on Flush.
// Single consumer: it is driven from the simulation loop only.
type Bus struct {
	queue    []Event
	handlers map[Type][]Handler
	all      []Handler
}

// NewBus creates an empty bus
func NewBus() *Bus {
	return &Bus{
		queue:    make([]Event, 0, 16),
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe registers a handler for one event type
func (b *Bus) Subscribe(t Type, h Handler) {
	b.handlers[t] = append(b.handlers[t], h)
}

// SubscribeAll registers a handler for every event type
func (b *Bus) SubscribeAll(h Handler) {
	b.all = append(b.all, h)
}

// Publish queues an event for the next Flush
func (b *Bus) Publish(e Event) {
	b.queue = append(b.queue, e)
}

// Pending returns the number of queued events
func (b *Bus) Pending() int {
	return len(b.queue)
}

// Flush dispatches queued events in FIFO order. Events published by handlers
// are dispatched in the same flush, after the ones already queued.
// Returns the number of events dispatched.
func (b *Bus) Flush() int {
	n := 0
	for len(b.queue) > 0 {
		e := b.queue[0]
		b.queue = b.queue[1:]
		for _, h := range b.handlers[e.Type] {
			h(e)
		}
		for _, h := range b.all {
			h(e)
		}
		n++
	}
	b.queue = b.queue[:0]
	return n
}
