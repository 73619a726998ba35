package sdk

import "sync"

// EventKind enumerates the SDK event surface the embed core consumes.
type EventKind int

const (
	ConnectionChanged EventKind = iota
	ParticipantAdded
	ParticipantRemoved
	ParticipantUpdated
)

func (k EventKind) String() string {
	switch k {
	case ConnectionChanged:
		return "connection-change"
	case ParticipantAdded:
		return "user-added"
	case ParticipantRemoved:
		return "user-removed"
	case ParticipantUpdated:
		return "user-updated"
	default:
		return "unknown"
	}
}

// Event is a typed SDK notification. State is set for ConnectionChanged,
// Participant for the participant kinds.
type Event struct {
	Kind        EventKind
	State       ConnectionState
	Participant Participant
}

type Handler func(Event)

// Subscription is a cancellable event registration.
type Subscription struct {
	bus  *EventBus
	kind EventKind
	id   int
}

// Cancel unregisters the subscription. Safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.bus == nil {
		return
	}
	s.bus.off(s.kind, s.id)
	s.bus = nil
}

// EventBus dispatches typed events to registered handlers. Handlers run
// synchronously on the emitting goroutine.
type EventBus struct {
	mutex    sync.RWMutex
	handlers map[EventKind]map[int]Handler
	nextID   int
}

func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[EventKind]map[int]Handler)}
}

// On registers a handler for the given event kind.
func (b *EventBus) On(kind EventKind, handler Handler) *Subscription {
	b.mutex.Lock()
	defer b.mutex.Unlock()

	b.nextID++
	if b.handlers[kind] == nil {
		b.handlers[kind] = make(map[int]Handler)
	}
	b.handlers[kind][b.nextID] = handler

	return &Subscription{bus: b, kind: kind, id: b.nextID}
}

func (b *EventBus) off(kind EventKind, id int) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	if m := b.handlers[kind]; m != nil {
		delete(m, id)
	}
}

// Emit delivers the event to every handler registered for its kind.
func (b *EventBus) Emit(event Event) {
	b.mutex.RLock()
	handlers := make([]Handler, 0, len(b.handlers[event.Kind]))
	for _, h := range b.handlers[event.Kind] {
		handlers = append(handlers, h)
	}
	b.mutex.RUnlock()

	for _, h := range handlers {
		h(event)
	}
}

// HandlerCount returns the number of handlers registered for a kind.
func (b *EventBus) HandlerCount(kind EventKind) int {
	b.mutex.RLock()
	defer b.mutex.RUnlock()
	return len(b.handlers[kind])
}
