package ecs

import "github.com/jakecoffman/cp"

// Event is a generic ECS event payload.
type Event struct {
	Type string
	Data any
}

// EventContacts carries a []Contact gathered during one physics update.
const EventContacts = "contacts"

// Contact is one collision-start pair reported by the physics step. Point is
// the first support point of the arbiter.
type Contact struct {
	A, B   Entity
	LabelA string
	LabelB string
	Point  cp.Vector
}

// Involves reports whether e is one side of the pair.
func (c Contact) Involves(e Entity) bool {
	return e.Valid() && (c.A == e || c.B == e)
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// DrainType removes and returns the events of one type, keeping the rest in
// order.
func (q *EventQueue) DrainType(typ string) []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	var out []Event
	kept := q.items[:0]
	for _, evt := range q.items {
		if evt.Type == typ {
			out = append(out, evt)
			continue
		}
		kept = append(kept, evt)
	}
	q.items = kept
	return out
}

// Len returns the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

func (q *EventQueue) flush() {
	if q == nil {
		return
	}
	q.items = nil
}
