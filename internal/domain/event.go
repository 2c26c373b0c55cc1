package domain

// Event is an immutable fact raised by an aggregate during a unit of work.
// Events are queued on the aggregate and delivered by the dispatcher only
// after the surrounding transaction commits.
type Event interface {
	// EventName returns the stable name handlers subscribe to.
	EventName() string
}

// EventSource is implemented by aggregates that queue domain events.
type EventSource interface {
	// DomainEvents returns the queued events in the order they were raised.
	DomainEvents() []Event

	// ClearDomainEvents empties the queue. Called by the unit-of-work
	// coordinator once events have been handed to the dispatcher.
	ClearDomainEvents()
}

// Events is the per-aggregate FIFO event queue. Embed it in an aggregate to
// satisfy EventSource.
type Events struct {
	queue []Event
}

func (e *Events) raise(ev Event) {
	e.queue = append(e.queue, ev)
}

// DomainEvents returns the queued events in raise order.
func (e *Events) DomainEvents() []Event {
	return e.queue
}

// ClearDomainEvents empties the queue.
func (e *Events) ClearDomainEvents() {
	e.queue = nil
}
