// Package event delivers domain events to in-process handlers after the
// unit of work that raised them has committed.
package event

import (
	"context"
	"log/slog"

	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/telemetry"
)

// HandlerFunc consumes one domain event.
type HandlerFunc func(ctx context.Context, ev domain.Event) error

// Dispatcher is a registry of event handlers keyed by event name. Handlers
// run synchronously relative to the request; a handler failure after commit
// is logged and counted but never fails the already-committed request.
type Dispatcher struct {
	handlers map[string][]HandlerFunc
	log      *slog.Logger
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(log *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]HandlerFunc),
		log:      log,
	}
}

// Subscribe registers a handler for an event name. Not safe for concurrent
// use with Dispatch; register everything at wiring time.
func (d *Dispatcher) Subscribe(eventName string, h HandlerFunc) {
	d.handlers[eventName] = append(d.handlers[eventName], h)
}

// Dispatch delivers each event to its registered handlers in order.
// Callers invoke this only after a successful commit: events must never
// fire for changes that didn't persist.
func (d *Dispatcher) Dispatch(ctx context.Context, events []domain.Event) {
	for _, ev := range events {
		name := ev.EventName()
		telemetry.EventsDispatched.WithLabelValues(name).Inc()
		for _, h := range d.handlers[name] {
			if err := h(ctx, ev); err != nil {
				telemetry.EventHandlerFailures.WithLabelValues(name).Inc()
				d.log.Error("event handler failed", "event", name, "error", err)
			}
		}
	}
}
