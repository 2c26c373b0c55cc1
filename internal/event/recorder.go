package event

import (
	"context"
	"sync"

	"github.com/rowanmarsh/verdi/internal/domain"
)

type recorderKey struct{}

// Recorder collects the aggregates touched during one unit of work so their
// queued events can be dispatched after the transaction commits. One
// Recorder exists per unit of work; it is carried in the context.
type Recorder struct {
	mu      sync.Mutex
	sources []domain.EventSource
}

// WithRecorder attaches a fresh Recorder to the context.
func WithRecorder(ctx context.Context) (context.Context, *Recorder) {
	rec := &Recorder{}
	return context.WithValue(ctx, recorderKey{}, rec), rec
}

// Record registers an aggregate with the current unit of work. Recording the
// same aggregate twice is harmless; its queue is drained once. Outside a
// unit of work this is a no-op, so domain code never depends on pipeline
// presence.
func Record(ctx context.Context, src domain.EventSource) {
	rec, ok := ctx.Value(recorderKey{}).(*Recorder)
	if !ok {
		return
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, existing := range rec.sources {
		if existing == src {
			return
		}
	}
	rec.sources = append(rec.sources, src)
}

// Drain collects every recorded aggregate's events in the order the
// aggregates were recorded (per-aggregate FIFO, no global ordering) and
// clears the queues. After a rollback, Drain is simply never called and the
// queued events are discarded with the aggregates.
func (r *Recorder) Drain() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	var events []domain.Event
	for _, src := range r.sources {
		events = append(events, src.DomainEvents()...)
		src.ClearDomainEvents()
	}
	r.sources = nil
	return events
}
