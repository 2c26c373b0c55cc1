package event

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/nats-io/nats.go"

	"github.com/rowanmarsh/verdi/internal/domain"
)

// Publisher is the slice of the NATS connection the relay uses.
// *nats.Conn satisfies it.
type Publisher interface {
	Publish(subject string, data []byte) error
}

var _ Publisher = (*nats.Conn)(nil)

// Relay republishes committed domain events onto NATS subjects so external
// consumers (notification service, analytics) can react. It is itself a
// dispatcher handler, so it only ever sees events whose transaction
// committed. Publish failures are logged by the dispatcher like any other
// handler error; in-process consistency never depends on the relay.
type Relay struct {
	pub    Publisher
	prefix string
	log    *slog.Logger
}

// NewRelay creates a relay publishing under the given subject prefix
// (e.g. "verdi.events").
func NewRelay(pub Publisher, prefix string, log *slog.Logger) *Relay {
	return &Relay{pub: pub, prefix: prefix, log: log}
}

// Register subscribes the relay to the outward-facing events.
func (r *Relay) Register(d *Dispatcher) {
	for _, name := range []string{
		domain.OrderStatusChangedEvent{}.EventName(),
		domain.PaymentCompletedEvent{}.EventName(),
		domain.PaymentFailedEvent{}.EventName(),
	} {
		d.Subscribe(name, r.Handle)
	}
}

// Handle publishes one event as JSON on "<prefix>.<event name>".
func (r *Relay) Handle(ctx context.Context, ev domain.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	subject := r.prefix + "." + ev.EventName()
	if err := r.pub.Publish(subject, data); err != nil {
		return err
	}
	r.log.Debug("relayed event", "subject", subject)
	return nil
}
