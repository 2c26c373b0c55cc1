package event_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/event"
)

type fakePublisher struct {
	subjects []string
	payloads [][]byte
	err      error
}

func (f *fakePublisher) Publish(subject string, data []byte) error {
	if f.err != nil {
		return f.err
	}
	f.subjects = append(f.subjects, subject)
	f.payloads = append(f.payloads, data)
	return nil
}

func TestRelay_PublishesOutwardFacingEvents(t *testing.T) {
	pub := &fakePublisher{}
	d := event.NewDispatcher(discardLogger())
	event.NewRelay(pub, "verdi.events", discardLogger()).Register(d)

	orderID := uuid.New()
	d.Dispatch(context.Background(), []domain.Event{
		domain.OrderStatusChangedEvent{OrderID: orderID, NewStatus: domain.OrderProcessing},
		domain.PaymentCompletedEvent{PaymentID: uuid.New(), OrderID: orderID},
		domain.OrderItemAddedEvent{ProductID: uuid.New(), Quantity: 1}, // internal only
	})

	require.Len(t, pub.subjects, 2, "internal events must not be relayed")
	assert.Equal(t, "verdi.events.order.status_changed", pub.subjects[0])
	assert.Equal(t, "verdi.events.payment.completed", pub.subjects[1])

	var decoded domain.OrderStatusChangedEvent
	require.NoError(t, json.Unmarshal(pub.payloads[0], &decoded))
	assert.Equal(t, orderID, decoded.OrderID)
	assert.Equal(t, domain.OrderProcessing, decoded.NewStatus)
}

func TestRelay_PublishFailureSurfacesAsHandlerError(t *testing.T) {
	pub := &fakePublisher{err: assert.AnError}
	relay := event.NewRelay(pub, "verdi.events", discardLogger())

	err := relay.Handle(context.Background(), domain.PaymentFailedEvent{
		PaymentID: uuid.New(),
		OrderID:   uuid.New(),
		Reason:    "declined",
	})
	assert.ErrorIs(t, err, assert.AnError)
}
