package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanmarsh/verdi/internal/domain"
)

func TestNewPayment(t *testing.T) {
	orderID := uuid.New()
	payment := domain.NewPayment(orderID, "pi_123", 8000, "usd", "stripe")

	assert.Equal(t, domain.PaymentPending, payment.Status)
	assert.Equal(t, orderID, payment.OrderID)
	assert.Equal(t, "pi_123", payment.TransactionID)

	events := payment.DomainEvents()
	require.Len(t, events, 1)
	created, ok := events[0].(domain.PaymentCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, payment.ID, created.PaymentID)
	assert.Equal(t, int64(8000), created.AmountCents)
}

func TestPayment_MarkCompleted_Idempotent(t *testing.T) {
	payment := domain.NewPayment(uuid.New(), "pi_123", 8000, "usd", "stripe")
	payment.ClearDomainEvents()

	payment.MarkCompleted()
	assert.Equal(t, domain.PaymentCompleted, payment.Status)
	require.Len(t, payment.DomainEvents(), 1)

	// Second completion changes nothing and raises nothing.
	payment.MarkCompleted()
	assert.Equal(t, domain.PaymentCompleted, payment.Status)
	assert.Len(t, payment.DomainEvents(), 1)
}

func TestPayment_MarkFailed(t *testing.T) {
	payment := domain.NewPayment(uuid.New(), "pi_123", 8000, "usd", "stripe")
	payment.ClearDomainEvents()

	payment.MarkFailed("card declined")
	assert.Equal(t, domain.PaymentFailed, payment.Status)

	events := payment.DomainEvents()
	require.Len(t, events, 1)
	failed, ok := events[0].(domain.PaymentFailedEvent)
	require.True(t, ok)
	assert.Equal(t, "card declined", failed.Reason)
	assert.Equal(t, payment.OrderID, failed.OrderID)
}
