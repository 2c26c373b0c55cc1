package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanmarsh/verdi/internal/domain"
)

func newTestOrder(t *testing.T) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(uuid.New(), uuid.New(), uuid.New(), 5000)
	require.NoError(t, err)
	return order
}

func TestNewOrder_Validation(t *testing.T) {
	customerID := uuid.New()
	addressID := uuid.New()

	tests := []struct {
		name       string
		customerID uuid.UUID
		addressID  uuid.UUID
		feeCents   int64
		wantErr    error
	}{
		{"valid", customerID, addressID, 5000, nil},
		{"zero fee valid", customerID, addressID, 0, nil},
		{"nil address", customerID, uuid.Nil, 5000, domain.ErrAddressRequired},
		{"negative fee", customerID, addressID, -1, domain.ErrShippingFeeNegative},
		{"nil customer", uuid.Nil, addressID, 5000, domain.ErrCustomerRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			order, err := domain.NewOrder(uuid.New(), tt.customerID, tt.addressID, tt.feeCents)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.OrderPending, order.Status)
			assert.Empty(t, order.DomainEvents())
		})
	}
}

func TestOrder_TotalCents(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.AddItem(uuid.New(), 3, 1000, 400))

	// 3 x 1000 + 5000 shipping
	assert.Equal(t, int64(8000), order.TotalCents())
}

func TestOrder_AddItem(t *testing.T) {
	order := newTestOrder(t)

	assert.ErrorIs(t, order.AddItem(uuid.New(), 0, 1000, 400), domain.ErrItemQuantityInvalid)
	assert.ErrorIs(t, order.AddItem(uuid.New(), 1, 0, 400), domain.ErrItemPriceInvalid)
	assert.ErrorIs(t, order.AddItem(uuid.New(), 1, 1000, 0), domain.ErrItemPriceInvalid)
	assert.ErrorIs(t, order.AddItem(uuid.Nil, 1, 1000, 400), domain.ErrItemProductRequired)

	productID := uuid.New()
	require.NoError(t, order.AddItem(productID, 2, 1000, 400))
	require.Len(t, order.Items, 1)

	events := order.DomainEvents()
	require.Len(t, events, 1)
	added, ok := events[0].(domain.OrderItemAddedEvent)
	require.True(t, ok)
	assert.Equal(t, productID, added.ProductID)
	assert.Equal(t, 2, added.Quantity)
}

func TestOrder_UpdateStatus_ForwardPath(t *testing.T) {
	order := newTestOrder(t)

	for _, status := range []domain.OrderStatus{
		domain.OrderProcessing,
		domain.OrderShipped,
		domain.OrderDelivered,
	} {
		require.NoError(t, order.UpdateStatus(status))
		assert.Equal(t, status, order.Status)
	}
}

func TestOrder_UpdateStatus_BackwardRejected(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.UpdateStatus(domain.OrderShipped))

	assert.ErrorIs(t, order.UpdateStatus(domain.OrderProcessing), domain.ErrInvalidTransition)
	assert.Equal(t, domain.OrderShipped, order.Status)
}

func TestOrder_UpdateStatus_SameStatusNoOp(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.UpdateStatus(domain.OrderProcessing))
	order.ClearDomainEvents()

	require.NoError(t, order.UpdateStatus(domain.OrderProcessing))
	assert.Empty(t, order.DomainEvents(), "idempotent transition must not raise events")
}

func TestOrder_UpdateStatus_UnknownStatus(t *testing.T) {
	order := newTestOrder(t)
	assert.ErrorIs(t, order.UpdateStatus("Teleported"), domain.ErrOrderStatusUnknown)
}

func TestOrder_UpdateStatus_TerminalStates(t *testing.T) {
	t.Run("delivered", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.UpdateStatus(domain.OrderDelivered))
		assert.ErrorIs(t, order.UpdateStatus(domain.OrderShipped), domain.ErrFinalStateReached)
	})

	t.Run("cancelled", func(t *testing.T) {
		order := newTestOrder(t)
		require.NoError(t, order.UpdateStatus(domain.OrderCancelled))
		assert.ErrorIs(t, order.UpdateStatus(domain.OrderProcessing), domain.ErrFinalStateReached)
	})
}

func TestOrder_Cancel_RaisesRestorationEventPerItem(t *testing.T) {
	order := newTestOrder(t)
	first, second := uuid.New(), uuid.New()
	require.NoError(t, order.AddItem(first, 2, 1000, 400))
	require.NoError(t, order.AddItem(second, 5, 2000, 900))
	order.ClearDomainEvents()

	require.NoError(t, order.UpdateStatus(domain.OrderCancelled))
	assert.Equal(t, domain.OrderCancelled, order.Status)

	var cancelled []domain.OrderItemCancelledEvent
	var statusChanged []domain.OrderStatusChangedEvent
	for _, ev := range order.DomainEvents() {
		switch e := ev.(type) {
		case domain.OrderItemCancelledEvent:
			cancelled = append(cancelled, e)
		case domain.OrderStatusChangedEvent:
			statusChanged = append(statusChanged, e)
		}
	}

	require.Len(t, cancelled, 2, "one restoration event per item")
	assert.Equal(t, first, cancelled[0].ProductID)
	assert.Equal(t, 2, cancelled[0].Quantity)
	assert.Equal(t, second, cancelled[1].ProductID)
	assert.Equal(t, 5, cancelled[1].Quantity)

	require.Len(t, statusChanged, 1)
	assert.Equal(t, domain.OrderCancelled, statusChanged[0].NewStatus)
}

func TestOrder_Cancel_AfterShipmentRejected(t *testing.T) {
	for _, status := range []domain.OrderStatus{domain.OrderShipped, domain.OrderDelivered} {
		order := newTestOrder(t)
		require.NoError(t, order.AddItem(uuid.New(), 1, 1000, 400))
		require.NoError(t, order.UpdateStatus(domain.OrderShipped))
		if status == domain.OrderDelivered {
			require.NoError(t, order.UpdateStatus(domain.OrderDelivered))
		}
		order.ClearDomainEvents()

		assert.ErrorIs(t, order.UpdateStatus(domain.OrderCancelled), domain.ErrCannotCancel)
		assert.Empty(t, order.DomainEvents(), "rejected cancellation must not raise events")
	}
}

func TestOrder_Cancel_Idempotent(t *testing.T) {
	order := newTestOrder(t)
	require.NoError(t, order.AddItem(uuid.New(), 1, 1000, 400))
	require.NoError(t, order.UpdateStatus(domain.OrderCancelled))
	order.ClearDomainEvents()

	require.NoError(t, order.UpdateStatus(domain.OrderCancelled))
	assert.Empty(t, order.DomainEvents(), "repeated cancellation must not re-raise restoration events")
}
