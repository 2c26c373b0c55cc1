package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/event"
	"github.com/rowanmarsh/verdi/internal/service"
)

func storedOrder(t *testing.T, status domain.OrderStatus, items int) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(uuid.New(), uuid.New(), uuid.New(), 5000)
	require.NoError(t, err)
	for i := 0; i < items; i++ {
		require.NoError(t, order.AddItem(uuid.New(), i+1, 1000, 400))
	}
	order.Status = status
	order.ClearDomainEvents()
	return order
}

type orderFixture struct {
	store      *fakeStore
	cache      *memCache
	tx         *stubTx
	dispatcher *event.Dispatcher
	svc        *service.OrderService
}

func newOrderFixture(t *testing.T, store *fakeStore) *orderFixture {
	t.Helper()
	f := &orderFixture{
		store:      store,
		cache:      newMemCache(),
		tx:         &stubTx{},
		dispatcher: event.NewDispatcher(discardLogger()),
	}
	f.svc = service.NewOrderService(store, f.cache, f.tx, f.dispatcher, newValidator(t), discardLogger())
	return f
}

func TestOrderService_UpdateStatus(t *testing.T) {
	order := storedOrder(t, domain.OrderPending, 1)

	var persisted domain.OrderStatus
	store := &fakeStore{
		GetOrderFunc: func(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
			return order, nil
		},
		UpdateOrderStatusFunc: func(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
			persisted = status
			return nil
		},
	}
	f := newOrderFixture(t, store)

	status, err := f.svc.UpdateStatus(context.Background(), service.UpdateOrderStatusCommand{
		OrderID:   order.ID,
		NewStatus: domain.OrderProcessing,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.OrderProcessing, status)
	assert.Equal(t, domain.OrderProcessing, persisted)
	assert.Equal(t, 1, f.tx.commits)
	assert.Contains(t, f.cache.invalidated, "order-"+order.ID.String())
	assert.Contains(t, f.cache.invalidated, "user-"+order.CustomerID.String())
}

func TestOrderService_UpdateStatus_UnknownStatusFailsValidation(t *testing.T) {
	f := newOrderFixture(t, &fakeStore{})

	_, err := f.svc.UpdateStatus(context.Background(), service.UpdateOrderStatusCommand{
		OrderID:   uuid.New(),
		NewStatus: "Teleported",
	})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))
	assert.Zero(t, f.tx.commits+f.tx.rollbacks)
}

func TestOrderService_UpdateStatus_RejectedTransitionRollsBack(t *testing.T) {
	order := storedOrder(t, domain.OrderShipped, 1)

	persists := 0
	store := &fakeStore{
		GetOrderFunc: func(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
			return order, nil
		},
		UpdateOrderStatusFunc: func(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
			persists++
			return nil
		},
	}
	f := newOrderFixture(t, store)

	_, err := f.svc.UpdateStatus(context.Background(), service.UpdateOrderStatusCommand{
		OrderID:   order.ID,
		NewStatus: domain.OrderCancelled,
	})
	assert.ErrorIs(t, err, domain.ErrCannotCancel)
	assert.Zero(t, persists)
	assert.Equal(t, 1, f.tx.rollbacks)
	assert.Empty(t, f.cache.invalidated)
}

func TestOrderService_Cancel_RestoresStockAfterCommit(t *testing.T) {
	order := storedOrder(t, domain.OrderPending, 2)

	store := &fakeStore{
		GetOrderFunc: func(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
			return order, nil
		},
	}

	type restoration struct {
		productID uuid.UUID
		quantity  int
	}
	var restored []restoration
	store.RestoreStockFunc = func(ctx context.Context, productID uuid.UUID, quantity int) error {
		restored = append(restored, restoration{productID, quantity})
		return nil
	}

	f := newOrderFixture(t, store)
	service.RegisterEventHandlers(f.dispatcher, store, discardLogger())

	_, err := f.svc.UpdateStatus(context.Background(), service.UpdateOrderStatusCommand{
		OrderID:   order.ID,
		NewStatus: domain.OrderCancelled,
	})
	require.NoError(t, err)

	require.Len(t, restored, 2, "each cancelled line must be restored")
	assert.Equal(t, order.Items[0].ProductID, restored[0].productID)
	assert.Equal(t, order.Items[0].Quantity, restored[0].quantity)
	assert.Equal(t, order.Items[1].ProductID, restored[1].productID)
	assert.Equal(t, order.Items[1].Quantity, restored[1].quantity)
}

func TestOrderService_GetDetails_OwnershipScoped(t *testing.T) {
	order := storedOrder(t, domain.OrderPending, 1)

	store := &fakeStore{
		GetOrderFunc: func(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
			return order, nil
		},
	}
	f := newOrderFixture(t, store)

	// Owner sees the order.
	details, err := f.svc.GetDetails(context.Background(), service.GetOrderDetailsQuery{
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
	})
	require.NoError(t, err)
	assert.Equal(t, order.ID, details.ID)
	assert.Equal(t, order.TotalCents(), details.TotalCents)

	// Anyone else gets not-found, indistinguishable from an absent order.
	_, err = f.svc.GetDetails(context.Background(), service.GetOrderDetailsQuery{
		OrderID:    order.ID,
		CustomerID: uuid.New(),
	})
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderService_GetDetails_SecondReadServedFromCache(t *testing.T) {
	order := storedOrder(t, domain.OrderPending, 1)

	loads := 0
	store := &fakeStore{
		GetOrderFunc: func(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
			loads++
			return order, nil
		},
	}
	f := newOrderFixture(t, store)

	query := service.GetOrderDetailsQuery{OrderID: order.ID, CustomerID: order.CustomerID}
	_, err := f.svc.GetDetails(context.Background(), query)
	require.NoError(t, err)
	_, err = f.svc.GetDetails(context.Background(), query)
	require.NoError(t, err)
	assert.Equal(t, 1, loads, "second read must come from the cache")
}

func TestOrderService_GetUserOrders(t *testing.T) {
	customerID := uuid.New()
	first := storedOrder(t, domain.OrderDelivered, 2)
	second := storedOrder(t, domain.OrderPending, 1)

	store := &fakeStore{
		ListOrdersByCustomerFunc: func(ctx context.Context, cID uuid.UUID) ([]domain.Order, error) {
			assert.Equal(t, customerID, cID)
			return []domain.Order{*first, *second}, nil
		},
	}
	f := newOrderFixture(t, store)

	summaries, err := f.svc.GetUserOrders(context.Background(), service.GetUserOrdersQuery{CustomerID: customerID})
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, first.ID, summaries[0].ID)
	assert.Equal(t, 2, summaries[0].ItemCount)
	assert.Equal(t, first.TotalCents(), summaries[0].TotalCents)
}
