package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rowanmarsh/verdi/internal/command"
	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/event"
)

// OrderStore is the relational store capability for order reads and status
// transitions. Implemented by postgres.Store.
type OrderStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
}

// UpdateOrderStatusCommand drives one transition of the fulfillment machine.
type UpdateOrderStatusCommand struct {
	OrderID   uuid.UUID          `validate:"required"`
	NewStatus domain.OrderStatus `validate:"required,oneof=Pending Processing Shipped Delivered Cancelled Returned"`
}

// Mutation marks the command for transactional execution.
func (UpdateOrderStatusCommand) Mutation() {}

// GetOrderDetailsQuery reads one order scoped to its owner.
type GetOrderDetailsQuery struct {
	OrderID    uuid.UUID `validate:"required"`
	CustomerID uuid.UUID `validate:"required"`
}

// CacheKey includes both IDs so one customer can never be served another's
// cached view.
func (q GetOrderDetailsQuery) CacheKey() string {
	return "order-details:" + q.OrderID.String() + ":" + q.CustomerID.String()
}

func (q GetOrderDetailsQuery) CacheTags() []string {
	return []string{orderTag(q.OrderID), customerTag(q.CustomerID)}
}

func (q GetOrderDetailsQuery) CacheTTL() time.Duration { return 10 * time.Minute }

// GetUserOrdersQuery lists a customer's order history.
type GetUserOrdersQuery struct {
	CustomerID uuid.UUID `validate:"required"`
}

func (q GetUserOrdersQuery) CacheKey() string {
	return "user-orders:" + q.CustomerID.String()
}

func (q GetUserOrdersQuery) CacheTags() []string {
	return []string{customerTag(q.CustomerID)}
}

func (q GetUserOrdersQuery) CacheTTL() time.Duration { return 10 * time.Minute }

// OrderLine is one order item in a read model.
type OrderLine struct {
	ProductID      uuid.UUID `json:"productId"`
	Quantity       int       `json:"quantity"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	TotalCents     int64     `json:"totalCents"`
}

// OrderDetails is the full read model for one order.
type OrderDetails struct {
	ID               uuid.UUID          `json:"id"`
	Status           domain.OrderStatus `json:"status"`
	ShippingFeeCents int64              `json:"shippingFeeCents"`
	TotalCents       int64              `json:"totalCents"`
	Items            []OrderLine        `json:"items"`
	CreatedAt        time.Time          `json:"createdAt"`
}

// OrderSummary is one row of a customer's order history.
type OrderSummary struct {
	ID         uuid.UUID          `json:"id"`
	Status     domain.OrderStatus `json:"status"`
	TotalCents int64              `json:"totalCents"`
	ItemCount  int                `json:"itemCount"`
	CreatedAt  time.Time          `json:"createdAt"`
}

// OrderService serves order reads and drives status transitions. Reads go
// through the cache stage; the status mutation invalidates the affected
// order and customer tags after commit.
type OrderService struct {
	store OrderStore
	cache command.Cache
	log   *slog.Logger

	updateStatus  command.Handler[UpdateOrderStatusCommand, *domain.Order]
	getDetails    command.Handler[GetOrderDetailsQuery, OrderDetails]
	getUserOrders command.Handler[GetUserOrdersQuery, []OrderSummary]
}

// NewOrderService wires the order pipelines.
func NewOrderService(
	store OrderStore,
	cache command.Cache,
	tx command.Transactor,
	dispatcher *event.Dispatcher,
	v *validator.Validate,
	log *slog.Logger,
) *OrderService {
	s := &OrderService{store: store, cache: cache, log: log}

	s.updateStatus = command.Chain(s.handleUpdateStatus,
		command.Validate[UpdateOrderStatusCommand, *domain.Order](v),
		command.Transactional[UpdateOrderStatusCommand, *domain.Order](tx, dispatcher, log))

	s.getDetails = command.Chain(s.handleGetDetails,
		command.Validate[GetOrderDetailsQuery, OrderDetails](v),
		command.Cached[GetOrderDetailsQuery, OrderDetails](cache, log))

	s.getUserOrders = command.Chain(s.handleGetUserOrders,
		command.Validate[GetUserOrdersQuery, []OrderSummary](v),
		command.Cached[GetUserOrdersQuery, []OrderSummary](cache, log))

	return s
}

// UpdateStatus applies one fulfillment transition and returns the order's
// resulting status.
func (s *OrderService) UpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (domain.OrderStatus, error) {
	order, err := s.updateStatus(ctx, cmd)
	if err != nil {
		return "", err
	}

	if err := s.cache.InvalidateTag(ctx, orderTag(order.ID)); err != nil {
		s.log.Warn("cache invalidation failed", "order_id", order.ID, "error", err)
	}
	if err := s.cache.InvalidateTag(ctx, customerTag(order.CustomerID)); err != nil {
		s.log.Warn("cache invalidation failed", "customer_id", order.CustomerID, "error", err)
	}
	return order.Status, nil
}

// GetDetails returns one order for its owner. Orders belonging to a
// different customer are indistinguishable from absent ones.
func (s *OrderService) GetDetails(ctx context.Context, q GetOrderDetailsQuery) (OrderDetails, error) {
	return s.getDetails(ctx, q)
}

// GetUserOrders returns the customer's order history, newest first.
func (s *OrderService) GetUserOrders(ctx context.Context, q GetUserOrdersQuery) ([]OrderSummary, error) {
	return s.getUserOrders(ctx, q)
}

func (s *OrderService) handleUpdateStatus(ctx context.Context, cmd UpdateOrderStatusCommand) (*domain.Order, error) {
	order, err := s.store.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return nil, err
	}

	previous := order.Status
	if err := order.UpdateStatus(cmd.NewStatus); err != nil {
		return nil, err
	}

	// Idempotent no-op transitions change nothing and raise nothing; skip
	// the write so updated_at stays honest.
	if order.Status != previous {
		if err := s.store.UpdateOrderStatus(ctx, order.ID, order.Status); err != nil {
			return nil, err
		}
		s.log.Info("order status updated", "order_id", order.ID, "from", previous, "to", order.Status)
	}
	event.Record(ctx, order)
	return order, nil
}

func (s *OrderService) handleGetDetails(ctx context.Context, q GetOrderDetailsQuery) (OrderDetails, error) {
	order, err := s.store.GetOrder(ctx, q.OrderID)
	if err != nil {
		return OrderDetails{}, err
	}
	if order.CustomerID != q.CustomerID {
		return OrderDetails{}, domain.ErrOrderNotFound
	}
	return orderDetailsFrom(order), nil
}

func (s *OrderService) handleGetUserOrders(ctx context.Context, q GetUserOrdersQuery) ([]OrderSummary, error) {
	orders, err := s.store.ListOrdersByCustomer(ctx, q.CustomerID)
	if err != nil {
		return nil, err
	}

	summaries := make([]OrderSummary, 0, len(orders))
	for i := range orders {
		o := &orders[i]
		summaries = append(summaries, OrderSummary{
			ID:         o.ID,
			Status:     o.Status,
			TotalCents: o.TotalCents(),
			ItemCount:  len(o.Items),
			CreatedAt:  o.CreatedAt,
		})
	}
	return summaries, nil
}

func orderDetailsFrom(order *domain.Order) OrderDetails {
	details := OrderDetails{
		ID:               order.ID,
		Status:           order.Status,
		ShippingFeeCents: order.ShippingFeeCents,
		TotalCents:       order.TotalCents(),
		CreatedAt:        order.CreatedAt,
	}
	for _, item := range order.Items {
		details.Items = append(details.Items, OrderLine{
			ProductID:      item.ProductID,
			Quantity:       item.Quantity,
			UnitPriceCents: item.UnitPriceCents,
			TotalCents:     item.TotalCents(),
		})
	}
	return details
}
