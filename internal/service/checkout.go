package service

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rowanmarsh/verdi/internal/command"
	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/event"
	"github.com/rowanmarsh/verdi/internal/shipping"
	"github.com/rowanmarsh/verdi/internal/telemetry"
)

// CheckoutStore is the relational store capability checkout needs.
// Implemented by postgres.Store.
type CheckoutStore interface {
	GetCustomerAddress(ctx context.Context, addressID, customerID uuid.UUID) (*domain.Address, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ReduceStock(ctx context.Context, productID uuid.UUID, quantity int) error
	CreateOrder(ctx context.Context, o *domain.Order) error
}

// CreateOrderCommand converts a customer's basket into a durable order.
type CreateOrderCommand struct {
	CustomerID uuid.UUID `validate:"required"`
	AddressID  uuid.UUID `validate:"required"`
}

// Mutation marks the command for transactional execution.
func (CreateOrderCommand) Mutation() {}

// CheckoutService converts baskets into orders. The conversion is
// all-or-nothing: every stock decrement, the order row and its items commit
// in one transaction or none of them do.
type CheckoutService struct {
	store   CheckoutStore
	baskets BasketStore
	cache   command.Cache
	fees    *shipping.FlatRateTable
	log     *slog.Logger

	createOrder command.Handler[CreateOrderCommand, uuid.UUID]
}

// NewCheckoutService wires the checkout pipeline.
func NewCheckoutService(
	store CheckoutStore,
	baskets BasketStore,
	cache command.Cache,
	fees *shipping.FlatRateTable,
	tx command.Transactor,
	dispatcher *event.Dispatcher,
	v *validator.Validate,
	log *slog.Logger,
) *CheckoutService {
	s := &CheckoutService{store: store, baskets: baskets, cache: cache, fees: fees, log: log}

	s.createOrder = command.Chain(s.handleCreateOrder,
		command.Validate[CreateOrderCommand, uuid.UUID](v),
		command.Transactional[CreateOrderCommand, uuid.UUID](tx, dispatcher, log))

	return s
}

// CreateOrder runs the checkout and returns the new order ID. The basket is
// deleted and the customer's cached order views are invalidated only after
// the transaction committed; both cleanups are best-effort, a stale basket
// expires on its own TTL.
func (s *CheckoutService) CreateOrder(ctx context.Context, cmd CreateOrderCommand) (uuid.UUID, error) {
	orderID, err := s.createOrder(ctx, cmd)
	if err != nil {
		reason := domain.ErrorReason(err)
		if reason == "" {
			reason = domain.ErrorCode(err)
		}
		telemetry.CheckoutFailures.WithLabelValues(reason).Inc()
		return uuid.Nil, err
	}

	if err := s.baskets.Delete(ctx, cmd.CustomerID.String()); err != nil {
		s.log.Warn("basket cleanup failed after checkout", "customer_id", cmd.CustomerID, "error", err)
	}
	if err := s.cache.InvalidateTag(ctx, customerTag(cmd.CustomerID)); err != nil {
		s.log.Warn("cache invalidation failed after checkout", "customer_id", cmd.CustomerID, "error", err)
	}
	return orderID, nil
}

// handleCreateOrder runs inside the transaction. Price and cost come from
// the live product rows, never from the basket snapshot, and stock is
// decremented with the store's compare-and-decrement guard so two checkouts
// racing for the last unit cannot both succeed.
func (s *CheckoutService) handleCreateOrder(ctx context.Context, cmd CreateOrderCommand) (uuid.UUID, error) {
	basket, err := s.baskets.Get(ctx, cmd.CustomerID.String())
	if err != nil {
		return uuid.Nil, err
	}
	if basket.IsEmpty() {
		return uuid.Nil, domain.ErrOrderEmptyBasket
	}

	address, err := s.store.GetCustomerAddress(ctx, cmd.AddressID, cmd.CustomerID)
	if err != nil {
		return uuid.Nil, err
	}

	order, err := domain.NewOrder(uuid.New(), cmd.CustomerID, cmd.AddressID, s.fees.FeeCents(address.City))
	if err != nil {
		return uuid.Nil, err
	}

	for _, line := range basket.Items {
		product, err := s.store.GetProduct(ctx, line.ProductID)
		if err != nil {
			return uuid.Nil, err
		}
		if !product.Active {
			return uuid.Nil, domain.Invalid("checkout.create", "Product.Unavailable", "One or more products are no longer available.")
		}
		if err := product.ReduceStock(line.Quantity); err != nil {
			return uuid.Nil, err
		}
		if err := s.store.ReduceStock(ctx, product.ID, line.Quantity); err != nil {
			return uuid.Nil, err
		}
		if err := order.AddItem(product.ID, line.Quantity, product.PriceCents, product.CostPriceCents); err != nil {
			return uuid.Nil, err
		}
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		return uuid.Nil, err
	}
	event.Record(ctx, order)

	telemetry.OrdersCreated.Inc()
	telemetry.OrderValue.Observe(float64(order.TotalCents()))
	s.log.Info("order created",
		"order_id", order.ID,
		"customer_id", cmd.CustomerID,
		"items", len(order.Items),
		"total_cents", order.TotalCents())
	return order.ID, nil
}

func customerTag(customerID uuid.UUID) string {
	return "user-" + customerID.String()
}

func orderTag(orderID uuid.UUID) string {
	return "order-" + orderID.String()
}
