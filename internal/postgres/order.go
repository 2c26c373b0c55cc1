package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rowanmarsh/verdi/internal/domain"
)

// CreateOrder inserts an order and its items. Callers run this inside
// WithinTx together with the stock decrements so partial application is
// never observable.
func (s *Store) CreateOrder(ctx context.Context, o *domain.Order) error {
	db := s.db(ctx)

	_, err := db.Exec(ctx, `
		INSERT INTO orders (id, customer_id, address_id, shipping_fee_cents, status)
		VALUES ($1, $2, $3, $4, $5)`,
		o.ID, o.CustomerID, o.AddressID, o.ShippingFeeCents, o.Status,
	)
	if err != nil {
		return domain.Internal(err, "order.create", "failed to save order")
	}

	for _, item := range o.Items {
		_, err := db.Exec(ctx, `
			INSERT INTO order_items (id, order_id, product_id, quantity, unit_price_cents, cost_price_cents)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			item.ID, o.ID, item.ProductID, item.Quantity, item.UnitPriceCents, item.CostPriceCents,
		)
		if err != nil {
			return domain.Internal(err, "order.create", "failed to save order item")
		}
	}
	return nil
}

// GetOrder loads an order with its items.
func (s *Store) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	db := s.db(ctx)

	row := db.QueryRow(ctx, `
		SELECT id, customer_id, address_id, shipping_fee_cents, status, created_at, updated_at
		FROM orders WHERE id = $1`, id)

	var o domain.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.AddressID, &o.ShippingFeeCents, &o.Status, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "order.get", "failed to load order")
	}

	items, err := s.orderItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return &o, nil
}

// ListOrdersByCustomer returns a customer's orders, newest first, with items.
func (s *Store) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	rows, err := s.db(ctx).Query(ctx, `
		SELECT id, customer_id, address_id, shipping_fee_cents, status, created_at, updated_at
		FROM orders WHERE customer_id = $1 ORDER BY created_at DESC`, customerID)
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(&o.ID, &o.CustomerID, &o.AddressID, &o.ShippingFeeCents, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, domain.Internal(err, "order.list", "failed to scan order")
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}

	for i := range orders {
		items, err := s.orderItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// UpdateOrderStatus persists a status transition already accepted by the
// aggregate.
func (s *Store) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	tag, err := s.db(ctx).Exec(ctx, `
		UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return domain.Internal(err, "order.update_status", "failed to update order status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (s *Store) orderItems(ctx context.Context, orderID uuid.UUID) ([]domain.OrderItem, error) {
	rows, err := s.db(ctx).Query(ctx, `
		SELECT id, product_id, quantity, unit_price_cents, cost_price_cents
		FROM order_items WHERE order_id = $1 ORDER BY created_at`, orderID)
	if err != nil {
		return nil, domain.Internal(err, "order.items", "failed to load order items")
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity, &item.UnitPriceCents, &item.CostPriceCents); err != nil {
			return nil, domain.Internal(err, "order.items", "failed to scan order item")
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "order.items", "failed to load order items")
	}
	return items, nil
}
