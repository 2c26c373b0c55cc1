package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rowanmarsh/verdi/internal/domain"
)

// CreatePayment inserts a payment record in its current status.
func (s *Store) CreatePayment(ctx context.Context, p *domain.Payment) error {
	_, err := s.db(ctx).Exec(ctx, `
		INSERT INTO payments (id, order_id, transaction_id, amount_cents, currency, status, provider)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.OrderID, p.TransactionID, p.AmountCents, p.Currency, p.Status, p.Provider,
	)
	if err != nil {
		return domain.Internal(err, "payment.create", "failed to save payment")
	}
	return nil
}

// GetPaymentByTransactionID looks a payment up by the provider's transaction
// ID. A miss means the capture refers to an intent this system never
// created.
func (s *Store) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	row := s.db(ctx).QueryRow(ctx, `
		SELECT id, order_id, transaction_id, amount_cents, currency, status, provider, created_at, updated_at
		FROM payments WHERE transaction_id = $1`, transactionID)

	var p domain.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.TransactionID, &p.AmountCents, &p.Currency, &p.Status, &p.Provider, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, domain.Internal(err, "payment.get_by_transaction", "failed to load payment")
	}
	return &p, nil
}

// GetPaymentByOrderID returns the latest payment correlated with an order.
// A failed payment may be superseded by a newer intent, so only the most
// recent row is authoritative.
func (s *Store) GetPaymentByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	row := s.db(ctx).QueryRow(ctx, `
		SELECT id, order_id, transaction_id, amount_cents, currency, status, provider, created_at, updated_at
		FROM payments WHERE order_id = $1
		ORDER BY created_at DESC LIMIT 1`, orderID)

	var p domain.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.TransactionID, &p.AmountCents, &p.Currency, &p.Status, &p.Provider, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPaymentNotFound
		}
		return nil, domain.Internal(err, "payment.get_by_order", "failed to load payment")
	}
	return &p, nil
}

// UpdatePaymentStatus persists a status transition already accepted by the
// aggregate.
func (s *Store) UpdatePaymentStatus(ctx context.Context, p *domain.Payment) error {
	tag, err := s.db(ctx).Exec(ctx, `
		UPDATE payments SET status = $2, updated_at = now() WHERE id = $1`,
		p.ID, p.Status,
	)
	if err != nil {
		return domain.Internal(err, "payment.update_status", "failed to update payment status")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPaymentNotFound
	}
	return nil
}
