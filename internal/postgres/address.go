package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rowanmarsh/verdi/internal/domain"
)

// CreateAddress inserts a customer address.
func (s *Store) CreateAddress(ctx context.Context, a *domain.Address) error {
	_, err := s.db(ctx).Exec(ctx, `
		INSERT INTO addresses (id, customer_id, full_name, line1, line2, city, country, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.CustomerID, a.FullName, a.Line1, a.Line2, a.City, a.Country, a.Phone,
	)
	if err != nil {
		return domain.Internal(err, "address.create", "failed to save address")
	}
	return nil
}

// GetCustomerAddress loads an address only when it belongs to the given
// customer. A miss surfaces as Order.InvalidAddress: callers must not learn
// whether the address exists for someone else.
func (s *Store) GetCustomerAddress(ctx context.Context, addressID, customerID uuid.UUID) (*domain.Address, error) {
	row := s.db(ctx).QueryRow(ctx, `
		SELECT id, customer_id, full_name, line1, line2, city, country, phone, created_at
		FROM addresses WHERE id = $1 AND customer_id = $2`, addressID, customerID)

	var a domain.Address
	err := row.Scan(&a.ID, &a.CustomerID, &a.FullName, &a.Line1, &a.Line2, &a.City, &a.Country, &a.Phone, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderInvalidAddress
		}
		return nil, domain.Internal(err, "address.get", "failed to load address")
	}
	return &a, nil
}
