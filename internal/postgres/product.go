package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rowanmarsh/verdi/internal/domain"
)

const uniqueViolation = "23505"

// CreateProduct inserts a new catalog product.
func (s *Store) CreateProduct(ctx context.Context, p *domain.Product) error {
	_, err := s.db(ctx).Exec(ctx, `
		INSERT INTO products (id, name, description, sku, price_cents, cost_price_cents, stock_quantity, category_name, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Description, p.SKU, p.PriceCents, p.CostPriceCents, p.StockQuantity, p.CategoryName, p.Active,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateSKU
		}
		return domain.Internal(err, "product.create", "failed to save product")
	}
	return nil
}

// UpdateProduct persists the mutable catalog fields.
func (s *Store) UpdateProduct(ctx context.Context, p *domain.Product) error {
	tag, err := s.db(ctx).Exec(ctx, `
		UPDATE products
		SET name = $2, description = $3, price_cents = $4, cost_price_cents = $5,
		    stock_quantity = $6, active = $7, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Description, p.PriceCents, p.CostPriceCents, p.StockQuantity, p.Active,
	)
	if err != nil {
		return domain.Internal(err, "product.update", "failed to update product")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// GetProduct loads a product by ID.
func (s *Store) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	row := s.db(ctx).QueryRow(ctx, `
		SELECT id, name, description, sku, price_cents, cost_price_cents, stock_quantity, category_name, active, created_at, updated_at
		FROM products WHERE id = $1`, id)

	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &p.PriceCents, &p.CostPriceCents,
		&p.StockQuantity, &p.CategoryName, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.get", "failed to load product")
	}
	return &p, nil
}

// ListActiveProducts returns all active products.
func (s *Store) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db(ctx).Query(ctx, `
		SELECT id, name, description, sku, price_cents, cost_price_cents, stock_quantity, category_name, active, created_at, updated_at
		FROM products WHERE active ORDER BY name`)
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.SKU, &p.PriceCents, &p.CostPriceCents,
			&p.StockQuantity, &p.CategoryName, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, domain.Internal(err, "product.list", "failed to scan product")
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	return products, nil
}

// ReduceStock decrements a product's stock by quantity with a
// compare-and-decrement guard: the UPDATE only applies while enough stock
// remains, so two checkouts racing for the last unit serialize on the row
// and exactly one succeeds. Returns Product.LowStock when the guard rejects.
func (s *Store) ReduceStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return &domain.Error{Code: domain.EINVALID, Reason: "Product.InvalidQuantity", Message: "Quantity must be positive."}
	}

	tag, err := s.db(ctx).Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity - $2, updated_at = now()
		WHERE id = $1 AND stock_quantity >= $2`,
		productID, quantity,
	)
	if err != nil {
		return domain.Internal(err, "product.reduce_stock", "failed to decrement stock")
	}
	if tag.RowsAffected() == 0 {
		return &domain.Error{
			Code:    domain.EINVALID,
			Reason:  "Product.LowStock",
			Message: "Insufficient stock for one or more items.",
		}
	}
	return nil
}

// RestoreStock increments a product's stock unconditionally. Non-positive
// quantities are a no-op; restoring is always safe.
func (s *Store) RestoreStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return nil
	}
	tag, err := s.db(ctx).Exec(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $2, updated_at = now()
		WHERE id = $1`,
		productID, quantity,
	)
	if err != nil {
		return domain.Internal(err, "product.restore_stock", "failed to restore stock")
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}
