package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Product-related domain errors.
var (
	ErrProductNotFound     = &Error{Code: ENOTFOUND, Reason: "Product.NotFound", Message: "Product not found"}
	ErrProductNameRequired = &Error{Code: EINVALID, Reason: "Product.NameRequired", Message: "Product name is required."}
	ErrProductSKURequired  = &Error{Code: EINVALID, Reason: "Product.SkuRequired", Message: "Product SKU is required."}
	ErrProductPriceInvalid = &Error{Code: EINVALID, Reason: "Product.PriceInvalid", Message: "Price or cost cannot be zero or negative."}
	ErrProductStockInvalid = &Error{Code: EINVALID, Reason: "Product.StockInvalid", Message: "Stock quantity cannot be negative."}
	ErrPriceBelowCost      = &Error{Code: EINVALID, Reason: "Product.PriceLessThanCost", Message: "Price cannot be less than cost price."}
	ErrDuplicateSKU        = &Error{Code: ECONFLICT, Reason: "Product.DuplicateSku", Message: "A product with this SKU already exists."}
)

// Product is the catalog entry carrying the authoritative stock counter.
// StockQuantity is mutated only through ReduceStock and RestoreStock so the
// non-negative invariant lives in exactly one place.
type Product struct {
	ID             uuid.UUID
	Name           string
	Description    string
	SKU            string
	PriceCents     int64
	CostPriceCents int64
	StockQuantity  int
	CategoryName   string
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewProduct validates and creates a product. Price must exceed cost at
// creation time; this is not re-checked at sale.
func NewProduct(id uuid.UUID, name, description, sku string, priceCents, costPriceCents int64, stockQuantity int, category string) (*Product, error) {
	if name == "" {
		return nil, ErrProductNameRequired
	}
	if sku == "" {
		return nil, ErrProductSKURequired
	}
	if priceCents <= 0 || costPriceCents <= 0 {
		return nil, ErrProductPriceInvalid
	}
	if priceCents < costPriceCents {
		return nil, ErrPriceBelowCost
	}
	if stockQuantity < 0 {
		return nil, ErrProductStockInvalid
	}
	return &Product{
		ID:             id,
		Name:           name,
		Description:    description,
		SKU:            sku,
		PriceCents:     priceCents,
		CostPriceCents: costPriceCents,
		StockQuantity:  stockQuantity,
		CategoryName:   category,
		Active:         true,
	}, nil
}

// Update replaces the mutable catalog fields, applying the same rules as
// creation.
func (p *Product) Update(name, description string, priceCents, costPriceCents int64, stockQuantity int) error {
	if name == "" {
		return ErrProductNameRequired
	}
	if priceCents <= 0 || costPriceCents <= 0 {
		return ErrProductPriceInvalid
	}
	if priceCents < costPriceCents {
		return ErrPriceBelowCost
	}
	if stockQuantity < 0 {
		return ErrProductStockInvalid
	}
	p.Name = name
	p.Description = description
	p.PriceCents = priceCents
	p.CostPriceCents = costPriceCents
	p.StockQuantity = stockQuantity
	return nil
}

// ReduceStock decrements stock by quantity. Fails when quantity is not
// positive or exceeds the current stock, leaving the counter untouched.
func (p *Product) ReduceStock(quantity int) error {
	if quantity <= 0 {
		return &Error{Code: EINVALID, Reason: "Product.InvalidQuantity", Message: "Quantity must be positive."}
	}
	if p.StockQuantity < quantity {
		return &Error{
			Code:    EINVALID,
			Reason:  "Product.LowStock",
			Message: fmt.Sprintf("Insufficient stock for %s. Available: %d", p.Name, p.StockQuantity),
		}
	}
	p.StockQuantity -= quantity
	return nil
}

// RestoreStock increments stock by quantity. Restoring is always safe, so
// there is no upper bound; non-positive quantities are a no-op.
func (p *Product) RestoreStock(quantity int) {
	if quantity > 0 {
		p.StockQuantity += quantity
	}
}

// Deactivate hides the product from the storefront without deleting it.
func (p *Product) Deactivate() {
	p.Active = false
}
