package domain

import "github.com/google/uuid"

// Basket-related domain errors.
var (
	ErrBasketNotFound      = &Error{Code: ENOTFOUND, Reason: "Basket.NotFound", Message: "The requested basket was not found."}
	ErrBasketQuantity      = &Error{Code: EINVALID, Reason: "Basket.QuantityInvalid", Message: "Quantity must be greater than zero."}
	ErrBasketPriceNegative = &Error{Code: EINVALID, Reason: "Basket.PriceInvalid", Message: "Product price cannot be negative."}
)

// Basket is the transient per-customer cart held in the basket store.
// It is keyed by customer ID and is not the source of truth for price or
// stock at checkout time.
type Basket struct {
	CustomerID string       `json:"customerId"`
	Items      []BasketItem `json:"items"`
}

// BasketItem is one product line in a basket. UnitPriceCents is a snapshot
// taken when the item was added; checkout re-reads the live price.
type BasketItem struct {
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	CategoryName   string    `json:"categoryName"`
}

// NewBasket creates an empty basket for a customer.
func NewBasket(customerID string) *Basket {
	return &Basket{CustomerID: customerID}
}

// NewBasketItem validates and creates a basket line.
func NewBasketItem(productID uuid.UUID, name string, unitPriceCents int64, quantity int, category string) (BasketItem, error) {
	if quantity <= 0 {
		return BasketItem{}, ErrBasketQuantity
	}
	if unitPriceCents < 0 {
		return BasketItem{}, ErrBasketPriceNegative
	}
	return BasketItem{
		ProductID:      productID,
		ProductName:    name,
		UnitPriceCents: unitPriceCents,
		Quantity:       quantity,
		CategoryName:   category,
	}, nil
}

// AddItem appends a line or merges quantities when the product is already
// present. At most one line exists per product.
func (b *Basket) AddItem(item BasketItem) {
	for i := range b.Items {
		if b.Items[i].ProductID == item.ProductID {
			b.Items[i].Quantity += item.Quantity
			return
		}
	}
	b.Items = append(b.Items, item)
}

// RemoveItem drops the line for the given product, if present.
func (b *Basket) RemoveItem(productID uuid.UUID) {
	for i := range b.Items {
		if b.Items[i].ProductID == productID {
			b.Items = append(b.Items[:i], b.Items[i+1:]...)
			return
		}
	}
}

// Clear removes all lines.
func (b *Basket) Clear() {
	b.Items = nil
}

// IsEmpty reports whether the basket has no lines.
func (b *Basket) IsEmpty() bool {
	return len(b.Items) == 0
}
