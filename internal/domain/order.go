package domain

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus values are wire-stable strings persisted as-is.
type OrderStatus string

const (
	OrderPending    OrderStatus = "Pending"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
	OrderReturned   OrderStatus = "Returned"
)

// orderStatusRank orders the forward path of the fulfillment machine.
// Cancelled and Returned are side branches, not forward states.
var orderStatusRank = map[OrderStatus]int{
	OrderPending:    0,
	OrderProcessing: 1,
	OrderShipped:    2,
	OrderDelivered:  3,
}

// ValidOrderStatus reports whether s is a known persisted status value.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled, OrderReturned:
		return true
	}
	return false
}

// Order-related domain errors.
var (
	ErrOrderNotFound        = &Error{Code: ENOTFOUND, Reason: "Order.NotFound", Message: "The requested order was not found."}
	ErrAddressRequired      = &Error{Code: EINVALID, Reason: "Order.AddressRequired", Message: "Shipping address is required."}
	ErrShippingFeeNegative  = &Error{Code: EINVALID, Reason: "Order.ShippingFeeNegative", Message: "Shipping fee cannot be negative."}
	ErrCustomerRequired     = &Error{Code: EINVALID, Reason: "Order.CustomerRequired", Message: "A valid customer ID is required."}
	ErrItemQuantityInvalid  = &Error{Code: EINVALID, Reason: "Order.ItemQuantityInvalid", Message: "Quantity must be at least 1."}
	ErrItemPriceInvalid     = &Error{Code: EINVALID, Reason: "Order.PriceInvalid", Message: "Price or cost cannot be zero or negative."}
	ErrItemProductRequired  = &Error{Code: EINVALID, Reason: "Order.ProductRequired", Message: "Product ID is required."}
	ErrCannotCancel         = &Error{Code: ECONFLICT, Reason: "Order.CannotCancel", Message: "Order cannot be cancelled because it has already been shipped or delivered."}
	ErrInvalidTransition    = &Error{Code: EINVALID, Reason: "Order.InvalidStatusTransition", Message: "Cannot move the order back to a previous stage."}
	ErrFinalStateReached    = &Error{Code: EINVALID, Reason: "Order.FinalStateReached", Message: "Cannot change the status of a completed or cancelled order."}
	ErrOrderStatusUnknown   = &Error{Code: EINVALID, Reason: "Order.UnknownStatus", Message: "Unknown order status."}
	ErrOrderInvalidAddress  = &Error{Code: EINVALID, Reason: "Order.InvalidAddress", Message: "The selected address is invalid."}
	ErrOrderEmptyBasket     = &Error{Code: EINVALID, Reason: "Order.EmptyBasket", Message: "Your basket is empty."}
)

// Order events.

// OrderItemAddedEvent is raised when an item is appended at creation time.
type OrderItemAddedEvent struct {
	ProductID uuid.UUID
	Quantity  int
}

func (OrderItemAddedEvent) EventName() string { return "order.item_added" }

// OrderItemCancelledEvent is raised per item when an order is cancelled.
// Handlers restore the item's stock after the cancellation commits.
type OrderItemCancelledEvent struct {
	ProductID uuid.UUID
	Quantity  int
}

func (OrderItemCancelledEvent) EventName() string { return "order.item_cancelled" }

// OrderStatusChangedEvent is raised for every accepted status transition.
type OrderStatusChangedEvent struct {
	OrderID   uuid.UUID
	NewStatus OrderStatus
}

func (OrderStatusChangedEvent) EventName() string { return "order.status_changed" }

// OrderItem is one line of a committed order. Prices are snapshots taken
// from the live product at checkout, not from the basket.
type OrderItem struct {
	ID                  uuid.UUID
	ProductID           uuid.UUID
	Quantity            int
	UnitPriceCents      int64
	CostPriceCents      int64
}

// TotalCents is the line total.
func (i OrderItem) TotalCents() int64 {
	return i.UnitPriceCents * int64(i.Quantity)
}

// Order is the durable purchase aggregate. Its item list is immutable after
// creation; only status transitions mutate it, and cancellation compensates
// stock through events rather than touching items.
type Order struct {
	Events

	ID              uuid.UUID
	CustomerID      uuid.UUID
	AddressID       uuid.UUID
	ShippingFeeCents int64
	Status          OrderStatus
	Items           []OrderItem
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrder validates and creates an order in Pending status. The status is
// never settable externally at creation.
func NewOrder(id, customerID, addressID uuid.UUID, shippingFeeCents int64) (*Order, error) {
	if addressID == uuid.Nil {
		return nil, ErrAddressRequired
	}
	if shippingFeeCents < 0 {
		return nil, ErrShippingFeeNegative
	}
	if customerID == uuid.Nil {
		return nil, ErrCustomerRequired
	}
	return &Order{
		ID:               id,
		CustomerID:       customerID,
		AddressID:        addressID,
		ShippingFeeCents: shippingFeeCents,
		Status:           OrderPending,
	}, nil
}

// TotalCents is always recomputed from items plus shipping, never stored.
func (o *Order) TotalCents() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.TotalCents()
	}
	return total + o.ShippingFeeCents
}

// AddItem appends an order line with live price and cost snapshots and
// raises an item-added event.
func (o *Order) AddItem(productID uuid.UUID, quantity int, unitPriceCents, costPriceCents int64) error {
	if quantity <= 0 {
		return ErrItemQuantityInvalid
	}
	if unitPriceCents <= 0 || costPriceCents <= 0 {
		return ErrItemPriceInvalid
	}
	if productID == uuid.Nil {
		return ErrItemProductRequired
	}

	o.Items = append(o.Items, OrderItem{
		ID:             uuid.New(),
		ProductID:      productID,
		Quantity:       quantity,
		UnitPriceCents: unitPriceCents,
		CostPriceCents: costPriceCents,
	})
	o.raise(OrderItemAddedEvent{ProductID: productID, Quantity: quantity})
	return nil
}

// UpdateStatus drives the fulfillment state machine:
//
//	Pending → Processing → Shipped → Delivered
//
// with Cancelled and Returned as side branches. Forward transitions are
// monotonic; Delivered and Cancelled are terminal. Setting the current
// status again is an idempotent no-op.
func (o *Order) UpdateStatus(newStatus OrderStatus) error {
	if !ValidOrderStatus(newStatus) {
		return ErrOrderStatusUnknown
	}

	if newStatus == OrderCancelled {
		if o.Status == OrderShipped || o.Status == OrderDelivered {
			return ErrCannotCancel
		}
		if o.Status == OrderCancelled {
			return nil
		}
		// Stock restoration happens asynchronously after commit so a failed
		// restoration cannot roll back the cancellation itself.
		for _, item := range o.Items {
			o.raise(OrderItemCancelledEvent{ProductID: item.ProductID, Quantity: item.Quantity})
		}
	}

	if o.Status == OrderCancelled || o.Status == OrderDelivered {
		return ErrFinalStateReached
	}
	if o.Status == newStatus {
		return nil
	}

	// Shipping cannot be undone physically; moving backwards would
	// desynchronize from the real-world logistics process.
	newRank, newForward := orderStatusRank[newStatus]
	curRank, curForward := orderStatusRank[o.Status]
	if newForward && curForward && newRank < curRank {
		return ErrInvalidTransition
	}

	o.Status = newStatus
	o.raise(OrderStatusChangedEvent{OrderID: o.ID, NewStatus: newStatus})
	return nil
}
