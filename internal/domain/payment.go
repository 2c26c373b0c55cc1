package domain

import (
	"time"

	"github.com/google/uuid"
)

// PaymentStatus values are wire-stable strings persisted as-is.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "Pending"
	PaymentCompleted PaymentStatus = "Completed"
	PaymentFailed    PaymentStatus = "Failed"
	PaymentRefunded  PaymentStatus = "Refunded"
	PaymentCanceled  PaymentStatus = "Canceled"
)

// Payment-related domain errors.
var (
	ErrPaymentNotFound         = &Error{Code: ENOTFOUND, Reason: "Payment.NotFound", Message: "The payment record was not found."}
	ErrPaymentAlreadyProcessed = &Error{Code: ECONFLICT, Reason: "Payment.AlreadyProcessed", Message: "This payment has already been processed."}
	ErrPaymentAmountMismatch   = &Error{Code: EINVALID, Reason: "Payment.AmountMismatch", Message: "Payment amount must equal the order total."}
)

// Payment events.

// PaymentCreatedEvent is raised when a provider intent is recorded locally.
type PaymentCreatedEvent struct {
	PaymentID   uuid.UUID
	OrderID     uuid.UUID
	AmountCents int64
}

func (PaymentCreatedEvent) EventName() string { return "payment.created" }

// PaymentCompletedEvent is raised the first time a payment completes.
type PaymentCompletedEvent struct {
	PaymentID uuid.UUID
	OrderID   uuid.UUID
}

func (PaymentCompletedEvent) EventName() string { return "payment.completed" }

// PaymentFailedEvent carries the provider's failure reason.
type PaymentFailedEvent struct {
	PaymentID uuid.UUID
	OrderID   uuid.UUID
	Reason    string
}

func (PaymentFailedEvent) EventName() string { return "payment.failed" }

// Payment correlates one order to one external provider transaction.
// Immutable once Completed.
type Payment struct {
	Events

	ID            uuid.UUID
	OrderID       uuid.UUID
	TransactionID string // provider transaction/intent ID
	AmountCents   int64
	Currency      string
	Status        PaymentStatus
	Provider      string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewPayment records a provider intent in Pending status and raises a
// created event.
func NewPayment(orderID uuid.UUID, transactionID string, amountCents int64, currency, provider string) *Payment {
	p := &Payment{
		ID:            uuid.New(),
		OrderID:       orderID,
		TransactionID: transactionID,
		AmountCents:   amountCents,
		Currency:      currency,
		Status:        PaymentPending,
		Provider:      provider,
	}
	p.raise(PaymentCreatedEvent{PaymentID: p.ID, OrderID: orderID, AmountCents: amountCents})
	return p
}

// MarkCompleted transitions to Completed. Idempotent: the completed event is
// raised only on the first call, subsequent calls are no-ops.
func (p *Payment) MarkCompleted() {
	if p.Status == PaymentCompleted {
		return
	}
	p.Status = PaymentCompleted
	p.raise(PaymentCompletedEvent{PaymentID: p.ID, OrderID: p.OrderID})
}

// MarkFailed transitions unconditionally to Failed with the given reason.
func (p *Payment) MarkFailed(reason string) {
	p.Status = PaymentFailed
	p.raise(PaymentFailedEvent{PaymentID: p.ID, OrderID: p.OrderID, Reason: reason})
}
