package service

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rowanmarsh/verdi/internal/billing"
	"github.com/rowanmarsh/verdi/internal/command"
	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/event"
	"github.com/rowanmarsh/verdi/internal/telemetry"
)

// PaymentStore is the relational store capability payments need.
// Implemented by postgres.Store.
type PaymentStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	CreatePayment(ctx context.Context, p *domain.Payment) error
	GetPaymentByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error)
	GetPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error)
	UpdatePaymentStatus(ctx context.Context, p *domain.Payment) error
}

// CreatePaymentCommand registers a provider intent for an order's full total.
type CreatePaymentCommand struct {
	OrderID uuid.UUID `validate:"required"`
}

// Mutation marks the command for transactional execution.
func (CreatePaymentCommand) Mutation() {}

// CapturePaymentCommand settles a previously created intent.
type CapturePaymentCommand struct {
	TransactionID string `validate:"required"`
}

// recordCaptureCommand persists a provider-confirmed capture outcome. The
// provider call itself runs before this command so the external round-trip
// never holds a database transaction open.
type recordCaptureCommand struct {
	TransactionID string
	Outcome       billing.Status
}

func (recordCaptureCommand) Mutation() {}

// PaymentIntent is the result of creating a payment.
type PaymentIntent struct {
	PaymentID     uuid.UUID `json:"paymentId"`
	TransactionID string    `json:"transactionId"`
	AmountCents   int64     `json:"amountCents"`
	Currency      string    `json:"currency"`
}

// CaptureResult reports the recorded outcome of a capture.
type CaptureResult struct {
	PaymentID  uuid.UUID            `json:"paymentId"`
	OrderID    uuid.UUID            `json:"orderId"`
	CustomerID uuid.UUID            `json:"customerId"`
	Status     domain.PaymentStatus `json:"status"`
}

// PaymentService correlates orders with provider transactions. The provider
// is the source of truth for money movement; local rows mirror its answers
// and are only written inside transactions.
type PaymentService struct {
	store    PaymentStore
	provider billing.Provider
	cache    command.Cache
	currency string
	name     string
	log      *slog.Logger

	create  command.Handler[CreatePaymentCommand, PaymentIntent]
	capture command.Handler[CapturePaymentCommand, CaptureResult]
	record  command.Handler[recordCaptureCommand, CaptureResult]
}

// NewPaymentService wires the payment pipelines. providerName is persisted
// on payment rows (e.g. billing.ProviderNameStripe); currency is the ISO
// 4217 code charges are made in.
func NewPaymentService(
	store PaymentStore,
	provider billing.Provider,
	cache command.Cache,
	tx command.Transactor,
	dispatcher *event.Dispatcher,
	v *validator.Validate,
	providerName, currency string,
	log *slog.Logger,
) *PaymentService {
	s := &PaymentService{
		store:    store,
		provider: provider,
		cache:    cache,
		currency: currency,
		name:     providerName,
		log:      log,
	}

	s.create = command.Chain(s.handleCreate,
		command.Validate[CreatePaymentCommand, PaymentIntent](v),
		command.Transactional[CreatePaymentCommand, PaymentIntent](tx, dispatcher, log))

	s.capture = command.Chain(s.handleCapture,
		command.Validate[CapturePaymentCommand, CaptureResult](v))

	s.record = command.Chain(s.handleRecordCapture,
		command.Transactional[recordCaptureCommand, CaptureResult](tx, dispatcher, log))

	return s
}

// Create authorizes the order total with the provider and records the
// pending payment.
func (s *PaymentService) Create(ctx context.Context, cmd CreatePaymentCommand) (PaymentIntent, error) {
	return s.create(ctx, cmd)
}

// Capture settles the intent with the provider, then records the confirmed
// outcome locally. Retrying a capture that already succeeded converges on
// Completed without charging twice: the provider re-reports success and the
// local transition is idempotent.
func (s *PaymentService) Capture(ctx context.Context, cmd CapturePaymentCommand) (CaptureResult, error) {
	result, err := s.capture(ctx, cmd)
	if err != nil {
		return CaptureResult{}, err
	}

	if err := s.cache.InvalidateTag(ctx, orderTag(result.OrderID)); err != nil {
		s.log.Warn("cache invalidation failed", "order_id", result.OrderID, "error", err)
	}
	if err := s.cache.InvalidateTag(ctx, customerTag(result.CustomerID)); err != nil {
		s.log.Warn("cache invalidation failed", "customer_id", result.CustomerID, "error", err)
	}
	return result, nil
}

func (s *PaymentService) handleCreate(ctx context.Context, cmd CreatePaymentCommand) (PaymentIntent, error) {
	order, err := s.store.GetOrder(ctx, cmd.OrderID)
	if err != nil {
		return PaymentIntent{}, err
	}
	if order.Status != domain.OrderPending {
		return PaymentIntent{}, domain.Conflict("payment.create", "Payment.OrderNotPayable", "Only pending orders can be paid.")
	}

	// A pending or completed payment already covers this order; only a
	// failed one may be superseded by a fresh intent.
	existing, err := s.store.GetPaymentByOrderID(ctx, cmd.OrderID)
	if err != nil && !domain.IsCode(err, domain.ENOTFOUND) {
		return PaymentIntent{}, err
	}
	if existing != nil && existing.Status != domain.PaymentFailed && existing.Status != domain.PaymentCanceled {
		return PaymentIntent{}, domain.ErrPaymentAlreadyProcessed
	}

	total := order.TotalCents()
	transactionID, err := s.provider.CreateIntent(ctx, billing.CreateIntentParams{
		AmountCents: total,
		Currency:    s.currency,
		Description: "Order " + order.ID.String(),
		Metadata:    map[string]string{"order_id": order.ID.String()},
	})
	if err != nil {
		return PaymentIntent{}, err
	}

	payment := domain.NewPayment(order.ID, transactionID, total, s.currency, s.name)
	if err := s.store.CreatePayment(ctx, payment); err != nil {
		return PaymentIntent{}, err
	}
	event.Record(ctx, payment)

	s.log.Info("payment intent created", "payment_id", payment.ID, "order_id", order.ID, "amount_cents", total)
	return PaymentIntent{
		PaymentID:     payment.ID,
		TransactionID: transactionID,
		AmountCents:   total,
		Currency:      s.currency,
	}, nil
}

func (s *PaymentService) handleCapture(ctx context.Context, cmd CapturePaymentCommand) (CaptureResult, error) {
	outcome, err := s.provider.Capture(ctx, cmd.TransactionID)
	if err != nil {
		// Indeterminate: the charge may have gone through. Nothing is
		// written locally; a retried capture re-queries the provider.
		return CaptureResult{}, err
	}
	return s.record(ctx, recordCaptureCommand{TransactionID: cmd.TransactionID, Outcome: outcome})
}

func (s *PaymentService) handleRecordCapture(ctx context.Context, cmd recordCaptureCommand) (CaptureResult, error) {
	payment, err := s.store.GetPaymentByTransactionID(ctx, cmd.TransactionID)
	if err != nil {
		return CaptureResult{}, err
	}
	order, err := s.store.GetOrder(ctx, payment.OrderID)
	if err != nil {
		return CaptureResult{}, err
	}

	result := CaptureResult{
		PaymentID:  payment.ID,
		OrderID:    order.ID,
		CustomerID: order.CustomerID,
	}

	switch cmd.Outcome {
	case billing.StatusCompleted:
		alreadyCompleted := payment.Status == domain.PaymentCompleted
		payment.MarkCompleted()
		if !alreadyCompleted {
			if err := s.store.UpdatePaymentStatus(ctx, payment); err != nil {
				return CaptureResult{}, err
			}
			telemetry.PaymentsCaptured.Inc()
		}

		previous := order.Status
		if err := order.UpdateStatus(domain.OrderProcessing); err != nil {
			// Money moved but the order cannot advance (e.g. cancelled in
			// the meantime). Keep the payment record; a refund is an
			// operator decision, not an automatic rollback.
			s.log.Warn("captured payment for non-advanceable order",
				"order_id", order.ID, "order_status", order.Status, "error", err)
		} else if order.Status != previous {
			if err := s.store.UpdateOrderStatus(ctx, order.ID, order.Status); err != nil {
				return CaptureResult{}, err
			}
		}

		event.Record(ctx, payment)
		event.Record(ctx, order)
		result.Status = payment.Status
		s.log.Info("payment captured", "payment_id", payment.ID, "order_id", order.ID)
		return result, nil

	case billing.StatusFailed:
		if payment.Status == domain.PaymentCompleted {
			return CaptureResult{}, domain.ErrPaymentAlreadyProcessed
		}
		payment.MarkFailed("provider declined the capture")
		if err := s.store.UpdatePaymentStatus(ctx, payment); err != nil {
			return CaptureResult{}, err
		}
		event.Record(ctx, payment)
		telemetry.PaymentFailures.Inc()
		result.Status = payment.Status
		s.log.Warn("payment capture declined", "payment_id", payment.ID, "order_id", order.ID)
		return result, nil

	default:
		return CaptureResult{}, domain.Failure(nil, "payment.capture", "Payment.CaptureIncomplete", "The provider did not complete the capture.")
	}
}
