package billing

import (
	"context"
	"errors"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"

	"github.com/rowanmarsh/verdi/internal/domain"
)

// ProviderNameStripe is persisted on payment rows created by StripeProvider.
const ProviderNameStripe = "stripe"

// StripeProvider implements Provider using Stripe manual-capture
// PaymentIntents: CreateIntent authorizes, Capture settles.
type StripeProvider struct{}

// NewStripeProvider configures the Stripe SDK with the secret key and
// returns the provider.
func NewStripeProvider(secretKey string) *StripeProvider {
	stripe.Key = secretKey
	return &StripeProvider{}
}

// CreateIntent creates a manual-capture payment intent and returns its ID.
func (p *StripeProvider) CreateIntent(ctx context.Context, params CreateIntentParams) (string, error) {
	piParams := &stripe.PaymentIntentParams{
		Params:        stripe.Params{Context: ctx},
		Amount:        stripe.Int64(params.AmountCents),
		Currency:      stripe.String(params.Currency),
		CaptureMethod: stripe.String(string(stripe.PaymentIntentCaptureMethodManual)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if params.Description != "" {
		piParams.Description = stripe.String(params.Description)
	}
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}

	pi, err := paymentintent.New(piParams)
	if err != nil {
		return "", providerError(err, "billing.create_intent", "Payment.ProviderError", "Could not create payment with provider.")
	}
	return pi.ID, nil
}

// Capture settles the intent. An intent Stripe already reports as succeeded
// is treated as completed so a retried capture converges without
// re-charging.
func (p *StripeProvider) Capture(ctx context.Context, transactionID string) (Status, error) {
	current, err := p.IntentStatus(ctx, transactionID)
	if err != nil {
		return "", err
	}
	if current == StatusCompleted {
		return StatusCompleted, nil
	}

	pi, err := paymentintent.Capture(transactionID, &stripe.PaymentIntentCaptureParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return "", providerError(err, "billing.capture", "Payment.ProviderError", "Could not capture payment with provider.")
	}
	return statusFromIntent(pi.Status), nil
}

// IntentStatus re-queries the provider's current view of the intent.
func (p *StripeProvider) IntentStatus(ctx context.Context, transactionID string) (Status, error) {
	pi, err := paymentintent.Get(transactionID, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return "", providerError(err, "billing.intent_status", "Payment.ProviderError", "Could not query payment status.")
	}
	return statusFromIntent(pi.Status), nil
}

func statusFromIntent(status stripe.PaymentIntentStatus) Status {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return StatusCompleted
	case stripe.PaymentIntentStatusCanceled:
		return StatusFailed
	default:
		return StatusPending
	}
}

// providerError classifies Stripe failures. Anything that is not a definite
// provider response (timeouts, connection faults) is a Failure-kind error:
// the charge may or may not have gone through, and only a status re-query
// can tell.
func providerError(err error, op, reason, message string) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode > 0 && stripeErr.HTTPStatusCode < 500 {
		return domain.Failure(err, op, reason, stripeErr.Msg)
	}
	return domain.Failure(err, op, reason, message)
}
