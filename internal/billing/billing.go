// Package billing defines the payment provider interface for creating and
// capturing payment intents. Implementations can use Stripe, PayPal, etc.
package billing

import "context"

// Status is the provider's view of a transaction. The provider is the
// source of truth; local payment state mirrors it.
type Status string

const (
	// StatusPending means the intent exists but has not been captured.
	StatusPending Status = "pending"

	// StatusCompleted means the provider confirmed the capture.
	StatusCompleted Status = "completed"

	// StatusFailed means the provider declined or cancelled the transaction.
	StatusFailed Status = "failed"
)

// CreateIntentParams describes the charge to authorize.
type CreateIntentParams struct {
	// AmountCents is the amount in the smallest currency unit.
	AmountCents int64

	// Currency code (ISO 4217 lowercase), e.g. "usd".
	Currency string

	// Description appears on the provider dashboard.
	Description string

	// Metadata for reconciliation (include order_id).
	Metadata map[string]string
}

// Provider is the payment processing interface. Every method must surface
// provider timeouts as a Failure-kind domain error rather than assuming
// success.
type Provider interface {
	// CreateIntent registers a charge with the provider and returns its
	// transaction ID. No money moves until Capture.
	CreateIntent(ctx context.Context, params CreateIntentParams) (string, error)

	// Capture settles a previously created intent and returns the
	// provider-confirmed status. Capturing an already-captured intent must
	// report StatusCompleted, not an error, so retries converge.
	Capture(ctx context.Context, transactionID string) (Status, error)

	// IntentStatus re-queries the provider's current view of an intent.
	// Used to make capture retries idempotent instead of re-charging.
	IntentStatus(ctx context.Context, transactionID string) (Status, error)
}
