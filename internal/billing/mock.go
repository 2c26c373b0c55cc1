package billing

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/rowanmarsh/verdi/internal/domain"
)

// MockProvider is an in-memory billing provider for tests and local
// development. Default behavior simulates a provider that authorizes every
// intent and completes every capture; individual methods can be overridden
// per test via the ...Func fields.
type MockProvider struct {
	// CreateIntentFunc allows customizing intent creation behavior.
	CreateIntentFunc func(ctx context.Context, params CreateIntentParams) (string, error)

	// CaptureFunc allows customizing capture behavior.
	CaptureFunc func(ctx context.Context, transactionID string) (Status, error)

	// IntentStatusFunc allows customizing status lookup behavior.
	IntentStatusFunc func(ctx context.Context, transactionID string) (Status, error)

	mu sync.Mutex

	// Intents stores the status of every created intent for retrieval.
	Intents map[string]Status

	// CallLog tracks method calls for test assertions.
	CallLog []string
}

// NewMockProvider creates a new mock billing provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{Intents: make(map[string]Status)}
}

// CreateIntent records a pending intent and returns a generated ID.
func (m *MockProvider) CreateIntent(ctx context.Context, params CreateIntentParams) (string, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("CreateIntent(%d, %s)", params.AmountCents, params.Currency))
	m.mu.Unlock()

	if m.CreateIntentFunc != nil {
		return m.CreateIntentFunc(ctx, params)
	}

	id := "pi_" + uuid.NewString()
	m.mu.Lock()
	m.Intents[id] = StatusPending
	m.mu.Unlock()
	return id, nil
}

// Capture completes a known intent; unknown intents fail like a provider
// rejection would.
func (m *MockProvider) Capture(ctx context.Context, transactionID string) (Status, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("Capture(%s)", transactionID))
	m.mu.Unlock()

	if m.CaptureFunc != nil {
		return m.CaptureFunc(ctx, transactionID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.Intents[transactionID]; !ok {
		return "", domain.Failure(nil, "billing.capture", "Payment.ProviderError", "Unknown transaction.")
	}
	m.Intents[transactionID] = StatusCompleted
	return StatusCompleted, nil
}

// IntentStatus returns the stored status of an intent.
func (m *MockProvider) IntentStatus(ctx context.Context, transactionID string) (Status, error) {
	m.mu.Lock()
	m.CallLog = append(m.CallLog, fmt.Sprintf("IntentStatus(%s)", transactionID))
	m.mu.Unlock()

	if m.IntentStatusFunc != nil {
		return m.IntentStatusFunc(ctx, transactionID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	status, ok := m.Intents[transactionID]
	if !ok {
		return "", domain.Failure(nil, "billing.intent_status", "Payment.ProviderError", "Unknown transaction.")
	}
	return status, nil
}
