// Package telemetry holds Prometheus metrics for business-level
// observability of the fulfillment core.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Checkout funnel
	OrdersCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdi_orders_created_total",
		Help: "Orders successfully created from baskets.",
	})
	CheckoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdi_checkout_failures_total",
		Help: "Failed checkout attempts by reason code.",
	}, []string{"reason"})
	OrderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "verdi_order_value_cents",
		Help:    "Order totals in cents, shipping included.",
		Buckets: prometheus.ExponentialBuckets(500, 4, 8),
	})

	// Payments
	PaymentsCaptured = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdi_payments_captured_total",
		Help: "Provider captures confirmed and recorded locally.",
	})
	PaymentFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdi_payment_failures_total",
		Help: "Payments marked failed after a provider decline or timeout.",
	})

	// Domain events
	EventsDispatched = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdi_events_dispatched_total",
		Help: "Domain events delivered to handlers after commit.",
	}, []string{"event"})
	EventHandlerFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "verdi_event_handler_failures_total",
		Help: "Post-commit event handler errors (logged, non-fatal).",
	}, []string{"event"})
	StockRestorationFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdi_stock_restoration_failures_total",
		Help: "Cancelled-order stock restorations that could not be applied.",
	})

	// Cache
	CacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdi_cache_hits_total",
		Help: "Pipeline cache stage hits.",
	})
	CacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "verdi_cache_misses_total",
		Help: "Pipeline cache stage misses.",
	})
)
