package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/event"
	"github.com/rowanmarsh/verdi/internal/telemetry"
)

// StockRestorer restores stock released by a cancelled order. Implemented by
// postgres.Store.
type StockRestorer interface {
	RestoreStock(ctx context.Context, productID uuid.UUID, quantity int) error
}

// RegisterEventHandlers wires the in-process event handlers. Stock
// restoration runs after the cancellation has committed; a failure here
// leaves the counter low until reconciliation, never an oversell, so it is
// logged and counted rather than retried inline.
func RegisterEventHandlers(d *event.Dispatcher, store StockRestorer, log *slog.Logger) {
	d.Subscribe(domain.OrderItemCancelledEvent{}.EventName(), func(ctx context.Context, ev domain.Event) error {
		cancelled, ok := ev.(domain.OrderItemCancelledEvent)
		if !ok {
			return nil
		}
		if err := store.RestoreStock(ctx, cancelled.ProductID, cancelled.Quantity); err != nil {
			telemetry.StockRestorationFailures.Inc()
			log.Error("stock restoration failed",
				"product_id", cancelled.ProductID,
				"quantity", cancelled.Quantity,
				"error", err)
			return err
		}
		log.Info("stock restored", "product_id", cancelled.ProductID, "quantity", cancelled.Quantity)
		return nil
	})
}
