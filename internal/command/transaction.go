package command

import (
	"context"
	"log/slog"

	"github.com/rowanmarsh/verdi/internal/event"
)

// Transactor begins a database transaction, runs fn with the transaction
// carried in the context, commits when fn returns nil and rolls back
// otherwise. Implementations must also roll back when fn panics, before the
// panic propagates. Implemented by postgres.Store.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Transactional wraps Mutation requests in one database transaction and is
// the innermost stage, so a rollback never leaves a half-committed state
// visible to the cache layer. Non-Mutation requests pass straight through.
//
// Events queued by aggregates during the handler are dispatched only after
// the commit succeeds; on rollback they are discarded unfired.
func Transactional[Req, Res any](tx Transactor, dispatcher *event.Dispatcher, log *slog.Logger) Middleware[Req, Res] {
	return func(next Handler[Req, Res]) Handler[Req, Res] {
		return func(ctx context.Context, req Req) (Res, error) {
			if _, ok := any(req).(Mutation); !ok {
				return next(ctx, req)
			}

			ctx, rec := event.WithRecorder(ctx)

			var res Res
			err := tx.WithinTx(ctx, func(ctx context.Context) error {
				var handlerErr error
				res, handlerErr = next(ctx, req)
				return handlerErr
			})
			if err != nil {
				var zero Res
				return zero, err
			}

			dispatcher.Dispatch(ctx, rec.Drain())
			return res, nil
		}
	}
}
