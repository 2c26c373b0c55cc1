// Package command composes the cross-cutting pipeline wrapped around every
// operation: validation → cache read → transactional execution. Stages are
// independent middleware values composed in a fixed order around a handler
// function, so ordering is explicit and each stage is testable in isolation.
package command

import (
	"context"
	"time"
)

// Handler executes one operation for a request type.
type Handler[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Middleware wraps a Handler with a cross-cutting stage.
type Middleware[Req, Res any] func(next Handler[Req, Res]) Handler[Req, Res]

// Chain applies middleware around h. The first middleware is outermost, so
//
//	Chain(h, Validate(...), Cached(...), Transactional(...))
//
// validates before consulting the cache and never opens a transaction for a
// cache hit.
func Chain[Req, Res any](h Handler[Req, Res], mw ...Middleware[Req, Res]) Handler[Req, Res] {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// Mutation marks request types that change state and therefore run inside a
// database transaction. Detection is by marker, not by inspecting business
// meaning.
type Mutation interface {
	Mutation()
}

// Cacheable marks read requests whose successful results may be cached.
// CacheKey must already incorporate the caller's identity when the operation
// is identity-sensitive; key derivation is explicit, never pulled from
// request context.
type Cacheable interface {
	CacheKey() string
	CacheTags() []string
	CacheTTL() time.Duration
}
