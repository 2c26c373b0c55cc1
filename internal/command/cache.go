package command

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rowanmarsh/verdi/internal/telemetry"
)

// Cache is the key-value cache with tag-based bulk invalidation the caching
// stage reads through. Implemented by redis.TagCache.
type Cache interface {
	// Get returns the stored value and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with a TTL and associates it with tags for
	// later bulk invalidation.
	Set(ctx context.Context, key string, value []byte, tags []string, ttl time.Duration) error

	// InvalidateTag removes every entry sharing the tag.
	InvalidateTag(ctx context.Context, tag string) error
}

// Cached serves read requests from the cache when the request type declares
// a cache key. On a hit the handler is never invoked; on a miss the handler
// runs and a successful result is stored under the key's tags. Requests that
// are not Cacheable pass straight through.
//
// Cache infrastructure errors are logged and treated as misses: a flaky
// cache must never fail a read that the database can serve.
func Cached[Req, Res any](cache Cache, log *slog.Logger) Middleware[Req, Res] {
	return func(next Handler[Req, Res]) Handler[Req, Res] {
		return func(ctx context.Context, req Req) (Res, error) {
			cacheable, ok := any(req).(Cacheable)
			if !ok {
				return next(ctx, req)
			}

			key := cacheable.CacheKey()
			data, hit, err := cache.Get(ctx, key)
			if err != nil {
				log.Warn("cache lookup failed", "key", key, "error", err)
			}
			if hit {
				var res Res
				if err := json.Unmarshal(data, &res); err == nil {
					telemetry.CacheHits.Inc()
					return res, nil
				}
				log.Warn("discarding undecodable cache entry", "key", key)
			}
			telemetry.CacheMisses.Inc()

			res, err := next(ctx, req)
			if err != nil {
				return res, err
			}

			encoded, err := json.Marshal(res)
			if err != nil {
				log.Warn("result not cacheable", "key", key, "error", err)
				return res, nil
			}
			if err := cache.Set(ctx, key, encoded, cacheable.CacheTags(), cacheable.CacheTTL()); err != nil {
				log.Warn("cache store failed", "key", key, "error", err)
			}
			return res, nil
		}
	}
}
