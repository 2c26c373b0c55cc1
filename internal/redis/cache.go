package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// TagCache is a key-value cache with tag-based bulk invalidation. Each tag
// keeps a Redis set of its member keys; invalidating a tag deletes every
// member and the set itself. The cache is eventually consistent: a stale hit
// between a mutation and its invalidation call is expected.
type TagCache struct {
	client *redis.Client
}

// NewTagCache creates a TagCache over the client.
func NewTagCache(client *redis.Client) *TagCache {
	return &TagCache{client: client}
}

func cacheKey(key string) string { return "cache:" + key }
func tagKey(tag string) string   { return "cachetag:" + tag }

// Get returns the cached value and whether the key was present.
func (c *TagCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, cacheKey(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores value under key with the TTL and registers the key with each
// tag. Tag sets outlive their members slightly; invalidation tolerates
// already-expired members.
func (c *TagCache) Set(ctx context.Context, key string, value []byte, tags []string, ttl time.Duration) error {
	pipe := c.client.TxPipeline()
	pipe.Set(ctx, cacheKey(key), value, ttl)
	for _, tag := range tags {
		pipe.SAdd(ctx, tagKey(tag), cacheKey(key))
		pipe.Expire(ctx, tagKey(tag), ttl+time.Minute)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// InvalidateTag deletes every entry registered under the tag.
func (c *TagCache) InvalidateTag(ctx context.Context, tag string) error {
	members, err := c.client.SMembers(ctx, tagKey(tag)).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return err
	}

	pipe := c.client.TxPipeline()
	if len(members) > 0 {
		pipe.Del(ctx, members...)
	}
	pipe.Del(ctx, tagKey(tag))
	_, err = pipe.Exec(ctx)
	return err
}
