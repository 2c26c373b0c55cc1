// Package redis implements the basket store and the tag-based query cache
// on a shared Redis client.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rowanmarsh/verdi/internal/domain"
)

// DefaultBasketTTL keeps abandoned baskets for 30 days before they expire.
// Loss past the TTL is acceptable: baskets are recreated empty on demand.
const DefaultBasketTTL = 30 * 24 * time.Hour

// BasketStore holds per-customer baskets as JSON values with a TTL. It has
// no transactional coupling with the relational store; a stale basket left
// by a crash self-heals on the next read because the order already exists.
type BasketStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewBasketStore creates a basket store with the given TTL; ttl <= 0 uses
// DefaultBasketTTL.
func NewBasketStore(client *redis.Client, ttl time.Duration) *BasketStore {
	if ttl <= 0 {
		ttl = DefaultBasketTTL
	}
	return &BasketStore{client: client, ttl: ttl}
}

func basketKey(customerID string) string {
	return "basket:" + customerID
}

// Get loads a customer's basket, returning a fresh empty basket when none
// is stored.
func (s *BasketStore) Get(ctx context.Context, customerID string) (*domain.Basket, error) {
	data, err := s.client.Get(ctx, basketKey(customerID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.NewBasket(customerID), nil
	}
	if err != nil {
		return nil, domain.Internal(err, "basket.get", "failed to load basket")
	}

	var basket domain.Basket
	if err := json.Unmarshal(data, &basket); err != nil {
		return nil, domain.Internal(err, "basket.get", "failed to decode basket")
	}
	return &basket, nil
}

// Put stores the basket, resetting its TTL.
func (s *BasketStore) Put(ctx context.Context, basket *domain.Basket) error {
	data, err := json.Marshal(basket)
	if err != nil {
		return domain.Internal(err, "basket.put", "failed to encode basket")
	}
	if err := s.client.Set(ctx, basketKey(basket.CustomerID), data, s.ttl).Err(); err != nil {
		return domain.Internal(err, "basket.put", fmt.Sprintf("failed to store basket for customer %s", basket.CustomerID))
	}
	return nil
}

// Delete removes a customer's basket. Deleting an absent basket succeeds.
func (s *BasketStore) Delete(ctx context.Context, customerID string) error {
	if err := s.client.Del(ctx, basketKey(customerID)).Err(); err != nil {
		return domain.Internal(err, "basket.delete", "failed to delete basket")
	}
	return nil
}
