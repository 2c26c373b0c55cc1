// Package service implements the application operations, each composed with
// the command pipeline (validation → cache → transaction).
package service

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rowanmarsh/verdi/internal/command"
	"github.com/rowanmarsh/verdi/internal/domain"
)

// BasketStore is the key-value basket store capability. Implemented by
// redis.BasketStore.
type BasketStore interface {
	Get(ctx context.Context, customerID string) (*domain.Basket, error)
	Put(ctx context.Context, basket *domain.Basket) error
	Delete(ctx context.Context, customerID string) error
}

// AddBasketItemCommand adds a product line to a customer's basket; adding a
// product already present merges quantities.
type AddBasketItemCommand struct {
	CustomerID     string    `validate:"required"`
	ProductID      uuid.UUID `validate:"required"`
	ProductName    string    `validate:"required"`
	UnitPriceCents int64     `validate:"gte=0"`
	Quantity       int       `validate:"gt=0"`
	CategoryName   string
}

// RemoveBasketItemCommand drops a product line from a customer's basket.
type RemoveBasketItemCommand struct {
	CustomerID string    `validate:"required"`
	ProductID  uuid.UUID `validate:"required"`
}

// BasketService manages the transient per-customer basket. Basket writes
// never touch the relational store, so these commands run outside database
// transactions; last-write-wins per customer is acceptable.
type BasketService struct {
	baskets BasketStore
	log     *slog.Logger

	addItem    command.Handler[AddBasketItemCommand, *domain.Basket]
	removeItem command.Handler[RemoveBasketItemCommand, *domain.Basket]
}

// NewBasketService creates a BasketService with validated commands.
func NewBasketService(baskets BasketStore, v *validator.Validate, log *slog.Logger) *BasketService {
	s := &BasketService{baskets: baskets, log: log}

	s.addItem = command.Chain(s.handleAddItem,
		command.Validate[AddBasketItemCommand, *domain.Basket](v))
	s.removeItem = command.Chain(s.handleRemoveItem,
		command.Validate[RemoveBasketItemCommand, *domain.Basket](v))

	return s
}

// Get returns the customer's basket, empty when none is stored.
func (s *BasketService) Get(ctx context.Context, customerID string) (*domain.Basket, error) {
	if customerID == "" {
		return nil, domain.Unauthorized("basket.get", "Customer identity is required.")
	}
	return s.baskets.Get(ctx, customerID)
}

// AddItem runs AddBasketItemCommand through the pipeline.
func (s *BasketService) AddItem(ctx context.Context, cmd AddBasketItemCommand) (*domain.Basket, error) {
	return s.addItem(ctx, cmd)
}

// RemoveItem runs RemoveBasketItemCommand through the pipeline.
func (s *BasketService) RemoveItem(ctx context.Context, cmd RemoveBasketItemCommand) (*domain.Basket, error) {
	return s.removeItem(ctx, cmd)
}

// Clear deletes the customer's basket.
func (s *BasketService) Clear(ctx context.Context, customerID string) error {
	if customerID == "" {
		return domain.Unauthorized("basket.clear", "Customer identity is required.")
	}
	return s.baskets.Delete(ctx, customerID)
}

func (s *BasketService) handleAddItem(ctx context.Context, cmd AddBasketItemCommand) (*domain.Basket, error) {
	item, err := domain.NewBasketItem(cmd.ProductID, cmd.ProductName, cmd.UnitPriceCents, cmd.Quantity, cmd.CategoryName)
	if err != nil {
		return nil, err
	}

	basket, err := s.baskets.Get(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	basket.AddItem(item)

	if err := s.baskets.Put(ctx, basket); err != nil {
		return nil, err
	}
	s.log.Debug("basket item added", "customer_id", cmd.CustomerID, "product_id", cmd.ProductID, "quantity", cmd.Quantity)
	return basket, nil
}

func (s *BasketService) handleRemoveItem(ctx context.Context, cmd RemoveBasketItemCommand) (*domain.Basket, error) {
	basket, err := s.baskets.Get(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	basket.RemoveItem(cmd.ProductID)

	if err := s.baskets.Put(ctx, basket); err != nil {
		return nil, err
	}
	return basket, nil
}
