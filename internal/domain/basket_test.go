package domain_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rowanmarsh/verdi/internal/domain"
)

func TestNewBasketItem_Validation(t *testing.T) {
	_, err := domain.NewBasketItem(uuid.New(), "Beans", 1000, 0, "coffee")
	assert.ErrorIs(t, err, domain.ErrBasketQuantity)

	_, err = domain.NewBasketItem(uuid.New(), "Beans", -1, 1, "coffee")
	assert.ErrorIs(t, err, domain.ErrBasketPriceNegative)

	item, err := domain.NewBasketItem(uuid.New(), "Beans", 1000, 2, "coffee")
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestBasket_AddItem_MergesSameProduct(t *testing.T) {
	basket := domain.NewBasket("customer-1")
	productID := uuid.New()

	first, err := domain.NewBasketItem(productID, "Beans", 1000, 2, "coffee")
	require.NoError(t, err)
	second, err := domain.NewBasketItem(productID, "Beans", 1000, 3, "coffee")
	require.NoError(t, err)

	basket.AddItem(first)
	basket.AddItem(second)

	require.Len(t, basket.Items, 1, "same product must merge into one line")
	assert.Equal(t, 5, basket.Items[0].Quantity)
}

func TestBasket_RemoveItem(t *testing.T) {
	basket := domain.NewBasket("customer-1")
	keep, drop := uuid.New(), uuid.New()

	for _, id := range []uuid.UUID{keep, drop} {
		item, err := domain.NewBasketItem(id, "Beans", 1000, 1, "coffee")
		require.NoError(t, err)
		basket.AddItem(item)
	}

	basket.RemoveItem(drop)
	require.Len(t, basket.Items, 1)
	assert.Equal(t, keep, basket.Items[0].ProductID)

	// Removing an absent product is a no-op.
	basket.RemoveItem(drop)
	assert.Len(t, basket.Items, 1)
}

func TestBasket_ClearAndIsEmpty(t *testing.T) {
	basket := domain.NewBasket("customer-1")
	assert.True(t, basket.IsEmpty())

	item, err := domain.NewBasketItem(uuid.New(), "Beans", 1000, 1, "coffee")
	require.NoError(t, err)
	basket.AddItem(item)
	assert.False(t, basket.IsEmpty())

	basket.Clear()
	assert.True(t, basket.IsEmpty())
}
