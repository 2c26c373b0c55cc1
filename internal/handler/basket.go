package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rowanmarsh/verdi/internal/service"
)

// GetBasket handles GET /api/basket.
func (h *Handler) GetBasket(c echo.Context) error {
	customer, err := customerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	basket, err := h.baskets.Get(c.Request().Context(), customer.String())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, basket)
}

type addBasketItemRequest struct {
	ProductID      uuid.UUID `json:"productId"`
	ProductName    string    `json:"productName"`
	UnitPriceCents int64     `json:"unitPriceCents"`
	Quantity       int       `json:"quantity"`
	CategoryName   string    `json:"categoryName"`
}

// AddBasketItem handles POST /api/basket/items.
func (h *Handler) AddBasketItem(c echo.Context) error {
	customer, err := customerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req addBasketItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, h.log, err)
	}

	basket, err := h.baskets.AddItem(c.Request().Context(), service.AddBasketItemCommand{
		CustomerID:     customer.String(),
		ProductID:      req.ProductID,
		ProductName:    req.ProductName,
		UnitPriceCents: req.UnitPriceCents,
		Quantity:       req.Quantity,
		CategoryName:   req.CategoryName,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, basket)
}

// RemoveBasketItem handles DELETE /api/basket/items/:productId.
func (h *Handler) RemoveBasketItem(c echo.Context) error {
	customer, err := customerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	productID, err := pathUUID(c, "productId")
	if err != nil {
		return respondError(c, h.log, err)
	}

	basket, err := h.baskets.RemoveItem(c.Request().Context(), service.RemoveBasketItemCommand{
		CustomerID: customer.String(),
		ProductID:  productID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, basket)
}

// ClearBasket handles DELETE /api/basket.
func (h *Handler) ClearBasket(c echo.Context) error {
	customer, err := customerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.baskets.Clear(c.Request().Context(), customer.String()); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
