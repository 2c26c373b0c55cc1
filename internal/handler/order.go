package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/service"
)

type checkoutRequest struct {
	AddressID uuid.UUID `json:"addressId"`
}

// Checkout handles POST /api/checkout: it converts the caller's basket into
// an order.
func (h *Handler) Checkout(c echo.Context) error {
	customer, err := customerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, h.log, err)
	}

	orderID, err := h.checkout.CreateOrder(c.Request().Context(), service.CreateOrderCommand{
		CustomerID: customer,
		AddressID:  req.AddressID,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, map[string]uuid.UUID{"orderId": orderID})
}

// ListOrders handles GET /api/orders.
func (h *Handler) ListOrders(c echo.Context) error {
	customer, err := customerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	orders, err := h.orders.GetUserOrders(c.Request().Context(), service.GetUserOrdersQuery{CustomerID: customer})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder handles GET /api/orders/:id.
func (h *Handler) GetOrder(c echo.Context) error {
	customer, err := customerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	details, err := h.orders.GetDetails(c.Request().Context(), service.GetOrderDetailsQuery{
		OrderID:    orderID,
		CustomerID: customer,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, details)
}

type updateOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status"`
}

// UpdateOrderStatus handles PUT /api/orders/:id/status.
func (h *Handler) UpdateOrderStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, h.log, err)
	}

	status, err := h.orders.UpdateStatus(c.Request().Context(), service.UpdateOrderStatusCommand{
		OrderID:   orderID,
		NewStatus: req.Status,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, map[string]domain.OrderStatus{"status": status})
}
