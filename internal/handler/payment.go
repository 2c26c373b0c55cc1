package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rowanmarsh/verdi/internal/service"
)

type createPaymentRequest struct {
	OrderID uuid.UUID `json:"orderId"`
}

// CreatePayment handles POST /api/payments.
func (h *Handler) CreatePayment(c echo.Context) error {
	var req createPaymentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, h.log, err)
	}

	intent, err := h.payments.Create(c.Request().Context(), service.CreatePaymentCommand{OrderID: req.OrderID})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, intent)
}

// CapturePayment handles POST /api/payments/:transactionId/capture.
func (h *Handler) CapturePayment(c echo.Context) error {
	transactionID := c.Param("transactionId")

	result, err := h.payments.Capture(c.Request().Context(), service.CapturePaymentCommand{TransactionID: transactionID})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, result)
}
