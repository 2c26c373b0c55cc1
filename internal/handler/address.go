package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/rowanmarsh/verdi/internal/service"
)

type addAddressRequest struct {
	FullName string `json:"fullName"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

// AddAddress handles POST /api/addresses.
func (h *Handler) AddAddress(c echo.Context) error {
	customer, err := customerID(c)
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req addAddressRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, h.log, err)
	}

	addressID, err := h.address.Add(c.Request().Context(), service.AddAddressCommand{
		CustomerID: customer,
		FullName:   req.FullName,
		Line1:      req.Line1,
		Line2:      req.Line2,
		City:       req.City,
		Country:    req.Country,
		Phone:      req.Phone,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, map[string]uuid.UUID{"addressId": addressID})
}
