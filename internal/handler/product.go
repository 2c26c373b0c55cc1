package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rowanmarsh/verdi/internal/service"
)

// ListProducts handles GET /api/products.
func (h *Handler) ListProducts(c echo.Context) error {
	products, err := h.products.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, products)
}

// GetProduct handles GET /api/products/:id.
func (h *Handler) GetProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	product, err := h.products.Get(c.Request().Context(), service.GetProductQuery{ProductID: id})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, product)
}

type createProductRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	SKU            string `json:"sku"`
	PriceCents     int64  `json:"priceCents"`
	CostPriceCents int64  `json:"costPriceCents"`
	StockQuantity  int    `json:"stockQuantity"`
	CategoryName   string `json:"categoryName"`
}

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(c echo.Context) error {
	var req createProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, h.log, err)
	}

	product, err := h.products.Create(c.Request().Context(), service.CreateProductCommand{
		Name:           req.Name,
		Description:    req.Description,
		SKU:            req.SKU,
		PriceCents:     req.PriceCents,
		CostPriceCents: req.CostPriceCents,
		StockQuantity:  req.StockQuantity,
		CategoryName:   req.CategoryName,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusCreated, product)
}

type updateProductRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	PriceCents     int64  `json:"priceCents"`
	CostPriceCents int64  `json:"costPriceCents"`
	StockQuantity  int    `json:"stockQuantity"`
}

// UpdateProduct handles PUT /api/products/:id.
func (h *Handler) UpdateProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	var req updateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, h.log, err)
	}

	product, err := h.products.Update(c.Request().Context(), service.UpdateProductCommand{
		ProductID:      id,
		Name:           req.Name,
		Description:    req.Description,
		PriceCents:     req.PriceCents,
		CostPriceCents: req.CostPriceCents,
		StockQuantity:  req.StockQuantity,
	})
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(http.StatusOK, product)
}

// DeactivateProduct handles DELETE /api/products/:id.
func (h *Handler) DeactivateProduct(c echo.Context) error {
	id, err := pathUUID(c, "id")
	if err != nil {
		return respondError(c, h.log, err)
	}

	if err := h.products.Deactivate(c.Request().Context(), service.DeactivateProductCommand{ProductID: id}); err != nil {
		return respondError(c, h.log, err)
	}
	return c.NoContent(http.StatusNoContent)
}
