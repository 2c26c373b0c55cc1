package handler

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/service"
)

// customerHeader carries the authenticated customer's ID. Authentication
// itself happens upstream (gateway); this layer only requires the identity
// to be present and well-formed.
const customerHeader = "X-Customer-ID"

// Handler wires the services to HTTP routes.
type Handler struct {
	products *service.ProductService
	baskets  *service.BasketService
	checkout *service.CheckoutService
	orders   *service.OrderService
	payments *service.PaymentService
	address  *service.AddressService
	log      *slog.Logger
}

// New creates the HTTP handler.
func New(
	products *service.ProductService,
	baskets *service.BasketService,
	checkout *service.CheckoutService,
	orders *service.OrderService,
	payments *service.PaymentService,
	address *service.AddressService,
	log *slog.Logger,
) *Handler {
	return &Handler{
		products: products,
		baskets:  baskets,
		checkout: checkout,
		orders:   orders,
		payments: payments,
		address:  address,
		log:      log,
	}
}

// Register mounts all routes on the echo instance.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api")

	api.GET("/products", h.ListProducts)
	api.GET("/products/:id", h.GetProduct)
	api.POST("/products", h.CreateProduct)
	api.PUT("/products/:id", h.UpdateProduct)
	api.DELETE("/products/:id", h.DeactivateProduct)

	api.GET("/basket", h.GetBasket)
	api.POST("/basket/items", h.AddBasketItem)
	api.DELETE("/basket/items/:productId", h.RemoveBasketItem)
	api.DELETE("/basket", h.ClearBasket)

	api.POST("/addresses", h.AddAddress)

	api.POST("/checkout", h.Checkout)

	api.GET("/orders", h.ListOrders)
	api.GET("/orders/:id", h.GetOrder)
	api.PUT("/orders/:id/status", h.UpdateOrderStatus)

	api.POST("/payments", h.CreatePayment)
	api.POST("/payments/:transactionId/capture", h.CapturePayment)
}

// Health reports liveness.
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// customerID extracts the caller's identity from the request.
func customerID(c echo.Context) (uuid.UUID, error) {
	raw := c.Request().Header.Get(customerHeader)
	if raw == "" {
		return uuid.Nil, domain.Unauthorized("http.identity", "Customer identity is required.")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.Unauthorized("http.identity", "Customer identity is malformed.")
	}
	return id, nil
}

// pathUUID parses a UUID path parameter.
func pathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domain.Invalid("http.path", "Request.InvalidID", "The "+name+" path parameter must be a UUID.")
	}
	return id, nil
}
