package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rowanmarsh/verdi/internal/command"
	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/event"
)

// ProductStore is the relational store capability for catalog management.
// Implemented by postgres.Store.
type ProductStore interface {
	CreateProduct(ctx context.Context, p *domain.Product) error
	UpdateProduct(ctx context.Context, p *domain.Product) error
	GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListActiveProducts(ctx context.Context) ([]domain.Product, error)
}

const productsListTag = "products-list"

// CreateProductCommand adds a catalog product.
type CreateProductCommand struct {
	Name           string `validate:"required"`
	Description    string
	SKU            string `validate:"required"`
	PriceCents     int64  `validate:"gt=0"`
	CostPriceCents int64  `validate:"gt=0"`
	StockQuantity  int    `validate:"gte=0"`
	CategoryName   string
}

// Mutation marks the command for transactional execution.
func (CreateProductCommand) Mutation() {}

// UpdateProductCommand replaces a product's mutable fields.
type UpdateProductCommand struct {
	ProductID      uuid.UUID `validate:"required"`
	Name           string    `validate:"required"`
	Description    string
	PriceCents     int64 `validate:"gt=0"`
	CostPriceCents int64 `validate:"gt=0"`
	StockQuantity  int   `validate:"gte=0"`
}

func (UpdateProductCommand) Mutation() {}

// DeactivateProductCommand hides a product from the storefront.
type DeactivateProductCommand struct {
	ProductID uuid.UUID `validate:"required"`
}

func (DeactivateProductCommand) Mutation() {}

// ListProductsQuery returns the active catalog.
type ListProductsQuery struct{}

func (ListProductsQuery) CacheKey() string        { return "products:active" }
func (ListProductsQuery) CacheTags() []string     { return []string{productsListTag} }
func (ListProductsQuery) CacheTTL() time.Duration { return 5 * time.Minute }

// GetProductQuery returns one product.
type GetProductQuery struct {
	ProductID uuid.UUID `validate:"required"`
}

func (q GetProductQuery) CacheKey() string        { return "product:" + q.ProductID.String() }
func (q GetProductQuery) CacheTags() []string     { return []string{productTag(q.ProductID)} }
func (q GetProductQuery) CacheTTL() time.Duration { return 5 * time.Minute }

// ProductDetails is the catalog read model.
type ProductDetails struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	SKU           string    `json:"sku"`
	PriceCents    int64     `json:"priceCents"`
	StockQuantity int       `json:"stockQuantity"`
	CategoryName  string    `json:"categoryName"`
	Active        bool      `json:"active"`
}

// ProductService manages the catalog. Writes invalidate the list tag and
// the product's own tag; stale stock counts in cached views are tolerated
// since checkout always checks the live row.
type ProductService struct {
	store ProductStore
	cache command.Cache
	log   *slog.Logger

	create     command.Handler[CreateProductCommand, ProductDetails]
	update     command.Handler[UpdateProductCommand, ProductDetails]
	deactivate command.Handler[DeactivateProductCommand, struct{}]
	list       command.Handler[ListProductsQuery, []ProductDetails]
	get        command.Handler[GetProductQuery, ProductDetails]
}

// NewProductService wires the catalog pipelines.
func NewProductService(
	store ProductStore,
	cache command.Cache,
	tx command.Transactor,
	dispatcher *event.Dispatcher,
	v *validator.Validate,
	log *slog.Logger,
) *ProductService {
	s := &ProductService{store: store, cache: cache, log: log}

	s.create = command.Chain(s.handleCreate,
		command.Validate[CreateProductCommand, ProductDetails](v),
		command.Transactional[CreateProductCommand, ProductDetails](tx, dispatcher, log))

	s.update = command.Chain(s.handleUpdate,
		command.Validate[UpdateProductCommand, ProductDetails](v),
		command.Transactional[UpdateProductCommand, ProductDetails](tx, dispatcher, log))

	s.deactivate = command.Chain(s.handleDeactivate,
		command.Validate[DeactivateProductCommand, struct{}](v),
		command.Transactional[DeactivateProductCommand, struct{}](tx, dispatcher, log))

	s.list = command.Chain(s.handleList,
		command.Cached[ListProductsQuery, []ProductDetails](cache, log))

	s.get = command.Chain(s.handleGet,
		command.Validate[GetProductQuery, ProductDetails](v),
		command.Cached[GetProductQuery, ProductDetails](cache, log))

	return s
}

// Create adds a product to the catalog.
func (s *ProductService) Create(ctx context.Context, cmd CreateProductCommand) (ProductDetails, error) {
	details, err := s.create(ctx, cmd)
	if err != nil {
		return ProductDetails{}, err
	}
	s.invalidate(ctx, details.ID)
	return details, nil
}

// Update replaces a product's mutable fields.
func (s *ProductService) Update(ctx context.Context, cmd UpdateProductCommand) (ProductDetails, error) {
	details, err := s.update(ctx, cmd)
	if err != nil {
		return ProductDetails{}, err
	}
	s.invalidate(ctx, cmd.ProductID)
	return details, nil
}

// Deactivate hides a product from the storefront.
func (s *ProductService) Deactivate(ctx context.Context, cmd DeactivateProductCommand) error {
	if _, err := s.deactivate(ctx, cmd); err != nil {
		return err
	}
	s.invalidate(ctx, cmd.ProductID)
	return nil
}

// List returns the active catalog.
func (s *ProductService) List(ctx context.Context) ([]ProductDetails, error) {
	return s.list(ctx, ListProductsQuery{})
}

// Get returns one product.
func (s *ProductService) Get(ctx context.Context, q GetProductQuery) (ProductDetails, error) {
	return s.get(ctx, q)
}

func (s *ProductService) handleCreate(ctx context.Context, cmd CreateProductCommand) (ProductDetails, error) {
	product, err := domain.NewProduct(uuid.New(), cmd.Name, cmd.Description, cmd.SKU,
		cmd.PriceCents, cmd.CostPriceCents, cmd.StockQuantity, cmd.CategoryName)
	if err != nil {
		return ProductDetails{}, err
	}
	if err := s.store.CreateProduct(ctx, product); err != nil {
		return ProductDetails{}, err
	}
	s.log.Info("product created", "product_id", product.ID, "sku", product.SKU)
	return productDetailsFrom(product), nil
}

func (s *ProductService) handleUpdate(ctx context.Context, cmd UpdateProductCommand) (ProductDetails, error) {
	product, err := s.store.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		return ProductDetails{}, err
	}
	if err := product.Update(cmd.Name, cmd.Description, cmd.PriceCents, cmd.CostPriceCents, cmd.StockQuantity); err != nil {
		return ProductDetails{}, err
	}
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return ProductDetails{}, err
	}
	return productDetailsFrom(product), nil
}

func (s *ProductService) handleDeactivate(ctx context.Context, cmd DeactivateProductCommand) (struct{}, error) {
	product, err := s.store.GetProduct(ctx, cmd.ProductID)
	if err != nil {
		return struct{}{}, err
	}
	product.Deactivate()
	if err := s.store.UpdateProduct(ctx, product); err != nil {
		return struct{}{}, err
	}
	s.log.Info("product deactivated", "product_id", product.ID)
	return struct{}{}, nil
}

func (s *ProductService) handleList(ctx context.Context, _ ListProductsQuery) ([]ProductDetails, error) {
	products, err := s.store.ListActiveProducts(ctx)
	if err != nil {
		return nil, err
	}
	details := make([]ProductDetails, 0, len(products))
	for i := range products {
		details = append(details, productDetailsFrom(&products[i]))
	}
	return details, nil
}

func (s *ProductService) handleGet(ctx context.Context, q GetProductQuery) (ProductDetails, error) {
	product, err := s.store.GetProduct(ctx, q.ProductID)
	if err != nil {
		return ProductDetails{}, err
	}
	return productDetailsFrom(product), nil
}

func (s *ProductService) invalidate(ctx context.Context, productID uuid.UUID) {
	for _, tag := range []string{productsListTag, productTag(productID)} {
		if err := s.cache.InvalidateTag(ctx, tag); err != nil {
			s.log.Warn("cache invalidation failed", "tag", tag, "error", err)
		}
	}
}

func productTag(productID uuid.UUID) string {
	return "product-" + productID.String()
}

func productDetailsFrom(p *domain.Product) ProductDetails {
	return ProductDetails{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		SKU:           p.SKU,
		PriceCents:    p.PriceCents,
		StockQuantity: p.StockQuantity,
		CategoryName:  p.CategoryName,
		Active:        p.Active,
	}
}
