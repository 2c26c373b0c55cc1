package service_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rowanmarsh/verdi/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	return validator.New()
}

// fakeStore implements the store interfaces with overridable methods,
// mirroring the billing mock's ...Func pattern. Unset methods return
// not-found errors.
type fakeStore struct {
	GetCustomerAddressFunc        func(ctx context.Context, addressID, customerID uuid.UUID) (*domain.Address, error)
	GetProductFunc                func(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	CreateProductFunc             func(ctx context.Context, p *domain.Product) error
	UpdateProductFunc             func(ctx context.Context, p *domain.Product) error
	ListActiveProductsFunc        func(ctx context.Context) ([]domain.Product, error)
	ReduceStockFunc               func(ctx context.Context, productID uuid.UUID, quantity int) error
	RestoreStockFunc              func(ctx context.Context, productID uuid.UUID, quantity int) error
	CreateOrderFunc               func(ctx context.Context, o *domain.Order) error
	GetOrderFunc                  func(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListOrdersByCustomerFunc      func(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error)
	UpdateOrderStatusFunc         func(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	CreatePaymentFunc             func(ctx context.Context, p *domain.Payment) error
	GetPaymentByOrderIDFunc       func(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error)
	GetPaymentByTransactionIDFunc func(ctx context.Context, transactionID string) (*domain.Payment, error)
	UpdatePaymentStatusFunc       func(ctx context.Context, p *domain.Payment) error
	CreateAddressFunc             func(ctx context.Context, a *domain.Address) error
}

func (f *fakeStore) GetCustomerAddress(ctx context.Context, addressID, customerID uuid.UUID) (*domain.Address, error) {
	if f.GetCustomerAddressFunc != nil {
		return f.GetCustomerAddressFunc(ctx, addressID, customerID)
	}
	return nil, domain.ErrOrderInvalidAddress
}

func (f *fakeStore) GetProduct(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if f.GetProductFunc != nil {
		return f.GetProductFunc(ctx, id)
	}
	return nil, domain.ErrProductNotFound
}

func (f *fakeStore) CreateProduct(ctx context.Context, p *domain.Product) error {
	if f.CreateProductFunc != nil {
		return f.CreateProductFunc(ctx, p)
	}
	return nil
}

func (f *fakeStore) UpdateProduct(ctx context.Context, p *domain.Product) error {
	if f.UpdateProductFunc != nil {
		return f.UpdateProductFunc(ctx, p)
	}
	return nil
}

func (f *fakeStore) ListActiveProducts(ctx context.Context) ([]domain.Product, error) {
	if f.ListActiveProductsFunc != nil {
		return f.ListActiveProductsFunc(ctx)
	}
	return nil, nil
}

func (f *fakeStore) ReduceStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if f.ReduceStockFunc != nil {
		return f.ReduceStockFunc(ctx, productID, quantity)
	}
	return nil
}

func (f *fakeStore) RestoreStock(ctx context.Context, productID uuid.UUID, quantity int) error {
	if f.RestoreStockFunc != nil {
		return f.RestoreStockFunc(ctx, productID, quantity)
	}
	return nil
}

func (f *fakeStore) CreateOrder(ctx context.Context, o *domain.Order) error {
	if f.CreateOrderFunc != nil {
		return f.CreateOrderFunc(ctx, o)
	}
	return nil
}

func (f *fakeStore) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if f.GetOrderFunc != nil {
		return f.GetOrderFunc(ctx, id)
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeStore) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]domain.Order, error) {
	if f.ListOrdersByCustomerFunc != nil {
		return f.ListOrdersByCustomerFunc(ctx, customerID)
	}
	return nil, nil
}

func (f *fakeStore) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error {
	if f.UpdateOrderStatusFunc != nil {
		return f.UpdateOrderStatusFunc(ctx, id, status)
	}
	return nil
}

func (f *fakeStore) CreatePayment(ctx context.Context, p *domain.Payment) error {
	if f.CreatePaymentFunc != nil {
		return f.CreatePaymentFunc(ctx, p)
	}
	return nil
}

func (f *fakeStore) GetPaymentByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Payment, error) {
	if f.GetPaymentByOrderIDFunc != nil {
		return f.GetPaymentByOrderIDFunc(ctx, orderID)
	}
	return nil, domain.ErrPaymentNotFound
}

func (f *fakeStore) GetPaymentByTransactionID(ctx context.Context, transactionID string) (*domain.Payment, error) {
	if f.GetPaymentByTransactionIDFunc != nil {
		return f.GetPaymentByTransactionIDFunc(ctx, transactionID)
	}
	return nil, domain.ErrPaymentNotFound
}

func (f *fakeStore) UpdatePaymentStatus(ctx context.Context, p *domain.Payment) error {
	if f.UpdatePaymentStatusFunc != nil {
		return f.UpdatePaymentStatusFunc(ctx, p)
	}
	return nil
}

func (f *fakeStore) CreateAddress(ctx context.Context, a *domain.Address) error {
	if f.CreateAddressFunc != nil {
		return f.CreateAddressFunc(ctx, a)
	}
	return nil
}

// stubTx counts unit-of-work outcomes.
type stubTx struct {
	commits   int
	rollbacks int
}

func (s *stubTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		s.rollbacks++
		return err
	}
	s.commits++
	return nil
}

// memBaskets is an in-memory basket store.
type memBaskets struct {
	baskets map[string]*domain.Basket
	deletes []string
	putErr  error
}

func newMemBaskets() *memBaskets {
	return &memBaskets{baskets: make(map[string]*domain.Basket)}
}

func (m *memBaskets) Get(ctx context.Context, customerID string) (*domain.Basket, error) {
	if b, ok := m.baskets[customerID]; ok {
		return b, nil
	}
	return domain.NewBasket(customerID), nil
}

func (m *memBaskets) Put(ctx context.Context, basket *domain.Basket) error {
	if m.putErr != nil {
		return m.putErr
	}
	m.baskets[basket.CustomerID] = basket
	return nil
}

func (m *memBaskets) Delete(ctx context.Context, customerID string) error {
	m.deletes = append(m.deletes, customerID)
	delete(m.baskets, customerID)
	return nil
}

func (m *memBaskets) seed(t *testing.T, customerID string, items ...domain.BasketItem) {
	t.Helper()
	basket := domain.NewBasket(customerID)
	for _, item := range items {
		basket.AddItem(item)
	}
	m.baskets[customerID] = basket
}

// memCache is an in-memory command.Cache recording invalidations.
type memCache struct {
	entries     map[string][]byte
	tags        map[string][]string
	invalidated []string
}

func newMemCache() *memCache {
	return &memCache{
		entries: make(map[string][]byte),
		tags:    make(map[string][]string),
	}
}

func (m *memCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, ok := m.entries[key]
	return data, ok, nil
}

func (m *memCache) Set(ctx context.Context, key string, value []byte, tags []string, ttl time.Duration) error {
	m.entries[key] = value
	for _, tag := range tags {
		m.tags[tag] = append(m.tags[tag], key)
	}
	return nil
}

func (m *memCache) InvalidateTag(ctx context.Context, tag string) error {
	m.invalidated = append(m.invalidated, tag)
	for _, key := range m.tags[tag] {
		delete(m.entries, key)
	}
	delete(m.tags, tag)
	return nil
}

func mustBasketItem(t *testing.T, productID uuid.UUID, name string, priceCents int64, quantity int) domain.BasketItem {
	t.Helper()
	item, err := domain.NewBasketItem(productID, name, priceCents, quantity, "")
	require.NoError(t, err)
	return item
}
