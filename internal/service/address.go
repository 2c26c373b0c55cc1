package service

import (
	"context"
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/rowanmarsh/verdi/internal/command"
	"github.com/rowanmarsh/verdi/internal/domain"
	"github.com/rowanmarsh/verdi/internal/event"
)

// AddressStore is the relational store capability for customer addresses.
// Implemented by postgres.Store.
type AddressStore interface {
	CreateAddress(ctx context.Context, a *domain.Address) error
}

// AddAddressCommand records a shipping address for a customer.
type AddAddressCommand struct {
	CustomerID uuid.UUID `validate:"required"`
	FullName   string    `validate:"required"`
	Line1      string    `validate:"required"`
	Line2      string
	City       string `validate:"required"`
	Country    string `validate:"required"`
	Phone      string `validate:"required"`
}

// Mutation marks the command for transactional execution.
func (AddAddressCommand) Mutation() {}

// AddressService manages customer shipping addresses.
type AddressService struct {
	store AddressStore
	log   *slog.Logger

	add command.Handler[AddAddressCommand, uuid.UUID]
}

// NewAddressService wires the address pipeline.
func NewAddressService(
	store AddressStore,
	tx command.Transactor,
	dispatcher *event.Dispatcher,
	v *validator.Validate,
	log *slog.Logger,
) *AddressService {
	s := &AddressService{store: store, log: log}

	s.add = command.Chain(s.handleAdd,
		command.Validate[AddAddressCommand, uuid.UUID](v),
		command.Transactional[AddAddressCommand, uuid.UUID](tx, dispatcher, log))

	return s
}

// Add records an address and returns its ID.
func (s *AddressService) Add(ctx context.Context, cmd AddAddressCommand) (uuid.UUID, error) {
	return s.add(ctx, cmd)
}

func (s *AddressService) handleAdd(ctx context.Context, cmd AddAddressCommand) (uuid.UUID, error) {
	address := &domain.Address{
		ID:         uuid.New(),
		CustomerID: cmd.CustomerID,
		FullName:   cmd.FullName,
		Line1:      cmd.Line1,
		Line2:      cmd.Line2,
		City:       cmd.City,
		Country:    cmd.Country,
		Phone:      cmd.Phone,
	}
	if err := s.store.CreateAddress(ctx, address); err != nil {
		return uuid.Nil, err
	}
	s.log.Info("address added", "address_id", address.ID, "customer_id", cmd.CustomerID)
	return address.ID, nil
}
