package domain

import (
	"time"

	"github.com/google/uuid"
)

// Address is a customer shipping address. The order core only reads it to
// validate ownership and derive the shipping fee from the city.
type Address struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	FullName   string
	Line1      string
	Line2      string
	City       string
	Country    string
	Phone      string
	CreatedAt  time.Time
}
