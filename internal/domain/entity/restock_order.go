package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RestockOrder is a purchase from a supplier. TotalCost is derived and
// DateReceived is set exactly when Status is Received.
type RestockOrder struct {
	ID               string
	Code             string // POYYYYMMDD-nnn
	SupplierID       string
	ItemID           string
	QuantityOrdered  int
	CostPerUnit      decimal.Decimal
	TotalCost        decimal.Decimal
	Status           RestockStatus
	DateOrdered      time.Time
	ExpectedDelivery *time.Time
	DateReceived     *time.Time
	Notes            string
	CreatedBy        *string
	UpdatedAt        time.Time
}
