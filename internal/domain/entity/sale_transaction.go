package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleTransaction is an append-only ledger row. TotalAmount is derived.
type SaleTransaction struct {
	ID            string
	Code          string // TXNYYYYMMDD-nnn
	ItemID        string
	QuantitySold  int
	UnitPrice     decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentMethod PaymentMethod
	SoldBy        *string
	SaleDate      time.Time
	SaleTime      string // HH:MM:SS in the store timezone
	Notes         string
	CreatedAt     time.Time
}
