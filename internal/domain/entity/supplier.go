package entity

import "time"

// Supplier provides items and receives restock orders.
type Supplier struct {
	ID            string
	Code          string // SUPnnn
	Name          string
	ContactPerson string
	Phone         string
	Email         string
	Address       string
	PaymentTerms  string
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
