package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultMinStockLevel applies when an item is created without an explicit threshold.
const DefaultMinStockLevel = 5

// InventoryItem is a sellable article with its on-hand quantity.
// QuantityInStock only changes through sales and restock receipts.
// ProfitMargin is derived from CostPrice and SellingPrice.
type InventoryItem struct {
	ID              string
	Code            string // ITMnnn
	Category        Category
	Name            string
	Description     string
	SKU             string
	QuantityInStock int
	MinStockLevel   int
	CostPrice       decimal.Decimal
	SellingPrice    decimal.Decimal
	ProfitMargin    decimal.Decimal
	SupplierID      *string
	DateAdded       time.Time
	LastRestocked   *time.Time
	UpdatedAt       time.Time
}

// IsLowStock reports whether the item sits at or below its minimum level.
func (i *InventoryItem) IsLowStock() bool {
	return i.QuantityInStock <= i.MinStockLevel
}
