package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest body for POST /api/items. Code is generated when empty.
// SupplierName creates the supplier on first reference.
type CreateItemRequest struct {
	Code            string          `json:"code,omitempty" validate:"omitempty,max=20"`
	Category        string          `json:"category" validate:"required"`
	Name            string          `json:"name" validate:"required,max=200"`
	Description     string          `json:"description,omitempty" validate:"max=1000"`
	SKU             string          `json:"sku,omitempty" validate:"max=64"`
	QuantityInStock int             `json:"quantity_in_stock" validate:"gte=0,lte=2147483647"`
	MinStockLevel   *int            `json:"min_stock_level,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	SupplierCode    string          `json:"supplier_code,omitempty"`
	SupplierName    string          `json:"supplier_name,omitempty" validate:"max=200"`
}

// UpdateItemRequest body for PUT /api/items/:code. Stock is not editable here;
// it changes only through sales and restock receipts.
type UpdateItemRequest struct {
	Category      *string          `json:"category,omitempty"`
	Name          *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	Description   *string          `json:"description,omitempty" validate:"omitempty,max=1000"`
	SKU           *string          `json:"sku,omitempty" validate:"omitempty,max=64"`
	MinStockLevel *int             `json:"min_stock_level,omitempty" validate:"omitempty,gte=0,lte=2147483647"`
	CostPrice     *decimal.Decimal `json:"cost_price,omitempty"`
	SellingPrice  *decimal.Decimal `json:"selling_price,omitempty"`
	// SupplierCode "" detaches the item from its supplier.
	SupplierCode *string `json:"supplier_code,omitempty"`
}

// ItemQuery filters for GET /api/items and /api/items/search.
type ItemQuery struct {
	PageRequest
	Q        string `query:"q"`
	Category string `query:"category"`
	LowStock bool   `query:"low_stock"`
}

// ItemResponse public view of an inventory item.
type ItemResponse struct {
	Code            string          `json:"code"`
	Category        string          `json:"category"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	SKU             string          `json:"sku,omitempty"`
	QuantityInStock int             `json:"quantity_in_stock"`
	MinStockLevel   int             `json:"min_stock_level"`
	CostPrice       decimal.Decimal `json:"cost_price"`
	SellingPrice    decimal.Decimal `json:"selling_price"`
	ProfitMargin    decimal.Decimal `json:"profit_margin"`
	SupplierCode    string          `json:"supplier_code,omitempty"`
	SupplierName    string          `json:"supplier_name,omitempty"`
	LowStock        bool            `json:"low_stock"`
	DateAdded       string          `json:"date_added"`
	LastRestocked   string          `json:"last_restocked,omitempty"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ItemListResponse paged list of items.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
