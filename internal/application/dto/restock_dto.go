package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateRestockOrderRequest body for POST /api/restock-orders. SupplierCode defaults to
// the item's supplier and CostPerUnit to the item's cost price.
type CreateRestockOrderRequest struct {
	ItemCode         string           `json:"item_code" validate:"required"`
	SupplierCode     string           `json:"supplier_code,omitempty"`
	QuantityOrdered  int              `json:"quantity_ordered" validate:"required,gt=0,lte=2147483647"`
	CostPerUnit      *decimal.Decimal `json:"cost_per_unit,omitempty"`
	ExpectedDelivery string           `json:"expected_delivery,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes            string           `json:"notes,omitempty" validate:"max=1000"`
}

// RestockNowRequest creates an order and receives it in one step.
type RestockNowRequest struct {
	CreateRestockOrderRequest
	DateReceived string `json:"date_received,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateRestockOrderRequest body for PUT /api/restock-orders/:code.
// Status and DateReceived are checked together against the order lifecycle.
type UpdateRestockOrderRequest struct {
	Status           *string `json:"status,omitempty"`
	DateReceived     *string `json:"date_received,omitempty" validate:"omitempty,datetime=2006-01-02"`
	ExpectedDelivery *string `json:"expected_delivery,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Notes            *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ReceiveRestockOrderRequest body for POST /api/restock-orders/:code/receive. Empty date means today.
type ReceiveRestockOrderRequest struct {
	DateReceived string `json:"date_received,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// RestockQuery filters for GET /api/restock-orders.
type RestockQuery struct {
	PageRequest
	Status   string `query:"status"`
	ItemCode string `query:"item_code"`
}

// RestockOrderResponse public view of a restock order.
type RestockOrderResponse struct {
	Code             string          `json:"code"`
	ItemCode         string          `json:"item_code"`
	ItemName         string          `json:"item_name"`
	SupplierCode     string          `json:"supplier_code"`
	SupplierName     string          `json:"supplier_name"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	CostPerUnit      decimal.Decimal `json:"cost_per_unit"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	Status           string          `json:"status"`
	DateOrdered      string          `json:"date_ordered"`
	ExpectedDelivery string          `json:"expected_delivery,omitempty"`
	DateReceived     string          `json:"date_received,omitempty"`
	Notes            string          `json:"notes,omitempty"`
	StockAfter       *int            `json:"stock_after,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// RestockOrderListResponse paged list of restock orders.
type RestockOrderListResponse struct {
	Orders []RestockOrderResponse `json:"orders"`
	Page   PageResponse           `json:"page"`
}
