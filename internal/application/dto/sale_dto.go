package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordSaleRequest body for POST /api/sales. UnitPrice defaults to the item's selling price.
type RecordSaleRequest struct {
	ItemCode      string           `json:"item_code" validate:"required"`
	QuantitySold  int              `json:"quantity_sold" validate:"required,gt=0,lte=2147483647"`
	UnitPrice     *decimal.Decimal `json:"unit_price,omitempty"`
	PaymentMethod string           `json:"payment_method,omitempty"`
	Notes         string           `json:"notes,omitempty" validate:"max=1000"`
}

// SaleQuery filters for GET /api/sales. Dates use DateLayout.
type SaleQuery struct {
	PageRequest
	ItemCode string `query:"item_code"`
	From     string `query:"from" validate:"omitempty,datetime=2006-01-02"`
	To       string `query:"to" validate:"omitempty,datetime=2006-01-02"`
}

// SaleResponse public view of a ledger row.
type SaleResponse struct {
	Code           string          `json:"code"`
	ItemCode       string          `json:"item_code"`
	ItemName       string          `json:"item_name"`
	QuantitySold   int             `json:"quantity_sold"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	PaymentMethod  string          `json:"payment_method"`
	SoldBy         string          `json:"sold_by,omitempty"`
	SaleDate       string          `json:"sale_date"`
	SaleTime       string          `json:"sale_time"`
	Notes          string          `json:"notes,omitempty"`
	RemainingStock *int            `json:"remaining_stock,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// SaleListResponse paged list of sales.
type SaleListResponse struct {
	Sales []SaleResponse `json:"sales"`
	Page  PageResponse   `json:"page"`
}
