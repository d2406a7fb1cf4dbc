package dto

import "github.com/shopspring/decimal"

// LowStockItem one row of the low-stock alert.
type LowStockItem struct {
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	QuantityInStock  int             `json:"quantity_in_stock"`
	MinStockLevel    int             `json:"min_stock_level"`
	Critical         bool            `json:"critical"`
	SuggestedReorder int             `json:"suggested_reorder"`
	EstimatedCost    decimal.Decimal `json:"estimated_cost"`
	SupplierCode     string          `json:"supplier_code,omitempty"`
	SupplierName     string          `json:"supplier_name,omitempty"`
}

// LowStockReport items at or below their minimum, lowest stock first.
type LowStockReport struct {
	Items         []LowStockItem `json:"items"`
	CriticalCount int            `json:"critical_count"`
}

// BestSeller the item with the most units sold in the period.
type BestSeller struct {
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	QuantitySold int             `json:"quantity_sold"`
	Revenue      decimal.Decimal `json:"revenue"`
}

// PaymentMethodSummary transactions and amount taken through one payment method.
type PaymentMethodSummary struct {
	Method       string          `json:"method"`
	Transactions int             `json:"transactions"`
	Amount       decimal.Decimal `json:"amount"`
}

// DailySalesReport summary of one calendar day of the ledger.
type DailySalesReport struct {
	Date           string                 `json:"date"`
	Revenue        decimal.Decimal        `json:"revenue"`
	Transactions   int                    `json:"transactions"`
	ItemsSold      int                    `json:"items_sold"`
	BestSeller     *BestSeller            `json:"best_seller,omitempty"`
	PaymentMethods []PaymentMethodSummary `json:"payment_methods"`
}

// CategoryValue stock value of one category.
type CategoryValue struct {
	Category         string          `json:"category"`
	Units            int             `json:"units"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
	TotalCost        decimal.Decimal `json:"total_cost"`
}

// InventoryValueReport value of the stock on hand at cost and at selling price.
type InventoryValueReport struct {
	UniqueProducts   int             `json:"unique_products"`
	TotalUnits       int             `json:"total_units"`
	PotentialRevenue decimal.Decimal `json:"potential_revenue"`
	TotalCost        decimal.Decimal `json:"total_cost"`
	PotentialProfit  decimal.Decimal `json:"potential_profit"`
	LowStockCount    int             `json:"low_stock_count"`
	ByCategory       []CategoryValue `json:"by_category"`
}
