package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// ProfitMargin = selling price - cost price.
func ProfitMargin(cost, sell decimal.Decimal) decimal.Decimal {
	return sell.Sub(cost)
}

// LineTotal = quantity × unit amount. Used for both sale totals and restock totals.
func LineTotal(qty int, unit decimal.Decimal) decimal.Decimal {
	return unit.Mul(decimal.NewFromInt(int64(qty)))
}

// RecomputeItem refreshes the derived columns of an item from its source fields.
func RecomputeItem(item *entity.InventoryItem) {
	item.ProfitMargin = ProfitMargin(item.CostPrice, item.SellingPrice)
}

// RecomputeSale refreshes the derived columns of a sale.
func RecomputeSale(sale *entity.SaleTransaction) {
	sale.TotalAmount = LineTotal(sale.QuantitySold, sale.UnitPrice)
}

// RecomputeRestock refreshes the derived columns of a restock order.
func RecomputeRestock(order *entity.RestockOrder) {
	order.TotalCost = LineTotal(order.QuantityOrdered, order.CostPerUnit)
}
