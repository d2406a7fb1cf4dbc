package inventory

import (
	"math"
	"strconv"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// MaxQuantity is the largest stock level or quantity the store column can hold.
const MaxQuantity = math.MaxInt32

// ApplySale decrements the item by the quantity of sale. These two functions are the only
// places where QuantityInStock changes.
func ApplySale(item *entity.InventoryItem, sale *entity.SaleTransaction) error {
	if sale.ItemID != item.ID {
		return domain.NewInvariantViolation("item_id", "sale does not reference this item")
	}
	if err := CheckSale(item, sale.QuantitySold); err != nil {
		return err
	}
	item.QuantityInStock -= sale.QuantitySold
	return nil
}

// ApplyReceipt increments the item by the ordered quantity and stamps LastRestocked.
// Call it only when Transition reported that the order entered Received.
func ApplyReceipt(item *entity.InventoryItem, order *entity.RestockOrder) error {
	if order.ItemID != item.ID {
		return domain.NewInvariantViolation("item_id", "order does not reference this item")
	}
	if order.Status != entity.RestockReceived || order.DateReceived == nil {
		return domain.NewInvariantViolation("status", "stock is only applied for received orders")
	}
	if order.QuantityOrdered > MaxQuantity-item.QuantityInStock {
		return domain.NewInvariantViolation("quantity_in_stock",
			"receipt would raise stock above "+strconv.Itoa(MaxQuantity))
	}
	item.QuantityInStock += order.QuantityOrdered
	received := *order.DateReceived
	item.LastRestocked = &received
	return nil
}
