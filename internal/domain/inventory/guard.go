package inventory

import (
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// CheckSale rejects a sale of qty units when the item does not hold them.
// item must have been read under the row lock of the transaction that records the sale.
func CheckSale(item *entity.InventoryItem, qty int) error {
	if qty <= 0 {
		return domain.NewValidationError("quantity_sold", "must be greater than zero")
	}
	if qty > item.QuantityInStock {
		return &domain.InsufficientStockError{
			ItemCode:  item.Code,
			Available: item.QuantityInStock,
			Requested: qty,
		}
	}
	return nil
}
