package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// ItemFilter narrows List. Zero values mean no filter.
type ItemFilter struct {
	Query        string // matches code, name, SKU or supplier name, case-insensitive
	Category     entity.Category
	SupplierID   string
	LowStockOnly bool
	Limit        int
	Offset       int
}

// InventoryItemRepository is the persistence port for InventoryItem.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error)
	// GetForUpdate reads the item and holds its row lock until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// Update writes descriptive and pricing fields. Stock is left untouched.
	Update(ctx context.Context, item *entity.InventoryItem) error
	// UpdateStock writes quantity_in_stock and last_restocked.
	UpdateStock(ctx context.Context, id string, qty int, lastRestocked *time.Time, at time.Time) error
	List(ctx context.Context, f ItemFilter) ([]*entity.InventoryItem, error)
	// Delete fails while sales or restock orders reference the item.
	Delete(ctx context.Context, id string) error
}
