package repository

import (
	"context"

	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// RestockFilter narrows List.
type RestockFilter struct {
	Status     entity.RestockStatus
	ItemID     string
	SupplierID string
	Limit      int
	Offset     int
}

// RestockOrderRepository is the persistence port for RestockOrder.
type RestockOrderRepository interface {
	Create(ctx context.Context, o *entity.RestockOrder) error
	GetByCode(ctx context.Context, code string) (*entity.RestockOrder, error)
	// GetForUpdate reads the order by code under a row lock.
	GetForUpdate(ctx context.Context, code string) (*entity.RestockOrder, error)
	// Update writes status, date_received, expected_delivery and notes.
	Update(ctx context.Context, o *entity.RestockOrder) error
	List(ctx context.Context, f RestockFilter) ([]*entity.RestockOrder, error)
}
