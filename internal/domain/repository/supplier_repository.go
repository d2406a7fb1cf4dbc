package repository

import (
	"context"

	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// SupplierRepository is the persistence port for Supplier.
// Getters return (nil, nil) when no row matches.
type SupplierRepository interface {
	Create(ctx context.Context, s *entity.Supplier) error
	GetByID(ctx context.Context, id string) (*entity.Supplier, error)
	GetByCode(ctx context.Context, code string) (*entity.Supplier, error)
	GetByName(ctx context.Context, name string) (*entity.Supplier, error)
	Update(ctx context.Context, s *entity.Supplier) error
	List(ctx context.Context, limit, offset int) ([]*entity.Supplier, error)
	// Delete detaches the supplier from its items and fails while restock orders reference it.
	Delete(ctx context.Context, id string) error
}
