package repository

import (
	"context"
	"time"

	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// SaleFilter narrows List. From/To bound sale_date inclusively.
type SaleFilter struct {
	ItemID string
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// SaleRepository is the persistence port for the append-only sales ledger.
type SaleRepository interface {
	Create(ctx context.Context, s *entity.SaleTransaction) error
	GetByCode(ctx context.Context, code string) (*entity.SaleTransaction, error)
	List(ctx context.Context, f SaleFilter) ([]*entity.SaleTransaction, error)
}
