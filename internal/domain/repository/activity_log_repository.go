package repository

import (
	"context"

	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// ActivityLogRepository stores audit rows.
type ActivityLogRepository interface {
	Create(ctx context.Context, l *entity.ActivityLog) error
	List(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error)
}
