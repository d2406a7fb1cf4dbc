package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

var _ repository.ActivityLogRepository = (*ActivityLogRepo)(nil)

// ActivityLogRepo stores audit rows.
type ActivityLogRepo struct {
	q Querier
}

// NewActivityLogRepository builds the adapter.
func NewActivityLogRepository(q Querier) *ActivityLogRepo {
	return &ActivityLogRepo{q: q}
}

// Create appends an audit row.
func (r *ActivityLogRepo) Create(ctx context.Context, l *entity.ActivityLog) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO activity_log (id, user_id, action, details, created_at) VALUES ($1, $2, $3, $4, $5)`,
		l.ID, l.UserID, l.Action, l.Details, l.CreatedAt,
	)
	return classify("insert activity", err)
}

// List returns audit rows newest first.
func (r *ActivityLogRepo) List(ctx context.Context, limit, offset int) ([]*entity.ActivityLog, error) {
	var f filter
	query := `SELECT id, user_id, action, details, created_at FROM activity_log ORDER BY created_at DESC` +
		f.page(limit, offset)
	rows, err := r.q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var list []*entity.ActivityLog
	for rows.Next() {
		var l entity.ActivityLog
		if err := rows.Scan(&l.ID, &l.UserID, &l.Action, &l.Details, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}
