package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

var _ repository.RestockOrderRepository = (*RestockOrderRepo)(nil)

// RestockOrderRepo implements RestockOrderRepository on PostgreSQL.
type RestockOrderRepo struct {
	q Querier
}

// NewRestockOrderRepository builds the adapter.
func NewRestockOrderRepository(q Querier) *RestockOrderRepo {
	return &RestockOrderRepo{q: q}
}

const restockColumns = `id, code, supplier_id, item_id, quantity_ordered, cost_per_unit, total_cost, status,
	date_ordered, expected_delivery, date_received, notes, created_by, updated_at`

func scanRestock(row pgx.Row) (*entity.RestockOrder, error) {
	var o entity.RestockOrder
	var status string
	err := row.Scan(&o.ID, &o.Code, &o.SupplierID, &o.ItemID, &o.QuantityOrdered, &o.CostPerUnit, &o.TotalCost,
		&status, &o.DateOrdered, &o.ExpectedDelivery, &o.DateReceived, &o.Notes, &o.CreatedBy, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	o.Status = entity.RestockStatus(status)
	return &o, nil
}

// Create inserts an order.
func (r *RestockOrderRepo) Create(ctx context.Context, o *entity.RestockOrder) error {
	query := `
		INSERT INTO restock_orders (` + restockColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.Code, o.SupplierID, o.ItemID, o.QuantityOrdered, o.CostPerUnit, o.TotalCost, string(o.Status),
		o.DateOrdered, o.ExpectedDelivery, o.DateReceived, o.Notes, o.CreatedBy, o.UpdatedAt,
	)
	return classify("insert restock order", err)
}

func (r *RestockOrderRepo) getOne(ctx context.Context, op, query, code string) (*entity.RestockOrder, error) {
	o, err := scanRestock(r.q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return o, nil
}

// GetByCode returns the order with code.
func (r *RestockOrderRepo) GetByCode(ctx context.Context, code string) (*entity.RestockOrder, error) {
	return r.getOne(ctx, "get restock order", `SELECT `+restockColumns+` FROM restock_orders WHERE code = $1`, codes.Normalize(code))
}

// GetForUpdate reads the order under its row lock.
func (r *RestockOrderRepo) GetForUpdate(ctx context.Context, code string) (*entity.RestockOrder, error) {
	return r.getOne(ctx, "lock restock order", `SELECT `+restockColumns+` FROM restock_orders WHERE code = $1 FOR UPDATE`, codes.Normalize(code))
}

// Update writes the lifecycle columns, notes and expected delivery.
func (r *RestockOrderRepo) Update(ctx context.Context, o *entity.RestockOrder) error {
	query := `
		UPDATE restock_orders
		SET status = $2, date_received = $3, expected_delivery = $4, notes = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, o.ID, string(o.Status), o.DateReceived, o.ExpectedDelivery, o.Notes, o.UpdatedAt)
	if err != nil {
		return classify("update restock order", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("restock order", o.Code)
	}
	return nil
}

// List returns orders newest code first.
func (r *RestockOrderRepo) List(ctx context.Context, rf repository.RestockFilter) ([]*entity.RestockOrder, error) {
	var f filter
	if rf.Status != "" {
		f.add("status = ?", string(rf.Status))
	}
	if rf.ItemID != "" {
		f.add("item_id = ?", rf.ItemID)
	}
	if rf.SupplierID != "" {
		f.add("supplier_id = ?", rf.SupplierID)
	}
	query := `SELECT ` + restockColumns + ` FROM restock_orders` + f.where() + ` ORDER BY code DESC`
	query += f.page(rf.Limit, rf.Offset)

	rows, err := r.q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("list restock orders: %w", err)
	}
	defer rows.Close()

	var list []*entity.RestockOrder
	for rows.Next() {
		o, err := scanRestock(rows)
		if err != nil {
			return nil, fmt.Errorf("scan restock order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}
