package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implements the append-only sales ledger on PostgreSQL. There is no update or delete.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository builds the adapter.
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

const saleColumns = `id, code, item_id, quantity_sold, unit_price, total_amount, payment_method, sold_by,
	sale_date, sale_time, notes, created_at`

func scanSale(row pgx.Row) (*entity.SaleTransaction, error) {
	var s entity.SaleTransaction
	var method string
	err := row.Scan(&s.ID, &s.Code, &s.ItemID, &s.QuantitySold, &s.UnitPrice, &s.TotalAmount, &method,
		&s.SoldBy, &s.SaleDate, &s.SaleTime, &s.Notes, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	s.PaymentMethod = entity.PaymentMethod(method)
	return &s, nil
}

// Create appends a ledger row.
func (r *SaleRepo) Create(ctx context.Context, s *entity.SaleTransaction) error {
	query := `
		INSERT INTO sales_log (` + saleColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query,
		s.ID, s.Code, s.ItemID, s.QuantitySold, s.UnitPrice, s.TotalAmount, string(s.PaymentMethod),
		s.SoldBy, s.SaleDate, s.SaleTime, s.Notes, s.CreatedAt,
	)
	return classify("insert sale", err)
}

// GetByCode returns the sale with code.
func (r *SaleRepo) GetByCode(ctx context.Context, code string) (*entity.SaleTransaction, error) {
	s, err := scanSale(r.q.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales_log WHERE code = $1`, codes.Normalize(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	return s, nil
}

// List returns sales newest first. From and To bound sale_date inclusively.
func (r *SaleRepo) List(ctx context.Context, sf repository.SaleFilter) ([]*entity.SaleTransaction, error) {
	var f filter
	if sf.ItemID != "" {
		f.add("item_id = ?", sf.ItemID)
	}
	if sf.From != nil {
		f.add("sale_date >= ?::date", sf.From.Format("2006-01-02"))
	}
	if sf.To != nil {
		f.add("sale_date <= ?::date", sf.To.Format("2006-01-02"))
	}
	query := `SELECT ` + saleColumns + ` FROM sales_log` + f.where() + ` ORDER BY created_at DESC, code DESC`
	query += f.page(sf.Limit, sf.Offset)

	rows, err := r.q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var list []*entity.SaleTransaction
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
