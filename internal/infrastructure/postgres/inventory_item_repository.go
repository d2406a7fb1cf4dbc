package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implements InventoryItemRepository on PostgreSQL.
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository builds the adapter.
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `i.id, i.code, i.category, i.name, i.description, i.sku, i.quantity_in_stock, i.min_stock_level,
	i.cost_price, i.selling_price, i.profit_margin, i.supplier_id, i.date_added, i.last_restocked, i.updated_at`

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var it entity.InventoryItem
	var category string
	err := row.Scan(&it.ID, &it.Code, &category, &it.Name, &it.Description, &it.SKU,
		&it.QuantityInStock, &it.MinStockLevel, &it.CostPrice, &it.SellingPrice, &it.ProfitMargin,
		&it.SupplierID, &it.DateAdded, &it.LastRestocked, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	it.Category = entity.Category(category)
	return &it, nil
}

// Create inserts an item. Stock, margin and price checks are enforced by the table.
func (r *InventoryItemRepo) Create(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		INSERT INTO inventory (id, code, category, name, description, sku, quantity_in_stock, min_stock_level,
			cost_price, selling_price, profit_margin, supplier_id, date_added, last_restocked, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		it.ID, it.Code, string(it.Category), it.Name, it.Description, it.SKU, it.QuantityInStock, it.MinStockLevel,
		it.CostPrice, it.SellingPrice, it.ProfitMargin, it.SupplierID, it.DateAdded, it.LastRestocked, it.UpdatedAt,
	)
	return classify("insert item", err)
}

func (r *InventoryItemRepo) getOne(ctx context.Context, op, query string, arg any) (*entity.InventoryItem, error) {
	it, err := scanItem(r.q.QueryRow(ctx, query, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, classify(op, err)
	}
	return it, nil
}

// GetByID returns the item with id.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get item", `SELECT `+itemColumns+` FROM inventory i WHERE i.id = $1`, id)
}

// GetByCode returns the item with code.
func (r *InventoryItemRepo) GetByCode(ctx context.Context, code string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "get item by code", `SELECT `+itemColumns+` FROM inventory i WHERE i.code = $1`, codes.Normalize(code))
}

// GetForUpdate reads the item and holds its row lock until the transaction ends.
func (r *InventoryItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.getOne(ctx, "lock item", `SELECT `+itemColumns+` FROM inventory i WHERE i.id = $1 FOR UPDATE`, id)
}

// Update writes descriptive, pricing and supplier columns. Stock is not touched.
func (r *InventoryItemRepo) Update(ctx context.Context, it *entity.InventoryItem) error {
	query := `
		UPDATE inventory
		SET category = $2, name = $3, description = $4, sku = $5, min_stock_level = $6,
		    cost_price = $7, selling_price = $8, profit_margin = $9, supplier_id = $10, updated_at = $11
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query,
		it.ID, string(it.Category), it.Name, it.Description, it.SKU, it.MinStockLevel,
		it.CostPrice, it.SellingPrice, it.ProfitMargin, it.SupplierID, it.UpdatedAt,
	)
	return classify("update item", err)
}

// UpdateStock writes quantity_in_stock and last_restocked. The table rejects negative stock.
func (r *InventoryItemRepo) UpdateStock(ctx context.Context, id string, qty int, lastRestocked *time.Time, at time.Time) error {
	tag, err := r.q.Exec(ctx,
		`UPDATE inventory SET quantity_in_stock = $2, last_restocked = $3, updated_at = $4 WHERE id = $1`,
		id, qty, lastRestocked, at,
	)
	if err != nil {
		return classify("update stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("item", id)
	}
	return nil
}

// List filters items. Low-stock listings are ordered by quantity, everything else by code.
func (r *InventoryItemRepo) List(ctx context.Context, lf repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var f filter
	if lf.Category != "" {
		f.add("i.category = ?", string(lf.Category))
	}
	if lf.SupplierID != "" {
		f.add("i.supplier_id = ?", lf.SupplierID)
	}
	if lf.LowStockOnly {
		f.conds = append(f.conds, "i.quantity_in_stock <= i.min_stock_level")
	}
	if q := strings.TrimSpace(lf.Query); q != "" {
		f.add(`(lower(i.code) LIKE ? ESCAPE '\' OR lower(i.name) LIKE ? ESCAPE '\' OR lower(i.sku) LIKE ? ESCAPE '\'
			OR lower(i.category) LIKE ? ESCAPE '\' OR lower(COALESCE(s.name, '')) LIKE ? ESCAPE '\')`,
			"%"+escapeLike(strings.ToLower(q))+"%")
	}
	order := " ORDER BY i.code"
	if lf.LowStockOnly {
		order = " ORDER BY i.quantity_in_stock, i.code"
	}
	query := `SELECT ` + itemColumns + ` FROM inventory i LEFT JOIN suppliers s ON s.id = i.supplier_id` +
		f.where() + order
	query += f.page(lf.Limit, lf.Offset)

	rows, err := r.q.Query(ctx, query, f.args...)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()

	var list []*entity.InventoryItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}

// Delete removes the item. Sales and restock orders referencing it make the delete fail.
func (r *InventoryItemRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory WHERE id = $1`, id)
	if err != nil {
		return classify("delete item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("item", id)
	}
	return nil
}
