package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

var (
	_ repository.SupplierRepository      = (*supplierRepo)(nil)
	_ repository.InventoryItemRepository = (*itemRepo)(nil)
	_ repository.UserRepository          = (*userRepo)(nil)
	_ repository.SaleRepository          = (*saleRepo)(nil)
	_ repository.RestockOrderRepository  = (*restockRepo)(nil)
	_ repository.ActivityLogRepository   = (*activityRepo)(nil)
	_ repository.CodeRepository          = (*codeRepo)(nil)
)

// ── suppliers ────────────────────────────────────────────────────────────────

type supplierRepo struct{ a access }

func (r *supplierRepo) Create(_ context.Context, s *entity.Supplier) error {
	return r.a.write(func(st *state) error {
		for _, o := range st.suppliers {
			if o.Code == s.Code || strings.EqualFold(o.Name, s.Name) {
				return domain.Conflict("insert supplier", nil)
			}
		}
		cp := *s
		st.suppliers[s.ID] = &cp
		return nil
	})
}

func (r *supplierRepo) find(match func(*entity.Supplier) bool) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.a.read(func(st *state) error {
		for _, s := range st.suppliers {
			if match(s) {
				cp := *s
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *supplierRepo) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	return r.find(func(s *entity.Supplier) bool { return s.ID == id })
}

func (r *supplierRepo) GetByCode(_ context.Context, code string) (*entity.Supplier, error) {
	return r.find(func(s *entity.Supplier) bool { return s.Code == codes.Normalize(code) })
}

func (r *supplierRepo) GetByName(_ context.Context, name string) (*entity.Supplier, error) {
	return r.find(func(s *entity.Supplier) bool { return strings.EqualFold(s.Name, name) })
}

func (r *supplierRepo) Update(_ context.Context, s *entity.Supplier) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.suppliers[s.ID]
		if !ok {
			return nil
		}
		for _, o := range st.suppliers {
			if o.ID != s.ID && strings.EqualFold(o.Name, s.Name) {
				return domain.Conflict("update supplier", nil)
			}
		}
		cp := *s
		cp.Code, cp.CreatedAt = cur.Code, cur.CreatedAt
		st.suppliers[s.ID] = &cp
		return nil
	})
}

func (r *supplierRepo) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.a.read(func(st *state) error {
		for _, s := range st.suppliers {
			cp := *s
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, limit, offset), err
}

func (r *supplierRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		for _, o := range st.restocks {
			if o.SupplierID == id {
				return domain.NewInvariantViolation("supplier", "referenced by restock orders")
			}
		}
		for _, it := range st.items {
			if it.SupplierID != nil && *it.SupplierID == id {
				it.SupplierID = nil
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}

// ── items ────────────────────────────────────────────────────────────────────

type itemRepo struct{ a access }

func (r *itemRepo) Create(_ context.Context, item *entity.InventoryItem) error {
	return r.a.write(func(st *state) error {
		for _, o := range st.items {
			if o.Code == item.Code {
				return domain.Conflict("insert item", nil)
			}
		}
		if err := checkItem(st, item); err != nil {
			return err
		}
		cp := *item
		st.items[item.ID] = &cp
		return nil
	})
}

// checkItem mirrors the table constraints.
func checkItem(st *state, item *entity.InventoryItem) error {
	if item.QuantityInStock < 0 {
		return domain.NewInvariantViolation("quantity_in_stock", "must not be negative")
	}
	if item.MinStockLevel < 0 {
		return domain.NewInvariantViolation("min_stock_level", "must not be negative")
	}
	if !item.ProfitMargin.Equal(item.SellingPrice.Sub(item.CostPrice)) {
		return domain.NewInvariantViolation("profit_margin", "must equal selling_price - cost_price")
	}
	if item.SupplierID != nil {
		if _, ok := st.suppliers[*item.SupplierID]; !ok {
			return domain.NewInvariantViolation("supplier_id", "supplier does not exist")
		}
	}
	return nil
}

func (r *itemRepo) find(match func(*entity.InventoryItem) bool) (*entity.InventoryItem, error) {
	var out *entity.InventoryItem
	err := r.a.read(func(st *state) error {
		for _, it := range st.items {
			if match(it) {
				cp := *it
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *itemRepo) GetByID(_ context.Context, id string) (*entity.InventoryItem, error) {
	return r.find(func(it *entity.InventoryItem) bool { return it.ID == id })
}

func (r *itemRepo) GetByCode(_ context.Context, code string) (*entity.InventoryItem, error) {
	return r.find(func(it *entity.InventoryItem) bool { return it.Code == codes.Normalize(code) })
}

// GetForUpdate needs no extra locking: transactions already run one at a time.
func (r *itemRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error) {
	return r.GetByID(ctx, id)
}

func (r *itemRepo) Update(_ context.Context, item *entity.InventoryItem) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.items[item.ID]
		if !ok {
			return nil
		}
		cp := *item
		cp.Code, cp.QuantityInStock, cp.LastRestocked, cp.DateAdded = cur.Code, cur.QuantityInStock, cur.LastRestocked, cur.DateAdded
		if err := checkItem(st, &cp); err != nil {
			return err
		}
		st.items[item.ID] = &cp
		return nil
	})
}

func (r *itemRepo) UpdateStock(_ context.Context, id string, qty int, lastRestocked *time.Time, at time.Time) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.items[id]
		if !ok {
			return domain.NotFound("item", id)
		}
		if qty < 0 {
			return domain.NewInvariantViolation("quantity_in_stock", "must not be negative")
		}
		cur.QuantityInStock = qty
		cur.LastRestocked = lastRestocked
		cur.UpdatedAt = at
		return nil
	})
}

func (r *itemRepo) List(_ context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	q := strings.ToLower(strings.TrimSpace(f.Query))
	err := r.a.read(func(st *state) error {
		for _, it := range st.items {
			if f.Category != "" && it.Category != f.Category {
				continue
			}
			if f.SupplierID != "" && (it.SupplierID == nil || *it.SupplierID != f.SupplierID) {
				continue
			}
			if f.LowStockOnly && !it.IsLowStock() {
				continue
			}
			if q != "" && !matchesItem(st, it, q) {
				continue
			}
			cp := *it
			out = append(out, &cp)
		}
		return nil
	})
	if f.LowStockOnly {
		sort.Slice(out, func(i, j int) bool {
			if out[i].QuantityInStock != out[j].QuantityInStock {
				return out[i].QuantityInStock < out[j].QuantityInStock
			}
			return out[i].Code < out[j].Code
		})
	} else {
		sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	}
	return paginate(out, f.Limit, f.Offset), err
}

func matchesItem(st *state, it *entity.InventoryItem, q string) bool {
	if strings.Contains(strings.ToLower(it.Code), q) ||
		strings.Contains(strings.ToLower(it.Name), q) ||
		strings.Contains(strings.ToLower(it.SKU), q) ||
		strings.Contains(strings.ToLower(string(it.Category)), q) {
		return true
	}
	if it.SupplierID != nil {
		if s, ok := st.suppliers[*it.SupplierID]; ok {
			return strings.Contains(strings.ToLower(s.Name), q)
		}
	}
	return false
}

func (r *itemRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		for _, s := range st.sales {
			if s.ItemID == id {
				return domain.NewInvariantViolation("item", "referenced by sales")
			}
		}
		for _, o := range st.restocks {
			if o.ItemID == id {
				return domain.NewInvariantViolation("item", "referenced by restock orders")
			}
		}
		delete(st.items, id)
		return nil
	})
}

// ── users ────────────────────────────────────────────────────────────────────

type userRepo struct{ a access }

func (r *userRepo) Create(_ context.Context, u *entity.User) error {
	return r.a.write(func(st *state) error {
		for _, o := range st.users {
			if o.Code == u.Code || strings.EqualFold(o.Username, u.Username) {
				return domain.Conflict("insert user", nil)
			}
		}
		cp := *u
		st.users[u.ID] = &cp
		return nil
	})
}

func (r *userRepo) find(match func(*entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.a.read(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				cp := *u
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *userRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.ID == id })
}

func (r *userRepo) GetByCode(_ context.Context, code string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Code == codes.Normalize(code) })
}

func (r *userRepo) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return strings.EqualFold(u.Username, username) })
}

func (r *userRepo) UpdateStatus(_ context.Context, id string, status entity.AccountStatus) error {
	return r.a.write(func(st *state) error {
		if u, ok := st.users[id]; ok {
			u.Status = status
		}
		return nil
	})
}

func (r *userRepo) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.a.read(func(st *state) error {
		for _, u := range st.users {
			cp := *u
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return paginate(out, limit, offset), err
}

func (r *userRepo) Delete(_ context.Context, id string) error {
	return r.a.write(func(st *state) error {
		for _, s := range st.sales {
			if s.SoldBy != nil && *s.SoldBy == id {
				s.SoldBy = nil
			}
		}
		for _, o := range st.restocks {
			if o.CreatedBy != nil && *o.CreatedBy == id {
				o.CreatedBy = nil
			}
		}
		for _, l := range st.activity {
			if l.UserID != nil && *l.UserID == id {
				l.UserID = nil
			}
		}
		delete(st.users, id)
		return nil
	})
}

// ── sales ────────────────────────────────────────────────────────────────────

type saleRepo struct{ a access }

func (r *saleRepo) Create(_ context.Context, s *entity.SaleTransaction) error {
	return r.a.write(func(st *state) error {
		for _, o := range st.sales {
			if o.Code == s.Code {
				return domain.Conflict("insert sale", nil)
			}
		}
		if _, ok := st.items[s.ItemID]; !ok {
			return domain.NewInvariantViolation("item_id", "item does not exist")
		}
		if s.SoldBy != nil {
			if _, ok := st.users[*s.SoldBy]; !ok {
				return domain.NewInvariantViolation("sold_by", "user does not exist")
			}
		}
		if s.QuantitySold <= 0 {
			return domain.NewInvariantViolation("quantity_sold", "must be greater than zero")
		}
		if !s.TotalAmount.Equal(s.UnitPrice.Mul(decimalInt(s.QuantitySold))) {
			return domain.NewInvariantViolation("total_amount", "must equal quantity_sold * unit_price")
		}
		cp := *s
		st.sales[s.ID] = &cp
		return nil
	})
}

func (r *saleRepo) GetByCode(_ context.Context, code string) (*entity.SaleTransaction, error) {
	var out *entity.SaleTransaction
	err := r.a.read(func(st *state) error {
		for _, s := range st.sales {
			if s.Code == codes.Normalize(code) {
				cp := *s
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *saleRepo) List(_ context.Context, f repository.SaleFilter) ([]*entity.SaleTransaction, error) {
	var out []*entity.SaleTransaction
	err := r.a.read(func(st *state) error {
		for _, s := range st.sales {
			if f.ItemID != "" && s.ItemID != f.ItemID {
				continue
			}
			if f.From != nil && s.SaleDate.Before(*f.From) {
				continue
			}
			if f.To != nil && s.SaleDate.After(*f.To) {
				continue
			}
			cp := *s
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Code > out[j].Code
	})
	return paginate(out, f.Limit, f.Offset), err
}

// ── restock orders ───────────────────────────────────────────────────────────

type restockRepo struct{ a access }

func checkOrder(st *state, o *entity.RestockOrder) error {
	if _, ok := st.items[o.ItemID]; !ok {
		return domain.NewInvariantViolation("item_id", "item does not exist")
	}
	if _, ok := st.suppliers[o.SupplierID]; !ok {
		return domain.NewInvariantViolation("supplier_id", "supplier does not exist")
	}
	if o.QuantityOrdered <= 0 {
		return domain.NewInvariantViolation("quantity_ordered", "must be greater than zero")
	}
	if !o.TotalCost.Equal(o.CostPerUnit.Mul(decimalInt(o.QuantityOrdered))) {
		return domain.NewInvariantViolation("total_cost", "must equal quantity_ordered * cost_per_unit")
	}
	if (o.Status == entity.RestockReceived) != (o.DateReceived != nil) {
		return domain.NewInvariantViolation("date_received", "must be set if and only if status is Received")
	}
	return nil
}

func (r *restockRepo) Create(_ context.Context, o *entity.RestockOrder) error {
	return r.a.write(func(st *state) error {
		for _, e := range st.restocks {
			if e.Code == o.Code {
				return domain.Conflict("insert restock order", nil)
			}
		}
		if err := checkOrder(st, o); err != nil {
			return err
		}
		cp := *o
		st.restocks[o.ID] = &cp
		return nil
	})
}

func (r *restockRepo) GetByCode(_ context.Context, code string) (*entity.RestockOrder, error) {
	var out *entity.RestockOrder
	err := r.a.read(func(st *state) error {
		for _, o := range st.restocks {
			if o.Code == codes.Normalize(code) {
				cp := *o
				out = &cp
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *restockRepo) GetForUpdate(ctx context.Context, code string) (*entity.RestockOrder, error) {
	return r.GetByCode(ctx, code)
}

func (r *restockRepo) Update(_ context.Context, o *entity.RestockOrder) error {
	return r.a.write(func(st *state) error {
		cur, ok := st.restocks[o.ID]
		if !ok {
			return nil
		}
		next := *cur
		next.Status, next.DateReceived, next.ExpectedDelivery, next.Notes, next.UpdatedAt =
			o.Status, o.DateReceived, o.ExpectedDelivery, o.Notes, o.UpdatedAt
		if err := checkOrder(st, &next); err != nil {
			return err
		}
		st.restocks[o.ID] = &next
		return nil
	})
}

func (r *restockRepo) List(_ context.Context, f repository.RestockFilter) ([]*entity.RestockOrder, error) {
	var out []*entity.RestockOrder
	err := r.a.read(func(st *state) error {
		for _, o := range st.restocks {
			if f.Status != "" && o.Status != f.Status {
				continue
			}
			if f.ItemID != "" && o.ItemID != f.ItemID {
				continue
			}
			if f.SupplierID != "" && o.SupplierID != f.SupplierID {
				continue
			}
			cp := *o
			out = append(out, &cp)
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool { return out[i].Code > out[j].Code })
	return paginate(out, f.Limit, f.Offset), err
}

// ── activity ─────────────────────────────────────────────────────────────────

type activityRepo struct{ a access }

func (r *activityRepo) Create(_ context.Context, l *entity.ActivityLog) error {
	return r.a.write(func(st *state) error {
		if l.UserID != nil {
			if _, ok := st.users[*l.UserID]; !ok {
				return domain.NewInvariantViolation("user_id", "user does not exist")
			}
		}
		cp := *l
		st.activity = append(st.activity, &cp)
		return nil
	})
}

func (r *activityRepo) List(_ context.Context, limit, offset int) ([]*entity.ActivityLog, error) {
	var out []*entity.ActivityLog
	err := r.a.read(func(st *state) error {
		for i := len(st.activity) - 1; i >= 0; i-- {
			cp := *st.activity[i]
			out = append(out, &cp)
		}
		return nil
	})
	return paginate(out, limit, offset), err
}

// ── codes ────────────────────────────────────────────────────────────────────

type codeRepo struct{ a access }

// LockScope is a no-op: the store mutex already serializes every transaction.
func (r *codeRepo) LockScope(context.Context, string) error { return nil }

func (r *codeRepo) Existing(_ context.Context, kind codes.Kind, prefix string) ([]string, error) {
	var out []string
	err := r.a.read(func(st *state) error {
		add := func(code string) {
			if strings.HasPrefix(code, prefix) {
				out = append(out, code)
			}
		}
		switch kind {
		case codes.KindItem:
			for _, v := range st.items {
				add(v.Code)
			}
		case codes.KindSupplier:
			for _, v := range st.suppliers {
				add(v.Code)
			}
		case codes.KindUser:
			for _, v := range st.users {
				add(v.Code)
			}
		case codes.KindSale:
			for _, v := range st.sales {
				add(v.Code)
			}
		case codes.KindRestock:
			for _, v := range st.restocks {
				add(v.Code)
			}
		}
		return nil
	})
	return out, err
}
