package inventory

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/inventory"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
)

// ItemUseCase manages inventory items. Quantity in stock is set once at creation
// and afterwards changes only through SaleUseCase and RestockUseCase.
type ItemUseCase struct {
	uow       *UnitOfWork
	read      repository.Repos
	suppliers *SupplierUseCase
}

// NewItemUseCase builds the use case.
func NewItemUseCase(uow *UnitOfWork, read repository.Repos, suppliers *SupplierUseCase) *ItemUseCase {
	return &ItemUseCase{uow: uow, read: read, suppliers: suppliers}
}

// Create inserts an item with its ITM code. A supplier given by name is created on first reference
// inside the same unit.
func (uc *ItemUseCase) Create(ctx context.Context, actor Actor, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	category, ok := entity.ParseCategory(in.Category)
	if !ok {
		return nil, domain.NewValidationError("category", "unknown category "+in.Category)
	}
	if err := nonNegative("cost_price", in.CostPrice); err != nil {
		return nil, err
	}
	if err := nonNegative("selling_price", in.SellingPrice); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	minLevel := entity.DefaultMinStockLevel
	if in.MinStockLevel != nil {
		minLevel = *in.MinStockLevel
	}

	var (
		created  *entity.InventoryItem
		supplier *entity.Supplier
	)
	err := uc.uow.Do(ctx, OpCreateItem, func(repos repository.Repos) error {
		var err error
		supplier, err = uc.resolveSupplier(ctx, repos, actor, in.SupplierCode, in.SupplierName)
		if err != nil {
			return err
		}
		now := uc.uow.Now()
		code, err := resolveCode(ctx, repos, codes.KindItem, now, in.Code, itemCodeTaken(repos))
		if err != nil {
			return err
		}
		item := &entity.InventoryItem{
			ID:              newID(),
			Code:            code,
			Category:        category,
			Name:            name,
			Description:     in.Description,
			SKU:             in.SKU,
			QuantityInStock: in.QuantityInStock,
			MinStockLevel:   minLevel,
			CostPrice:       in.CostPrice,
			SellingPrice:    in.SellingPrice,
			DateAdded:       uc.uow.Today(),
			UpdatedAt:       now,
		}
		if supplier != nil {
			item.SupplierID = &supplier.ID
		}
		if in.QuantityInStock > 0 {
			today := uc.uow.Today()
			item.LastRestocked = &today
		}
		inventory.RecomputeItem(item)
		if err := repos.Items.Create(ctx, item); err != nil {
			return err
		}
		details := fmt.Sprintf("added item %s %s with %d in stock", item.Code, item.Name, item.QuantityInStock)
		if err := logActivity(ctx, repos, actor, entity.ActionAddItem, details, now); err != nil {
			return err
		}
		created = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(created, supplier), nil
}

// Update edits descriptive, pricing and supplier fields. The margin is recomputed.
func (uc *ItemUseCase) Update(ctx context.Context, actor Actor, code string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var (
		updated  *entity.InventoryItem
		supplier *entity.Supplier
	)
	err := uc.uow.Do(ctx, OpUpdateItem, func(repos repository.Repos) error {
		item, err := lockItemByCode(ctx, repos, code)
		if err != nil {
			return err
		}
		if in.Category != nil {
			c, ok := entity.ParseCategory(*in.Category)
			if !ok {
				return domain.NewValidationError("category", "unknown category "+*in.Category)
			}
			item.Category = c
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return domain.NewValidationError("name", "is required")
			}
			item.Name = name
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.SKU != nil {
			item.SKU = *in.SKU
		}
		if in.MinStockLevel != nil {
			item.MinStockLevel = *in.MinStockLevel
		}
		if in.CostPrice != nil {
			if err := nonNegative("cost_price", *in.CostPrice); err != nil {
				return err
			}
			item.CostPrice = *in.CostPrice
		}
		if in.SellingPrice != nil {
			if err := nonNegative("selling_price", *in.SellingPrice); err != nil {
				return err
			}
			item.SellingPrice = *in.SellingPrice
		}
		if in.SupplierCode != nil {
			if *in.SupplierCode == "" {
				item.SupplierID = nil
			} else {
				s, err := uc.resolveSupplier(ctx, repos, actor, *in.SupplierCode, "")
				if err != nil {
					return err
				}
				item.SupplierID = &s.ID
			}
		}
		supplier, err = supplierOf(ctx, repos, item)
		if err != nil {
			return err
		}
		now := uc.uow.Now()
		item.UpdatedAt = now
		inventory.RecomputeItem(item)
		if err := repos.Items.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return logActivity(ctx, repos, actor, entity.ActionUpdateItem, "updated item "+item.Code, now)
	})
	if err != nil {
		return nil, err
	}
	return toItemResponse(updated, supplier), nil
}

// GetByCode returns one item.
func (uc *ItemUseCase) GetByCode(ctx context.Context, code string) (*dto.ItemResponse, error) {
	item, err := uc.read.Items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("item", code)
	}
	s, err := supplierOf(ctx, uc.read, item)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item, s), nil
}

// List returns items matching the filters in q.
func (uc *ItemUseCase) List(ctx context.Context, q dto.ItemQuery) (*dto.ItemListResponse, error) {
	if err := dto.Validate(q); err != nil {
		return nil, err
	}
	p := page(q.PageRequest)
	f := repository.ItemFilter{
		Query:        strings.TrimSpace(q.Q),
		LowStockOnly: q.LowStock,
		Limit:        p.Limit,
		Offset:       p.Offset,
	}
	if q.Category != "" {
		c, ok := entity.ParseCategory(q.Category)
		if !ok {
			return nil, domain.NewValidationError("category", "unknown category "+q.Category)
		}
		f.Category = c
	}
	items, err := uc.read.Items.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.ItemListResponse{
		Items: make([]dto.ItemResponse, 0, len(items)),
		Page:  dto.PageResponse{Limit: p.Limit, Offset: p.Offset, Total: len(items)},
	}
	suppliers := map[string]*entity.Supplier{}
	for _, item := range items {
		var s *entity.Supplier
		if item.SupplierID != nil {
			var ok bool
			if s, ok = suppliers[*item.SupplierID]; !ok {
				if s, err = uc.read.Suppliers.GetByID(ctx, *item.SupplierID); err != nil {
					return nil, err
				}
				suppliers[*item.SupplierID] = s
			}
		}
		out.Items = append(out.Items, *toItemResponse(item, s))
	}
	return out, nil
}

// Search matches q against code, name, SKU, category and supplier name.
func (uc *ItemUseCase) Search(ctx context.Context, q string, p dto.PageRequest) (*dto.ItemListResponse, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, domain.NewValidationError("q", "is required")
	}
	return uc.List(ctx, dto.ItemQuery{PageRequest: p, Q: q})
}

// Delete removes an item that has no sales or restock orders.
func (uc *ItemUseCase) Delete(ctx context.Context, actor Actor, code string) error {
	return uc.uow.Do(ctx, OpDeleteItem, func(repos repository.Repos) error {
		item, err := lockItemByCode(ctx, repos, code)
		if err != nil {
			return err
		}
		sales, err := repos.Sales.List(ctx, repository.SaleFilter{ItemID: item.ID, Limit: 1})
		if err != nil {
			return err
		}
		orders, err := repos.Restocks.List(ctx, repository.RestockFilter{ItemID: item.ID, Limit: 1})
		if err != nil {
			return err
		}
		if len(sales) > 0 || len(orders) > 0 {
			return domain.NewInvariantViolation("item", item.Code+" is referenced by sales or restock orders")
		}
		if err := repos.Items.Delete(ctx, item.ID); err != nil {
			return err
		}
		return logActivity(ctx, repos, actor, entity.ActionDeleteItem, "deleted item "+item.Code+" "+item.Name, uc.uow.Now())
	})
}

func (uc *ItemUseCase) resolveSupplier(ctx context.Context, repos repository.Repos, actor Actor, code, name string) (*entity.Supplier, error) {
	code = strings.TrimSpace(code)
	name = strings.TrimSpace(name)
	switch {
	case code != "":
		s, err := repos.Suppliers.GetByCode(ctx, code)
		if err != nil {
			return nil, err
		}
		if s == nil {
			return nil, domain.NewInvariantViolation("supplier_code", "supplier "+code+" does not exist")
		}
		return s, nil
	case name != "":
		return uc.suppliers.supplierForName(ctx, repos, actor, name)
	}
	return nil, nil
}

// lockItemByCode resolves code and reads the item under its row lock.
func lockItemByCode(ctx context.Context, repos repository.Repos, code string) (*entity.InventoryItem, error) {
	item, err := repos.Items.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("item", code)
	}
	locked, err := repos.Items.GetForUpdate(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if locked == nil {
		return nil, domain.NotFound("item", code)
	}
	return locked, nil
}

func supplierOf(ctx context.Context, repos repository.Repos, item *entity.InventoryItem) (*entity.Supplier, error) {
	if item.SupplierID == nil {
		return nil, nil
	}
	return repos.Suppliers.GetByID(ctx, *item.SupplierID)
}

func itemCodeTaken(repos repository.Repos) func(context.Context, string) (bool, error) {
	return func(ctx context.Context, code string) (bool, error) {
		i, err := repos.Items.GetByCode(ctx, code)
		return i != nil, err
	}
}

func toItemResponse(item *entity.InventoryItem, s *entity.Supplier) *dto.ItemResponse {
	r := &dto.ItemResponse{
		Code:            item.Code,
		Category:        string(item.Category),
		Name:            item.Name,
		Description:     item.Description,
		SKU:             item.SKU,
		QuantityInStock: item.QuantityInStock,
		MinStockLevel:   item.MinStockLevel,
		CostPrice:       item.CostPrice,
		SellingPrice:    item.SellingPrice,
		ProfitMargin:    item.ProfitMargin,
		LowStock:        item.IsLowStock(),
		DateAdded:       item.DateAdded.Format(dto.DateLayout),
		LastRestocked:   formatDate(item.LastRestocked),
		UpdatedAt:       item.UpdatedAt,
	}
	if s != nil {
		r.SupplierCode = s.Code
		r.SupplierName = s.Name
	}
	return r
}
