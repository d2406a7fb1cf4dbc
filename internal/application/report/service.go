// Package report builds the read-only store reports: low stock, daily sales and
// inventory value. Results are cached per version, see Cache.
package report

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
	"github.com/jhoicas/retail-stock/pkg/logger"
)

// CriticalStockLevel marks low-stock rows that need attention first.
const CriticalStockLevel = 2

const scanBatch = 500

// Clock supplies the store calendar. *inventory.UnitOfWork satisfies it.
type Clock interface {
	Today() time.Time
	Location() *time.Location
}

// Service computes reports from committed data. It never writes.
type Service struct {
	read  repository.Repos
	cache *Cache
	clock Clock
	log   *logger.Logger
	group singleflight.Group
}

// NewService builds the report service. cache may be nil.
func NewService(read repository.Repos, cache *Cache, clock Clock, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{read: read, cache: cache, clock: clock, log: log}
}

// LowStock lists items at or below their minimum level, lowest stock first, with a
// suggested order quantity that brings each one to one and a half times its minimum.
func (s *Service) LowStock(ctx context.Context) (*dto.LowStockReport, error) {
	return cached(ctx, s, s.lowStock, "low_stock")
}

// DailySales summarises the ledger for date (YYYY-MM-DD, empty means today).
func (s *Service) DailySales(ctx context.Context, date string) (*dto.DailySalesReport, error) {
	day := s.clock.Today()
	if date != "" {
		t, err := time.ParseInLocation(dto.DateLayout, date, s.clock.Location())
		if err != nil {
			return nil, domain.NewValidationError("date", "must be a date formatted as YYYY-MM-DD")
		}
		day = t
	}
	return cached(ctx, s, func(ctx context.Context) (*dto.DailySalesReport, error) {
		return s.dailySales(ctx, day)
	}, "daily_sales", day.Format(dto.DateLayout))
}

// InventoryValue values the stock on hand at cost and at selling price.
func (s *Service) InventoryValue(ctx context.Context) (*dto.InventoryValueReport, error) {
	return cached(ctx, s, s.inventoryValue, "inventory_value")
}

// cached serves a report from the cache, collapsing concurrent misses for the same key.
func cached[T any](ctx context.Context, s *Service, load func(context.Context) (*T, error), parts ...string) (*T, error) {
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		s.log.Warn().Err(err).Strs("key", parts).Msg("report cache unavailable, loading from store")
		return load(ctx)
	}
	v, err, _ := s.group.Do(key, func() (any, error) {
		out := new(T)
		err := s.cache.FetchJSON(ctx, key, out, func(ctx context.Context) (any, error) {
			return load(ctx)
		})
		return out, err
	})
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func (s *Service) lowStock(ctx context.Context) (*dto.LowStockReport, error) {
	items, err := s.scanItems(ctx, repository.ItemFilter{LowStockOnly: true})
	if err != nil {
		return nil, err
	}
	suppliers, err := s.supplierIndex(ctx)
	if err != nil {
		return nil, err
	}
	out := &dto.LowStockReport{Items: make([]dto.LowStockItem, 0, len(items))}
	for _, it := range items {
		row := dto.LowStockItem{
			Code:             it.Code,
			Name:             it.Name,
			Category:         string(it.Category),
			QuantityInStock:  it.QuantityInStock,
			MinStockLevel:    it.MinStockLevel,
			Critical:         it.QuantityInStock <= CriticalStockLevel,
			SuggestedReorder: SuggestedReorder(it),
		}
		row.EstimatedCost = it.CostPrice.Mul(decimal.NewFromInt(int64(row.SuggestedReorder))).Round(2)
		if it.SupplierID != nil {
			if sup, ok := suppliers[*it.SupplierID]; ok {
				row.SupplierCode, row.SupplierName = sup.Code, sup.Name
			}
		}
		if row.Critical {
			out.CriticalCount++
		}
		out.Items = append(out.Items, row)
	}
	sort.SliceStable(out.Items, func(i, j int) bool {
		if out.Items[i].QuantityInStock != out.Items[j].QuantityInStock {
			return out.Items[i].QuantityInStock < out.Items[j].QuantityInStock
		}
		return out.Items[i].Code < out.Items[j].Code
	})
	return out, nil
}

// SuggestedReorder is the quantity that lifts item to ceil(1.5 × min_stock_level).
func SuggestedReorder(item *entity.InventoryItem) int {
	ideal := int(math.Ceil(float64(item.MinStockLevel) * 1.5))
	if q := ideal - item.QuantityInStock; q > 0 {
		return q
	}
	return 0
}

func (s *Service) dailySales(ctx context.Context, day time.Time) (*dto.DailySalesReport, error) {
	var (
		sales []*entity.SaleTransaction
		items map[string]*entity.InventoryItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sales, err = s.scanSales(gctx, repository.SaleFilter{From: &day, To: &day})
		return err
	})
	g.Go(func() error {
		list, err := s.scanItems(gctx, repository.ItemFilter{})
		if err != nil {
			return err
		}
		items = make(map[string]*entity.InventoryItem, len(list))
		for _, it := range list {
			items[it.ID] = it
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.DailySalesReport{
		Date:           day.Format(dto.DateLayout),
		Revenue:        decimal.Zero,
		Transactions:   len(sales),
		PaymentMethods: []dto.PaymentMethodSummary{},
	}
	perItem := map[string]*dto.BestSeller{}
	perMethod := map[string]*dto.PaymentMethodSummary{}
	for _, sale := range sales {
		out.Revenue = out.Revenue.Add(sale.TotalAmount)
		out.ItemsSold += sale.QuantitySold

		b, ok := perItem[sale.ItemID]
		if !ok {
			b = &dto.BestSeller{Revenue: decimal.Zero}
			if it, found := items[sale.ItemID]; found {
				b.ItemCode, b.ItemName = it.Code, it.Name
			}
			perItem[sale.ItemID] = b
		}
		b.QuantitySold += sale.QuantitySold
		b.Revenue = b.Revenue.Add(sale.TotalAmount)

		m, ok := perMethod[string(sale.PaymentMethod)]
		if !ok {
			m = &dto.PaymentMethodSummary{Method: string(sale.PaymentMethod), Amount: decimal.Zero}
			perMethod[m.Method] = m
		}
		m.Transactions++
		m.Amount = m.Amount.Add(sale.TotalAmount)
	}
	out.Revenue = out.Revenue.Round(2)

	for _, b := range perItem {
		if out.BestSeller == nil || betterSeller(b, out.BestSeller) {
			out.BestSeller = b
		}
	}
	if out.BestSeller != nil {
		out.BestSeller.Revenue = out.BestSeller.Revenue.Round(2)
	}
	for _, m := range perMethod {
		m.Amount = m.Amount.Round(2)
		out.PaymentMethods = append(out.PaymentMethods, *m)
	}
	sort.Slice(out.PaymentMethods, func(i, j int) bool {
		a, b := out.PaymentMethods[i], out.PaymentMethods[j]
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
		return a.Method < b.Method
	})
	return out, nil
}

// betterSeller orders by units, then revenue, then code.
func betterSeller(a, b *dto.BestSeller) bool {
	if a.QuantitySold != b.QuantitySold {
		return a.QuantitySold > b.QuantitySold
	}
	if !a.Revenue.Equal(b.Revenue) {
		return a.Revenue.GreaterThan(b.Revenue)
	}
	return a.ItemCode < b.ItemCode
}

func (s *Service) inventoryValue(ctx context.Context) (*dto.InventoryValueReport, error) {
	items, err := s.scanItems(ctx, repository.ItemFilter{})
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryValueReport{
		UniqueProducts:   len(items),
		PotentialRevenue: decimal.Zero,
		TotalCost:        decimal.Zero,
		ByCategory:       []dto.CategoryValue{},
	}
	perCategory := map[string]*dto.CategoryValue{}
	for _, it := range items {
		qty := decimal.NewFromInt(int64(it.QuantityInStock))
		revenue := it.SellingPrice.Mul(qty)
		cost := it.CostPrice.Mul(qty)

		out.TotalUnits += it.QuantityInStock
		out.PotentialRevenue = out.PotentialRevenue.Add(revenue)
		out.TotalCost = out.TotalCost.Add(cost)
		if it.IsLowStock() {
			out.LowStockCount++
		}

		c, ok := perCategory[string(it.Category)]
		if !ok {
			c = &dto.CategoryValue{Category: string(it.Category), PotentialRevenue: decimal.Zero, TotalCost: decimal.Zero}
			perCategory[c.Category] = c
		}
		c.Units += it.QuantityInStock
		c.PotentialRevenue = c.PotentialRevenue.Add(revenue)
		c.TotalCost = c.TotalCost.Add(cost)
	}
	out.PotentialRevenue = out.PotentialRevenue.Round(2)
	out.TotalCost = out.TotalCost.Round(2)
	out.PotentialProfit = out.PotentialRevenue.Sub(out.TotalCost)
	for _, c := range perCategory {
		c.PotentialRevenue = c.PotentialRevenue.Round(2)
		c.TotalCost = c.TotalCost.Round(2)
		out.ByCategory = append(out.ByCategory, *c)
	}
	sort.Slice(out.ByCategory, func(i, j int) bool { return out.ByCategory[i].Category < out.ByCategory[j].Category })
	return out, nil
}

func (s *Service) scanItems(ctx context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var all []*entity.InventoryItem
	for offset := 0; ; offset += scanBatch {
		f.Limit, f.Offset = scanBatch, offset
		batch, err := s.read.Items.List(ctx, f)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < scanBatch {
			return all, nil
		}
	}
}

func (s *Service) scanSales(ctx context.Context, f repository.SaleFilter) ([]*entity.SaleTransaction, error) {
	var all []*entity.SaleTransaction
	for offset := 0; ; offset += scanBatch {
		f.Limit, f.Offset = scanBatch, offset
		batch, err := s.read.Sales.List(ctx, f)
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < scanBatch {
			return all, nil
		}
	}
}

func (s *Service) supplierIndex(ctx context.Context) (map[string]*entity.Supplier, error) {
	index := map[string]*entity.Supplier{}
	for offset := 0; ; offset += scanBatch {
		batch, err := s.read.Suppliers.List(ctx, scanBatch, offset)
		if err != nil {
			return nil, err
		}
		for _, sup := range batch {
			index[sup.ID] = sup
		}
		if len(batch) < scanBatch {
			return index, nil
		}
	}
}
