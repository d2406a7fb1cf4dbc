package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/application/inventory"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
	"github.com/jhoicas/retail-stock/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fixture
// ──────────────────────────────────────────────────────────────────────────────

type fixture struct {
	t         *testing.T
	ctx       context.Context
	store     *memory.Store
	clock     *time.Time
	uow       *inventory.UnitOfWork
	suppliers *inventory.SupplierUseCase
	items     *inventory.ItemUseCase
	users     *inventory.UserUseCase
	sales     *inventory.SaleUseCase
	restocks  *inventory.RestockUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := time.Date(2026, time.January, 18, 10, 30, 0, 0, time.UTC)
	f := &fixture{t: t, ctx: context.Background(), store: memory.New(), clock: &clock}
	f.uow = inventory.NewUnitOfWork(f.store, inventory.UnitConfig{
		MaxAttempts: 3,
		Now:         func() time.Time { return *f.clock },
		Backoff:     time.Millisecond,
	})
	read := f.store.Repos()
	f.suppliers = inventory.NewSupplierUseCase(f.uow, read)
	f.items = inventory.NewItemUseCase(f.uow, read, f.suppliers)
	f.users = inventory.NewUserUseCase(f.uow, read).WithBcryptCost(bcrypt.MinCost)
	f.sales = inventory.NewSaleUseCase(f.uow, read, nil)
	f.restocks = inventory.NewRestockUseCase(f.uow, read, nil)
	return f
}

func (f *fixture) createItem(stock int, price string) *dto.ItemResponse {
	f.t.Helper()
	item, err := f.items.Create(f.ctx, inventory.Actor{}, dto.CreateItemRequest{
		Category:        "bags",
		Name:            "Leather Tote",
		QuantityInStock: stock,
		CostPrice:       decimal.NewFromInt(12),
		SellingPrice:    decimal.RequireFromString(price),
		SupplierName:    "LeatherCo",
	})
	require.NoError(f.t, err)
	return item
}

func (f *fixture) sell(code string, qty int) (*dto.SaleResponse, error) {
	return f.sales.RecordSale(f.ctx, inventory.Actor{}, dto.RecordSaleRequest{ItemCode: code, QuantitySold: qty})
}

func (f *fixture) stock(code string) int {
	f.t.Helper()
	item, err := f.items.GetByCode(f.ctx, code)
	require.NoError(f.t, err)
	return item.QuantityInStock
}

func ptr[T any](v T) *T { return &v }

// ──────────────────────────────────────────────────────────────────────────────
// Sales
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesScenario(t *testing.T) {
	f := newFixture(t)
	item := f.createItem(10, "20")
	require.Equal(t, "ITM001", item.Code)
	require.Equal(t, "SUP001", item.SupplierCode, "supplier created on first reference")

	first, err := f.sell("ITM001", 4)
	require.NoError(t, err)
	assert.Equal(t, "TXN20260118-001", first.Code)
	assert.True(t, first.TotalAmount.Equal(decimal.NewFromInt(80)))
	assert.Equal(t, 6, *first.RemainingStock)
	assert.Equal(t, "Cash", first.PaymentMethod)

	second, err := f.sell("ITM001", 4)
	require.NoError(t, err)
	assert.Equal(t, "TXN20260118-002", second.Code)
	assert.Equal(t, 2, f.stock("ITM001"))

	_, err = f.sell("ITM001", 5)
	var stockErr *domain.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 2, stockErr.Available)
	assert.Equal(t, 5, stockErr.Requested)
	assert.Equal(t, 2, f.stock("ITM001"))

	ledger, err := f.sales.List(f.ctx, dto.SaleQuery{})
	require.NoError(t, err)
	assert.Len(t, ledger.Sales, 2, "a rejected sale leaves no ledger row")

	third, err := f.sell("ITM001", 1)
	require.NoError(t, err)
	assert.Equal(t, "TXN20260118-003", third.Code, "a rejected sale does not consume a code")
}

func TestRecordSale_UnitPriceOverrideAndPaymentMethod(t *testing.T) {
	f := newFixture(t)
	f.createItem(10, "20")

	sale, err := f.sales.RecordSale(f.ctx, inventory.Actor{}, dto.RecordSaleRequest{
		ItemCode:      "ITM001",
		QuantitySold:  3,
		UnitPrice:     ptr(decimal.RequireFromString("17.50")),
		PaymentMethod: "mobile money",
	})
	require.NoError(t, err)
	assert.True(t, sale.TotalAmount.Equal(decimal.RequireFromString("52.50")))
	assert.Equal(t, "Mobile Money", sale.PaymentMethod)

	_, err = f.sales.RecordSale(f.ctx, inventory.Actor{}, dto.RecordSaleRequest{ItemCode: "ITM001", QuantitySold: 1, PaymentMethod: "barter"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestRecordSale_Validation(t *testing.T) {
	f := newFixture(t)
	f.createItem(10, "20")

	_, err := f.sell("ITM001", 0)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "quantity_sold", vErr.Field)

	_, err = f.sell("ITM404", 1)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "sale of an unknown item")
}

func TestRecordSale_DayScopedCodes(t *testing.T) {
	f := newFixture(t)
	f.createItem(10, "20")

	s1, err := f.sell("ITM001", 1)
	require.NoError(t, err)
	assert.Equal(t, "TXN20260118-001", s1.Code)

	*f.clock = f.clock.Add(24 * time.Hour)
	s2, err := f.sell("ITM001", 1)
	require.NoError(t, err)
	assert.Equal(t, "TXN20260119-001", s2.Code)
	assert.Equal(t, "2026-01-19", s2.SaleDate)
}

func TestRecordSale_UsesStoreTimezone(t *testing.T) {
	f := newFixture(t)
	nairobi := time.FixedZone("EAT", 3*60*60)
	*f.clock = time.Date(2026, time.January, 18, 22, 0, 0, 0, time.UTC) // already the 19th in Nairobi
	f.uow = inventory.NewUnitOfWork(f.store, inventory.UnitConfig{Location: nairobi, Now: func() time.Time { return *f.clock }})
	read := f.store.Repos()
	f.items = inventory.NewItemUseCase(f.uow, read, inventory.NewSupplierUseCase(f.uow, read))
	f.sales = inventory.NewSaleUseCase(f.uow, read, nil)
	f.createItem(5, "20")

	sale, err := f.sell("ITM001", 1)
	require.NoError(t, err)
	assert.Equal(t, "TXN20260119-001", sale.Code)
}

func TestRecordSale_ConcurrentSalesNeverOversell(t *testing.T) {
	f := newFixture(t)
	f.createItem(6, "20")

	var ok, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := f.sell("ITM001", 1)
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientStock):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(6), ok.Load())
	assert.Equal(t, int32(4), rejected.Load())
	assert.Equal(t, 0, f.stock("ITM001"))
}

func TestRecordSale_SoldByActorAndUserDeletion(t *testing.T) {
	f := newFixture(t)
	f.createItem(10, "20")
	admin, err := f.users.Create(f.ctx, inventory.Actor{}, dto.CreateUserRequest{Username: "admin", Password: "s3cret-pass", Role: "admin"})
	require.NoError(t, err)
	staff, err := f.users.Create(f.ctx, inventory.Actor{}, dto.CreateUserRequest{Username: "mary", Password: "s3cret-pass", Role: "staff"})
	require.NoError(t, err)
	assert.Equal(t, "USR001", admin.Code)
	assert.Equal(t, "USR002", staff.Code)

	adminRow, _ := f.store.Repos().Users.GetByCode(f.ctx, admin.Code)
	staffRow, _ := f.store.Repos().Users.GetByCode(f.ctx, staff.Code)

	sale, err := f.sales.RecordSale(f.ctx, inventory.Actor{UserID: staffRow.ID}, dto.RecordSaleRequest{ItemCode: "ITM001", QuantitySold: 1})
	require.NoError(t, err)
	assert.Equal(t, "mary", sale.SoldBy)

	require.NoError(t, f.users.Delete(f.ctx, inventory.Actor{UserID: adminRow.ID}, staff.Code))
	again, err := f.sales.GetByCode(f.ctx, sale.Code)
	require.NoError(t, err)
	assert.Empty(t, again.SoldBy, "deleting a user clears sold_by")

	_, err = f.sales.RecordSale(f.ctx, inventory.Actor{UserID: staffRow.ID}, dto.RecordSaleRequest{ItemCode: "ITM001", QuantitySold: 1})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "deleted users cannot sell")
}

// ──────────────────────────────────────────────────────────────────────────────
// Restock orders
// ──────────────────────────────────────────────────────────────────────────────

func TestRestockScenario(t *testing.T) {
	f := newFixture(t)
	f.createItem(10, "20")
	_, err := f.sell("ITM001", 8)
	require.NoError(t, err)

	order, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, dto.CreateRestockOrderRequest{
		ItemCode:        "ITM001",
		QuantityOrdered: 20,
		CostPerUnit:     ptr(decimal.RequireFromString("11.50")),
	})
	require.NoError(t, err)
	assert.Equal(t, "PO20260118-001", order.Code)
	assert.Equal(t, "Pending", order.Status)
	assert.Equal(t, "SUP001", order.SupplierCode, "defaults to the item's supplier")
	assert.True(t, order.TotalCost.Equal(decimal.NewFromInt(230)))
	assert.Equal(t, 2, f.stock("ITM001"), "pending orders do not touch stock")

	received, err := f.restocks.UpdateOrder(f.ctx, inventory.Actor{}, order.Code, dto.UpdateRestockOrderRequest{
		Status:       ptr("Received"),
		DateReceived: ptr("2026-01-20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Received", received.Status)
	assert.Equal(t, "2026-01-20", received.DateReceived)
	assert.Equal(t, 22, *received.StockAfter)

	item, err := f.items.GetByCode(f.ctx, "ITM001")
	require.NoError(t, err)
	assert.Equal(t, 22, item.QuantityInStock)
	assert.Equal(t, "2026-01-20", item.LastRestocked)

	_, err = f.restocks.UpdateOrder(f.ctx, inventory.Actor{}, order.Code, dto.UpdateRestockOrderRequest{Status: ptr("Pending")})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
	assert.Equal(t, 22, f.stock("ITM001"))
}

func TestRestock_NoDoubleApply(t *testing.T) {
	f := newFixture(t)
	f.createItem(2, "20")
	order, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 20})
	require.NoError(t, err)

	_, err = f.restocks.ReceiveOrder(f.ctx, inventory.Actor{}, order.Code, dto.ReceiveRestockOrderRequest{DateReceived: "2026-01-18"})
	require.NoError(t, err)
	assert.Equal(t, 22, f.stock("ITM001"))

	// same status resubmitted, with and without the date
	_, err = f.restocks.UpdateOrder(f.ctx, inventory.Actor{}, order.Code, dto.UpdateRestockOrderRequest{Status: ptr("Received"), DateReceived: ptr("2026-01-18")})
	require.NoError(t, err)
	_, err = f.restocks.UpdateOrder(f.ctx, inventory.Actor{}, order.Code, dto.UpdateRestockOrderRequest{Notes: ptr("checked twice")})
	require.NoError(t, err)
	_, err = f.restocks.ReceiveOrder(f.ctx, inventory.Actor{}, order.Code, dto.ReceiveRestockOrderRequest{})
	require.NoError(t, err)

	assert.Equal(t, 22, f.stock("ITM001"))
}

func TestRestock_MutualExclusion(t *testing.T) {
	f := newFixture(t)
	f.createItem(2, "20")
	order, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 5})
	require.NoError(t, err)

	_, err = f.restocks.UpdateOrder(f.ctx, inventory.Actor{}, order.Code, dto.UpdateRestockOrderRequest{Status: ptr("Received")})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "Received without a date")

	_, err = f.restocks.UpdateOrder(f.ctx, inventory.Actor{}, order.Code, dto.UpdateRestockOrderRequest{DateReceived: ptr("2026-01-18")})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "date while Pending")

	got, err := f.restocks.GetByCode(f.ctx, order.Code)
	require.NoError(t, err)
	assert.Equal(t, "Pending", got.Status)
	assert.Empty(t, got.DateReceived)
	assert.Equal(t, 2, f.stock("ITM001"))
}

func TestRestock_CancelIsTerminal(t *testing.T) {
	f := newFixture(t)
	f.createItem(2, "20")
	order, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 5})
	require.NoError(t, err)

	cancelled, err := f.restocks.CancelOrder(f.ctx, inventory.Actor{}, order.Code)
	require.NoError(t, err)
	assert.Equal(t, "Cancelled", cancelled.Status)

	_, err = f.restocks.ReceiveOrder(f.ctx, inventory.Actor{}, order.Code, dto.ReceiveRestockOrderRequest{})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
	assert.Equal(t, 2, f.stock("ITM001"))
}

func TestRestockNow_CreatesAndReceivesAtomically(t *testing.T) {
	f := newFixture(t)
	f.createItem(1, "20")

	order, err := f.restocks.RestockNow(f.ctx, inventory.Actor{}, dto.RestockNowRequest{
		CreateRestockOrderRequest: dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 9},
	})
	require.NoError(t, err)
	assert.Equal(t, "Received", order.Status)
	assert.Equal(t, "2026-01-18", order.DateReceived)
	assert.Equal(t, 10, f.stock("ITM001"))

	_, err = f.restocks.RestockNow(f.ctx, inventory.Actor{}, dto.RestockNowRequest{
		CreateRestockOrderRequest: dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 9, SupplierCode: "SUP404"},
	})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))

	list, err := f.restocks.List(f.ctx, dto.RestockQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Orders, 1, "the failed unit left no order behind")
	assert.Equal(t, 10, f.stock("ITM001"))
}

func TestRestock_OrderCodesPerDay(t *testing.T) {
	f := newFixture(t)
	f.createItem(1, "20")
	req := dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 1}

	a, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, req)
	require.NoError(t, err)
	b, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, req)
	require.NoError(t, err)
	*f.clock = f.clock.AddDate(0, 0, 1)
	c, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"PO20260118-001", "PO20260118-002", "PO20260119-001"}, []string{a.Code, b.Code, c.Code})
}

// ──────────────────────────────────────────────────────────────────────────────
// Items and suppliers
// ──────────────────────────────────────────────────────────────────────────────

func TestCreateItem_ConcurrentCodesAreUniqueAndSequential(t *testing.T) {
	f := newFixture(t)
	const n = 25

	var mu sync.Mutex
	var g errgroup.Group
	seen := map[string]bool{}
	for i := 0; i < n; i++ {
		g.Go(func() error {
			item, err := f.items.Create(f.ctx, inventory.Actor{}, dto.CreateItemRequest{
				Category: "Shoes", Name: "Runner", CostPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2),
			})
			if err != nil {
				return err
			}
			mu.Lock()
			seen[item.Code] = true
			mu.Unlock()
			return nil
		})
	}
	require.NoError(t, g.Wait())

	require.Len(t, seen, n)
	for i := 1; i <= n; i++ {
		assert.True(t, seen[codes.Format("ITM", i)], "missing %s", codes.Format("ITM", i))
	}
}

func TestCreateItem_ExplicitCode(t *testing.T) {
	f := newFixture(t)
	req := dto.CreateItemRequest{Code: "ITM010", Category: "Belts", Name: "Belt", CostPrice: decimal.NewFromInt(5), SellingPrice: decimal.NewFromInt(9)}

	item, err := f.items.Create(f.ctx, inventory.Actor{}, req)
	require.NoError(t, err)
	assert.Equal(t, "ITM010", item.Code)

	_, err = f.items.Create(f.ctx, inventory.Actor{}, req)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "code already in use")

	req.Code = "X-1"
	_, err = f.items.Create(f.ctx, inventory.Actor{}, req)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	req.Code = ""
	next, err := f.items.Create(f.ctx, inventory.Actor{}, req)
	require.NoError(t, err)
	assert.Equal(t, "ITM011", next.Code)
}

func TestUpdateItem_RecomputesMarginAndKeepsStock(t *testing.T) {
	f := newFixture(t)
	f.createItem(7, "20")

	updated, err := f.items.Update(f.ctx, inventory.Actor{}, "ITM001", dto.UpdateItemRequest{
		SellingPrice: ptr(decimal.NewFromInt(30)),
		Category:     ptr("accessories"),
	})
	require.NoError(t, err)
	assert.True(t, updated.ProfitMargin.Equal(decimal.NewFromInt(18)))
	assert.Equal(t, "Accessories", updated.Category)
	assert.Equal(t, 7, updated.QuantityInStock)

	_, err = f.items.Update(f.ctx, inventory.Actor{}, "ITM001", dto.UpdateItemRequest{CostPrice: ptr(decimal.NewFromInt(-1))})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = f.items.Update(f.ctx, inventory.Actor{}, "ITM999", dto.UpdateItemRequest{})
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestItemSearchAndLowStock(t *testing.T) {
	f := newFixture(t)
	f.createItem(5, "20") // at the threshold counts as low
	_, err := f.items.Create(f.ctx, inventory.Actor{}, dto.CreateItemRequest{
		Category: "Wallets", Name: "Bifold", QuantityInStock: 40,
		CostPrice: decimal.NewFromInt(3), SellingPrice: decimal.NewFromInt(8), SupplierName: "ABC Suppliers",
	})
	require.NoError(t, err)

	low, err := f.items.List(f.ctx, dto.ItemQuery{LowStock: true})
	require.NoError(t, err)
	require.Len(t, low.Items, 1)
	assert.Equal(t, "ITM001", low.Items[0].Code)

	byName, err := f.items.List(f.ctx, dto.ItemQuery{Q: "bifold"})
	require.NoError(t, err)
	require.Len(t, byName.Items, 1)
	assert.Equal(t, "ABC Suppliers", byName.Items[0].SupplierName)

	bySupplier, err := f.items.List(f.ctx, dto.ItemQuery{Q: "leatherco"})
	require.NoError(t, err)
	assert.Len(t, bySupplier.Items, 1)
}

func TestDeleteItem_RejectedWhenReferenced(t *testing.T) {
	f := newFixture(t)
	f.createItem(5, "20")
	_, err := f.sell("ITM001", 1)
	require.NoError(t, err)

	err = f.items.Delete(f.ctx, inventory.Actor{}, "ITM001")
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
}

func TestSupplierLifecycle(t *testing.T) {
	f := newFixture(t)
	s, err := f.suppliers.Create(f.ctx, inventory.Actor{}, dto.CreateSupplierRequest{Name: "Sports Inc", Email: "orders@sports.example"})
	require.NoError(t, err)
	assert.Equal(t, "SUP001", s.Code)

	_, err = f.suppliers.Create(f.ctx, inventory.Actor{}, dto.CreateSupplierRequest{Name: "sports inc"})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput), "names are unique regardless of case")

	_, err = f.suppliers.Create(f.ctx, inventory.Actor{}, dto.CreateSupplierRequest{Name: "Bad Mail", Email: "nope"})
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "email", vErr.Field)

	_, err = f.items.Create(f.ctx, inventory.Actor{}, dto.CreateItemRequest{
		Category: "Shoes", Name: "Trainer", CostPrice: decimal.NewFromInt(1), SellingPrice: decimal.NewFromInt(2), SupplierCode: "SUP001",
	})
	require.NoError(t, err)
	_, err = f.restocks.CreateOrder(f.ctx, inventory.Actor{}, dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 1})
	require.NoError(t, err)

	err = f.suppliers.Delete(f.ctx, inventory.Actor{}, "SUP001")
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "referenced by an order")

	renamed, err := f.suppliers.Update(f.ctx, inventory.Actor{}, "SUP001", dto.UpdateSupplierRequest{Name: ptr("Sports Incorporated")})
	require.NoError(t, err)
	assert.Equal(t, "Sports Incorporated", renamed.Name)
}

func TestSupplierDelete_DetachesItems(t *testing.T) {
	f := newFixture(t)
	f.createItem(5, "20")

	require.NoError(t, f.suppliers.Delete(f.ctx, inventory.Actor{}, "SUP001"))
	item, err := f.items.GetByCode(f.ctx, "ITM001")
	require.NoError(t, err)
	assert.Empty(t, item.SupplierCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Unit of work
// ──────────────────────────────────────────────────────────────────────────────

type flakyRunner struct {
	conflicts int
	calls     int
	inner     inventory.TxRunner
}

func (r *flakyRunner) Run(ctx context.Context, fn func(repository.Repos) error) error {
	r.calls++
	if r.calls <= r.conflicts {
		return domain.Conflict("insert sale", errors.New("duplicate key"))
	}
	return r.inner.Run(ctx, fn)
}

type countingObserver struct {
	committed, retried, rejected int
}

func (o *countingObserver) Committed(context.Context, string) { o.committed++ }
func (o *countingObserver) Retried(string, int)               { o.retried++ }
func (o *countingObserver) Rejected(string, error)            { o.rejected++ }

func TestUnitOfWork_RetriesConflicts(t *testing.T) {
	runner := &flakyRunner{conflicts: 2, inner: memory.New()}
	obs := &countingObserver{}
	uow := inventory.NewUnitOfWork(runner, inventory.UnitConfig{MaxAttempts: 3, Backoff: time.Microsecond, Observers: []inventory.Observer{obs}})

	runs := 0
	err := uow.Do(context.Background(), inventory.OpRecordSale, func(repository.Repos) error {
		runs++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, runner.calls)
	assert.Equal(t, 1, runs)
	assert.Equal(t, 2, obs.retried)
	assert.Equal(t, 1, obs.committed)
}

func TestUnitOfWork_GivesUpAfterMaxAttempts(t *testing.T) {
	runner := &flakyRunner{conflicts: 10, inner: memory.New()}
	obs := &countingObserver{}
	uow := inventory.NewUnitOfWork(runner, inventory.UnitConfig{MaxAttempts: 3, Backoff: time.Microsecond, Observers: []inventory.Observer{obs}})

	err := uow.Do(context.Background(), inventory.OpRecordSale, func(repository.Repos) error { return nil })
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict))
	assert.Equal(t, 3, runner.calls)
	assert.Equal(t, 1, obs.rejected)
}

func TestUnitOfWork_DoesNotRetryOtherErrors(t *testing.T) {
	runner := &flakyRunner{inner: memory.New()}
	uow := inventory.NewUnitOfWork(runner, inventory.UnitConfig{MaxAttempts: 5})

	err := uow.Do(context.Background(), inventory.OpRecordSale, func(repository.Repos) error {
		return domain.NewValidationError("quantity_sold", "must be greater than zero")
	})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	assert.Equal(t, 1, runner.calls)
}

// ──────────────────────────────────────────────────────────────────────────────
// Accounts, suppliers and the activity log
// ──────────────────────────────────────────────────────────────────────────────

func TestActivityLogWrittenOnlyForCommittedUnits(t *testing.T) {
	f := newFixture(t)
	f.createItem(3, "20")
	_, err := f.sell("ITM001", 2)
	require.NoError(t, err)
	_, err = f.sell("ITM001", 5)
	require.Error(t, err)

	logs, err := f.store.Repos().Activity.List(f.ctx, 10, 0)
	require.NoError(t, err)
	var actions []string
	for _, l := range logs {
		actions = append(actions, l.Action)
	}
	require.Len(t, actions, 3)
	assert.Equal(t, entity.ActionRecordSale, actions[0], "newest first")
	assert.ElementsMatch(t, []string{entity.ActionAddSupplier, entity.ActionAddItem, entity.ActionRecordSale}, actions)
}

func TestSupplierDeleteDetachesItems(t *testing.T) {
	f := newFixture(t)
	f.createItem(5, "20")

	require.NoError(t, f.suppliers.Delete(f.ctx, inventory.Actor{}, "SUP001"))

	item, err := f.items.GetByCode(f.ctx, "ITM001")
	require.NoError(t, err)
	assert.Empty(t, item.SupplierCode)

	_, err = f.suppliers.GetByCode(f.ctx, "SUP001")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestSupplierDeleteRejectedWhileOrdersReferenceIt(t *testing.T) {
	f := newFixture(t)
	f.createItem(5, "20")
	_, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 4})
	require.NoError(t, err)

	err = f.suppliers.Delete(f.ctx, inventory.Actor{}, "SUP001")
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))

	item, err := f.items.GetByCode(f.ctx, "ITM001")
	require.NoError(t, err)
	assert.Equal(t, "SUP001", item.SupplierCode, "nothing changed")
}

func TestUserLifecycle(t *testing.T) {
	f := newFixture(t)
	admin, err := f.users.Create(f.ctx, inventory.Actor{}, dto.CreateUserRequest{Username: "boss", Password: "boss-pass-1", Role: "admin"})
	require.NoError(t, err)
	clerk, err := f.users.Create(f.ctx, inventory.Actor{}, dto.CreateUserRequest{Username: "clerk", Password: "clerk-pass-1", Role: "Staff"})
	require.NoError(t, err)
	assert.Equal(t, "USR001", admin.Code)
	assert.Equal(t, "USR002", clerk.Code)
	assert.Equal(t, "Admin", admin.Role)

	_, err = f.users.Create(f.ctx, inventory.Actor{}, dto.CreateUserRequest{Username: "CLERK", Password: "another-pass", Role: "Staff"})
	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "username", verr.Field)

	adminRow, err := f.store.Repos().Users.GetByUsername(f.ctx, "boss")
	require.NoError(t, err)
	clerkRow, err := f.store.Repos().Users.GetByUsername(f.ctx, "clerk")
	require.NoError(t, err)
	asAdmin := inventory.Actor{UserID: adminRow.ID}

	f.createItem(5, "20")
	asClerk := inventory.Actor{UserID: clerkRow.ID}
	sale, err := f.sales.RecordSale(f.ctx, asClerk, dto.RecordSaleRequest{ItemCode: "ITM001", QuantitySold: 1})
	require.NoError(t, err)
	assert.Equal(t, "clerk", sale.SoldBy)

	out, err := f.users.SetStatus(f.ctx, asAdmin, clerk.Code, dto.SetUserStatusRequest{Status: "inactive"})
	require.NoError(t, err)
	assert.Equal(t, "Inactive", out.Status)

	_, err = f.sales.RecordSale(f.ctx, asClerk, dto.RecordSaleRequest{ItemCode: "ITM001", QuantitySold: 1})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "inactive users cannot sell")
	assert.Equal(t, 4, f.stock("ITM001"))

	_, err = f.users.SetStatus(f.ctx, asAdmin, admin.Code, dto.SetUserStatusRequest{Status: "Inactive"})
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "no self-deactivation")

	require.NoError(t, f.users.Delete(f.ctx, asAdmin, clerk.Code))
	again, err := f.sales.GetByCode(f.ctx, sale.Code)
	require.NoError(t, err)
	assert.Empty(t, again.SoldBy, "sale survives without its seller")

	err = f.users.Delete(f.ctx, asAdmin, admin.Code)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "no self-deletion")
}

func (f *fixture) countActions(action string) int {
	f.t.Helper()
	logs, err := f.store.Repos().Activity.List(f.ctx, 100, 0)
	require.NoError(f.t, err)
	n := 0
	for _, l := range logs {
		if l.Action == action {
			n++
		}
	}
	return n
}

func TestRestock_ResavingCancelledOrderLogsOnce(t *testing.T) {
	f := newFixture(t)
	f.createItem(2, "20")
	order, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 5})
	require.NoError(t, err)

	_, err = f.restocks.CancelOrder(f.ctx, inventory.Actor{}, order.Code)
	require.NoError(t, err)
	_, err = f.restocks.CancelOrder(f.ctx, inventory.Actor{}, order.Code)
	require.NoError(t, err, "cancelling again is a no-op")
	got, err := f.restocks.UpdateOrder(f.ctx, inventory.Actor{}, order.Code, dto.UpdateRestockOrderRequest{Notes: ptr("supplier closed")})
	require.NoError(t, err)
	assert.Equal(t, "supplier closed", got.Notes)

	assert.Equal(t, 1, f.countActions(entity.ActionCancelRestock))
}

// itemsGoneBeforeLock simulates an item deleted by another transaction between the
// lookup by code and the row lock.
type itemsGoneBeforeLock struct {
	repository.InventoryItemRepository
}

func (itemsGoneBeforeLock) GetForUpdate(context.Context, string) (*entity.InventoryItem, error) {
	return nil, nil
}

type racingRunner struct {
	inner inventory.TxRunner
}

func (r racingRunner) Run(ctx context.Context, fn func(repos repository.Repos) error) error {
	return r.inner.Run(ctx, func(repos repository.Repos) error {
		repos.Items = itemsGoneBeforeLock{repos.Items}
		return fn(repos)
	})
}

func TestSale_ItemDeletedBeforeLockIsNotFound(t *testing.T) {
	f := newFixture(t)
	f.createItem(5, "20")

	uow := inventory.NewUnitOfWork(racingRunner{inner: f.store}, inventory.UnitConfig{
		Now:     func() time.Time { return *f.clock },
		Backoff: time.Millisecond,
	})
	sales := inventory.NewSaleUseCase(uow, f.store.Repos(), nil)

	var err error
	require.NotPanics(t, func() {
		_, err = sales.RecordSale(f.ctx, inventory.Actor{}, dto.RecordSaleRequest{ItemCode: "ITM001", QuantitySold: 1})
	})
	assert.True(t, errors.Is(err, domain.ErrNotFound))

	ledger, err := f.store.Repos().Sales.List(f.ctx, repository.SaleFilter{Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, ledger)
	assert.Equal(t, 5, f.stock("ITM001"))
}
