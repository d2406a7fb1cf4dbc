package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/codes"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/domain/repository"
	"github.com/jhoicas/retail-stock/internal/infrastructure/memory"
)

func item(id, code string, stock int) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID: id, Code: code, Category: entity.CategoryBags, Name: "Tote " + code,
		QuantityInStock: stock, MinStockLevel: 5,
		CostPrice: decimal.NewFromInt(10), SellingPrice: decimal.NewFromInt(20), ProfitMargin: decimal.NewFromInt(10),
	}
}

func TestRun_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	store := memory.New()

	err := store.Run(ctx, func(r repository.Repos) error {
		return r.Items.Create(ctx, item("i1", "ITM001", 10))
	})
	require.NoError(t, err)

	got, err := store.Repos().Items.GetByCode(ctx, "ITM001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 10, got.QuantityInStock)
}

func TestRun_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Repos().Items.Create(ctx, item("i1", "ITM001", 10)))

	boom := errors.New("boom")
	err := store.Run(ctx, func(r repository.Repos) error {
		if err := r.Items.UpdateStock(ctx, "i1", 3, nil, time.Now()); err != nil {
			return err
		}
		if err := r.Items.Create(ctx, item("i2", "ITM002", 1)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, _ := store.Repos().Items.GetByID(ctx, "i1")
	assert.Equal(t, 10, got.QuantityInStock)
	missing, _ := store.Repos().Items.GetByID(ctx, "i2")
	assert.Nil(t, missing)
}

func TestRun_CancelledContextDiscardsWork(t *testing.T) {
	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())

	err := store.Run(ctx, func(r repository.Repos) error {
		if err := r.Items.Create(ctx, item("i1", "ITM001", 10)); err != nil {
			return err
		}
		cancel()
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)

	got, _ := store.Repos().Items.GetByID(context.Background(), "i1")
	assert.Nil(t, got)
}

func TestConstraints(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repos := store.Repos()
	require.NoError(t, repos.Items.Create(ctx, item("i1", "ITM001", 10)))

	err := repos.Items.Create(ctx, item("i2", "ITM001", 1))
	assert.True(t, errors.Is(err, domain.ErrConcurrencyConflict), "duplicate code")

	err = repos.Items.UpdateStock(ctx, "i1", -1, nil, time.Now())
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "negative stock")

	bad := item("i3", "ITM003", 1)
	bad.ProfitMargin = decimal.NewFromInt(99)
	err = repos.Items.Create(ctx, bad)
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation), "margin out of sync")
}

func TestSupplierDelete_DetachesItemsButRespectsOrders(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repos := store.Repos()
	now := time.Now()

	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "s1", Code: "SUP001", Name: "LeatherCo"}))
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "s2", Code: "SUP002", Name: "Sports Inc"}))
	it := item("i1", "ITM001", 10)
	sid := "s1"
	it.SupplierID = &sid
	require.NoError(t, repos.Items.Create(ctx, it))
	require.NoError(t, repos.Restocks.Create(ctx, &entity.RestockOrder{
		ID: "o1", Code: "PO20260118-001", SupplierID: "s2", ItemID: "i1", QuantityOrdered: 1,
		CostPerUnit: decimal.NewFromInt(1), TotalCost: decimal.NewFromInt(1), Status: entity.RestockPending, DateOrdered: now,
	}))

	require.NoError(t, repos.Suppliers.Delete(ctx, "s1"))
	got, _ := repos.Items.GetByID(ctx, "i1")
	assert.Nil(t, got.SupplierID)

	err := repos.Suppliers.Delete(ctx, "s2")
	assert.True(t, errors.Is(err, domain.ErrInvariantViolation))
}

func TestCodes_Existing(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	repos := store.Repos()
	require.NoError(t, repos.Items.Create(ctx, item("i1", "ITM001", 1)))
	require.NoError(t, repos.Items.Create(ctx, item("i2", "ITM004", 1)))

	existing, err := repos.Codes.Existing(ctx, codes.KindItem, "ITM")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"ITM001", "ITM004"}, existing)
	assert.Equal(t, "ITM005", codes.Next("ITM", existing))
}

func TestGetByCode_NormalizesCase(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	require.NoError(t, store.Repos().Items.Create(ctx, item("i1", "ITM001", 4)))

	got, err := store.Repos().Items.GetByCode(ctx, " itm001")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "i1", got.ID)

	missing, err := store.Repos().Items.GetByCode(ctx, "itm0001")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestItemList_QueryMatchesLiterally(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	sale := item("i1", "ITM001", 4)
	sale.Name = "Tote 50% off"
	require.NoError(t, store.Repos().Items.Create(ctx, sale))
	require.NoError(t, store.Repos().Items.Create(ctx, item("i2", "ITM002", 4)))

	for q, want := range map[string]int{"%": 1, " 50% ": 1, "_": 0, "tote": 2} {
		got, err := store.Repos().Items.List(ctx, repository.ItemFilter{Query: q})
		require.NoError(t, err)
		assert.Len(t, got, want, q)
	}
}
