package export_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/application/export"
	"github.com/jhoicas/retail-stock/internal/application/inventory"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/infrastructure/memory"
)

type capturePDF struct{ doc export.RestockDocument }

func (c *capturePDF) RestockOrderPDF(_ context.Context, doc export.RestockDocument) ([]byte, error) {
	c.doc = doc
	return []byte("%PDF-fake"), nil
}

type captureXLSX struct {
	sheet export.SalesSheet
	err   error
}

func (c *captureXLSX) SalesWorkbook(_ context.Context, sheet export.SalesSheet) ([]byte, error) {
	c.sheet = sheet
	return []byte("xlsx"), c.err
}

type fixture struct {
	ctx      context.Context
	items    *inventory.ItemUseCase
	sales    *inventory.SaleUseCase
	restocks *inventory.RestockUseCase
	pdf      *capturePDF
	xlsx     *captureXLSX
	uc       *export.UseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	uow := inventory.NewUnitOfWork(store, inventory.UnitConfig{
		Now: func() time.Time { return time.Date(2026, time.January, 18, 9, 0, 0, 0, time.UTC) },
	})
	read := store.Repos()
	suppliers := inventory.NewSupplierUseCase(uow, read)
	f := &fixture{
		ctx:      context.Background(),
		items:    inventory.NewItemUseCase(uow, read, suppliers),
		sales:    inventory.NewSaleUseCase(uow, read, nil),
		restocks: inventory.NewRestockUseCase(uow, read, nil),
		pdf:      &capturePDF{},
		xlsx:     &captureXLSX{},
	}
	f.uc = export.NewUseCase(f.restocks, f.sales, f.pdf, f.xlsx, "Corner Shop", nil)

	_, err := f.items.Create(f.ctx, inventory.Actor{}, dto.CreateItemRequest{
		Category:        "bags",
		Name:            "Canvas Bag",
		QuantityInStock: 500,
		CostPrice:       decimal.NewFromInt(3),
		SellingPrice:    decimal.NewFromInt(5),
		SupplierName:    "BagWorks",
	})
	require.NoError(t, err)
	return f
}

func TestRestockOrderPDF(t *testing.T) {
	f := newFixture(t)
	order, err := f.restocks.CreateOrder(f.ctx, inventory.Actor{}, dto.CreateRestockOrderRequest{ItemCode: "ITM001", QuantityOrdered: 10})
	require.NoError(t, err)

	b, name, err := f.uc.RestockOrderPDF(f.ctx, order.Code)
	require.NoError(t, err)
	assert.Equal(t, "PO20260118-001.pdf", name)
	assert.Equal(t, "%PDF-fake", string(b))
	assert.Equal(t, "Corner Shop", f.pdf.doc.StoreName)
	assert.Equal(t, "Canvas Bag", f.pdf.doc.Order.ItemName)
	require.NotNil(t, f.pdf.doc.Supplier)
	assert.Equal(t, "BagWorks", f.pdf.doc.Supplier.Name)
	assert.True(t, f.pdf.doc.Order.TotalCost.Equal(decimal.NewFromInt(30)))
}

func TestRestockOrderPDFNotFound(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.uc.RestockOrderPDF(f.ctx, "PO20260118-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSalesWorkbookWalksEveryPage(t *testing.T) {
	f := newFixture(t)
	for i := 0; i < 205; i++ {
		_, err := f.sales.RecordSale(f.ctx, inventory.Actor{}, dto.RecordSaleRequest{ItemCode: "ITM001", QuantitySold: 2})
		require.NoError(t, err, fmt.Sprintf("sale %d", i))
	}

	b, name, err := f.uc.SalesWorkbook(f.ctx, dto.SaleQuery{
		PageRequest: dto.PageRequest{Limit: 10, Offset: 3},
		From:        "2026-01-18",
		To:          "2026-01-18",
	})
	require.NoError(t, err)
	assert.Equal(t, "xlsx", string(b))
	assert.Equal(t, "sales_2026-01-18_2026-01-18.xlsx", name)
	assert.Len(t, f.xlsx.sheet.Rows, 205, "paging of the query is ignored")
	assert.Equal(t, 410, f.xlsx.sheet.Units)
	assert.True(t, f.xlsx.sheet.Total.Equal(decimal.NewFromInt(2050)))
	assert.Equal(t, "Sales 2026-01-18 to 2026-01-18", f.xlsx.sheet.Title)
}

func TestSalesWorkbookPropagatesErrors(t *testing.T) {
	f := newFixture(t)

	_, _, err := f.uc.SalesWorkbook(f.ctx, dto.SaleQuery{From: "18/01/2026"})
	var vErr *domain.ValidationError
	require.ErrorAs(t, err, &vErr)

	f.xlsx.err = errors.New("disk full")
	_, _, err = f.uc.SalesWorkbook(f.ctx, dto.SaleQuery{})
	assert.ErrorContains(t, err, "disk full")
}
