package pdf_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/application/export"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/internal/infrastructure/pdf"
)

func TestRestockOrderPDF(t *testing.T) {
	doc := export.RestockDocument{
		StoreName: "Maasai Market Leather",
		Order: dto.RestockOrderResponse{
			Code:            "PO20260118-001",
			ItemCode:        "ITM001",
			ItemName:        "Leather belt",
			SupplierCode:    "SUP001",
			SupplierName:    "LeatherCo",
			QuantityOrdered: 20,
			CostPerUnit:     decimal.RequireFromString("450"),
			TotalCost:       decimal.RequireFromString("9000"),
			Status:          "Pending",
			DateOrdered:     "2026-01-18",
			Notes:           "Deliver before noon",
		},
		Supplier: &entity.Supplier{Code: "SUP001", Name: "LeatherCo", Phone: "+254700000000"},
	}

	out, err := pdf.NewMarotoGenerator().RestockOrderPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "output should be a PDF document")
}

func TestRestockOrderPDFWithoutSupplierRow(t *testing.T) {
	doc := export.RestockDocument{
		Order: dto.RestockOrderResponse{Code: "PO20260118-002", SupplierName: "Gone", Status: "Cancelled", DateOrdered: "2026-01-18"},
	}
	out, err := pdf.NewMarotoGenerator().RestockOrderPDF(context.Background(), doc)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":        "0.00",
		"12.5":     "12.50",
		"1234.5":   "1,234.50",
		"1000000":  "1,000,000.00",
		"-9876.54": "-9,876.54",
	}
	for in, want := range cases {
		assert.Equal(t, want, pdf.FormatMoney(decimal.RequireFromString(in)), in)
	}
}
