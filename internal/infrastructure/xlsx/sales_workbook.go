package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/retail-stock/internal/application/export"
)

// SheetName is the worksheet holding the ledger rows.
const SheetName = "Sales"

var header = []string{"Code", "Date", "Time", "Item", "Item name", "Qty", "Unit price", "Total", "Payment", "Sold by", "Notes"}

var _ export.SalesWorkbookWriter = (*Writer)(nil)

// Writer renders sales ledgers with excelize.
type Writer struct{}

// NewWriter builds the writer.
func NewWriter() *Writer { return &Writer{} }

// SalesWorkbook writes one row per sale followed by a totals row.
func (w *Writer) SalesWorkbook(_ context.Context, sheet export.SalesSheet) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("xlsx: new sheet: %w", err)
	}
	_ = f.DeleteSheet("Sheet1")
	f.SetActiveSheet(index)
	_ = f.SetDocProps(&excelize.DocProperties{Title: sheet.Title, Creator: "retail-stock"})

	for c, v := range header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		_ = f.SetCellValue(SheetName, cell, v)
	}
	for r, s := range sheet.Rows {
		values := []any{
			s.Code,
			s.SaleDate,
			s.SaleTime,
			s.ItemCode,
			s.ItemName,
			s.QuantitySold,
			s.UnitPrice.InexactFloat64(),
			s.TotalAmount.InexactFloat64(),
			s.PaymentMethod,
			s.SoldBy,
			s.Notes,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx: write %s: %w", cell, err)
			}
		}
	}

	totalRow := len(sheet.Rows) + 2
	_ = f.SetCellValue(SheetName, fmt.Sprintf("A%d", totalRow), "TOTAL")
	_ = f.SetCellValue(SheetName, fmt.Sprintf("F%d", totalRow), sheet.Units)
	_ = f.SetCellValue(SheetName, fmt.Sprintf("H%d", totalRow), sheet.Total.InexactFloat64())

	_ = f.SetColWidth(SheetName, "A", "A", 18)
	_ = f.SetColWidth(SheetName, "B", "D", 12)
	_ = f.SetColWidth(SheetName, "E", "E", 28)
	_ = f.SetColWidth(SheetName, "F", "H", 12)
	_ = f.SetColWidth(SheetName, "I", "J", 16)
	_ = f.SetColWidth(SheetName, "K", "K", 28)

	bold, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#00467F"}, Pattern: 1},
	})
	_ = f.SetCellStyle(SheetName, "A1", "K1", bold)
	money, _ := f.NewStyle(&excelize.Style{NumFmt: 4})
	_ = f.SetCellStyle(SheetName, "G2", fmt.Sprintf("H%d", totalRow), money)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
