// Package pdf renders purchase orders for suppliers.
//
// Page layout (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: store name           │  PO code + order date        │
//	│  SUPPLIER: name / contact / phone / email / address          │
//	│  TABLE: Item | Description | Qty | Unit cost | Total          │
//	│  TOTAL                                                       │
//	│  STATUS: status, expected delivery, received date, notes     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/application/export"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ export.RestockPDFGenerator = (*MarotoGenerator)(nil)

// MarotoGenerator renders purchase orders with Maroto v2.
type MarotoGenerator struct{}

// NewMarotoGenerator builds the generator.
func NewMarotoGenerator() *MarotoGenerator { return &MarotoGenerator{} }

// RestockOrderPDF renders doc and returns the PDF bytes.
func (g *MarotoGenerator) RestockOrderPDF(_ context.Context, doc export.RestockDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Purchase order "+doc.Order.Code, true).
		WithAuthor(nonEmpty(doc.StoreName, "Store"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(supplierRow(doc))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(tableHeaderRow(), lineRow(doc.Order))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(doc.Order.TotalCost))
	m.AddRows(line.NewRow(3))
	m.AddRows(statusRows(doc.Order)...)

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate purchase order: %w", err)
	}
	return out.GetBytes(), nil
}

func headerRow(doc export.RestockDocument) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(doc.StoreName, "Store"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("PURCHASE ORDER", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(doc.Order.Code, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Ordered: "+doc.Order.DateOrdered, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func supplierRow(doc export.RestockDocument) core.Row {
	s := doc.Supplier
	if s == nil {
		s = &entity.Supplier{Code: doc.Order.SupplierCode, Name: doc.Order.SupplierName}
	}
	return row.New(20).Add(
		col.New(12).Add(
			text.New("SUPPLIER", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s (%s)", s.Name, s.Code), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("Contact: %s   |   Tel: %s   |   Email: %s",
				nonEmpty(s.ContactPerson, "-"),
				nonEmpty(s.Phone, "-"),
				nonEmpty(s.Email, "-"),
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
			text.New(fmt.Sprintf("Address: %s   |   Terms: %s",
				nonEmpty(s.Address, "-"),
				nonEmpty(s.PaymentTerms, "-"),
			), props.Text{Size: 8, Top: 16, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Item", 2, align.Left),
		h("Description", 4, align.Left),
		h("Qty", 2, align.Center),
		h("Unit cost", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

func lineRow(o dto.RestockOrderResponse) core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New(o.ItemCode, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(o.ItemName, props.Text{Size: 8, Top: 1, Left: 1})),
		col.New(2).Add(text.New(fmt.Sprint(o.QuantityOrdered), props.Text{Size: 8, Align: align.Center, Top: 1})),
		col.New(2).Add(text.New(FormatMoney(o.CostPerUnit), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(FormatMoney(o.TotalCost), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
	)
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(8),
		col.New(2).Add(text.New("TOTAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(2).Add(text.New(FormatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

func statusRows(o dto.RestockOrderResponse) []core.Row {
	rows := []core.Row{
		row.New(6).Add(col.New(12).Add(text.New(
			fmt.Sprintf("Status: %s   |   Expected delivery: %s   |   Received: %s",
				o.Status, nonEmpty(o.ExpectedDelivery, "-"), nonEmpty(o.DateReceived, "-")),
			props.Text{Size: 8, Top: 1, Color: colorGray},
		))),
	}
	if o.Notes != "" {
		rows = append(rows, row.New(10).Add(col.New(12).Add(
			text.New("Notes: "+o.Notes, props.Text{Size: 8, Top: 1}),
		)))
	}
	return rows
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// FormatMoney renders d with two decimals and comma thousands separators, e.g. 1234.5 -> "1,234.50".
func FormatMoney(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac := s[:len(s)-3], s[len(s)-2:]
	n := len(whole)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(whole) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	out := string(buf) + "." + frac
	if d.IsNegative() {
		out = "-" + out
	}
	return out
}
