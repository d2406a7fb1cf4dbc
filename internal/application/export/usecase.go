package export

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/application/inventory"
	"github.com/jhoicas/retail-stock/internal/domain"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
	"github.com/jhoicas/retail-stock/pkg/logger"
)

// MaxExportRows caps a sales workbook. Wider ranges must be split by the caller.
const MaxExportRows = 50000

const exportPageSize = 200

// RestockDocument is everything printed on a purchase order.
type RestockDocument struct {
	StoreName string
	Order     dto.RestockOrderResponse
	Supplier  *entity.Supplier
}

// SalesSheet is the content of a sales workbook.
type SalesSheet struct {
	Title string
	Rows  []dto.SaleResponse
	Units int
	Total decimal.Decimal
}

// RestockPDFGenerator renders a purchase order.
type RestockPDFGenerator interface {
	RestockOrderPDF(ctx context.Context, doc RestockDocument) ([]byte, error)
}

// SalesWorkbookWriter renders the sales ledger as a spreadsheet.
type SalesWorkbookWriter interface {
	SalesWorkbook(ctx context.Context, sheet SalesSheet) ([]byte, error)
}

// UseCase produces downloadable documents from committed state. It never writes.
type UseCase struct {
	restocks  *inventory.RestockUseCase
	sales     *inventory.SaleUseCase
	pdf       RestockPDFGenerator
	xlsx      SalesWorkbookWriter
	storeName string
	log       *logger.Logger
}

// NewUseCase builds the export use case.
func NewUseCase(
	restocks *inventory.RestockUseCase,
	sales *inventory.SaleUseCase,
	pdf RestockPDFGenerator,
	xlsx SalesWorkbookWriter,
	storeName string,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{restocks: restocks, sales: sales, pdf: pdf, xlsx: xlsx, storeName: storeName, log: log}
}

// RestockOrderPDF renders the order with code and returns the bytes and a file name.
func (uc *UseCase) RestockOrderPDF(ctx context.Context, code string) ([]byte, string, error) {
	view, err := uc.restocks.View(ctx, code)
	if err != nil {
		return nil, "", err
	}
	doc := RestockDocument{
		StoreName: uc.storeName,
		Order:     *view.Response(),
		Supplier:  view.Supplier,
	}
	b, err := uc.pdf.RestockOrderPDF(ctx, doc)
	if err != nil {
		return nil, "", fmt.Errorf("export: restock order pdf: %w", err)
	}
	return b, code + ".pdf", nil
}

// SalesWorkbook exports every sale matching q, ignoring its paging.
func (uc *UseCase) SalesWorkbook(ctx context.Context, q dto.SaleQuery) ([]byte, string, error) {
	sheet := SalesSheet{Title: salesTitle(q)}
	q.Limit = exportPageSize
	for q.Offset = 0; ; q.Offset += exportPageSize {
		list, err := uc.sales.List(ctx, q)
		if err != nil {
			return nil, "", err
		}
		for _, s := range list.Sales {
			sheet.Units += s.QuantitySold
			sheet.Total = sheet.Total.Add(s.TotalAmount)
		}
		sheet.Rows = append(sheet.Rows, list.Sales...)
		if len(sheet.Rows) > MaxExportRows {
			return nil, "", domain.NewValidationError("from", fmt.Sprintf("export exceeds %d rows, narrow the date range", MaxExportRows))
		}
		if len(list.Sales) < exportPageSize {
			break
		}
	}
	b, err := uc.xlsx.SalesWorkbook(ctx, sheet)
	if err != nil {
		return nil, "", fmt.Errorf("export: sales workbook: %w", err)
	}
	uc.log.Debug().Int("rows", len(sheet.Rows)).Msg("sales workbook exported")
	return b, salesFileName(q), nil
}

func salesTitle(q dto.SaleQuery) string {
	parts := []string{"Sales"}
	if q.ItemCode != "" {
		parts = append(parts, q.ItemCode)
	}
	switch {
	case q.From != "" && q.To != "":
		parts = append(parts, q.From+" to "+q.To)
	case q.From != "":
		parts = append(parts, "from "+q.From)
	case q.To != "":
		parts = append(parts, "until "+q.To)
	}
	return strings.Join(parts, " ")
}

func salesFileName(q dto.SaleQuery) string {
	name := "sales"
	if q.From != "" {
		name += "_" + q.From
	}
	if q.To != "" {
		name += "_" + q.To
	}
	return name + ".xlsx"
}
