package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-stock/internal/application/report"
)

// ReportHandler serves /api/reports.
type ReportHandler struct {
	svc *report.Service
}

// NewReportHandler builds the handler.
func NewReportHandler(svc *report.Service) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// LowStock godoc
// @Summary      Items at or below their minimum, lowest stock first
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.LowStockReport
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	out, err := h.svc.LowStock(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// DailySales godoc
// @Summary      Sales summary for one store day
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        date  query  string  false  "YYYY-MM-DD, defaults to today"
// @Success      200  {object}  dto.DailySalesReport
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/daily-sales [get]
func (h *ReportHandler) DailySales(c *fiber.Ctx) error {
	out, err := h.svc.DailySales(c.UserContext(), c.Query("date"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// InventoryValue godoc
// @Summary      Stock valued at cost and selling price
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InventoryValueReport
// @Router       /api/reports/inventory-value [get]
func (h *ReportHandler) InventoryValue(c *fiber.Ctx) error {
	out, err := h.svc.InventoryValue(c.UserContext())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
