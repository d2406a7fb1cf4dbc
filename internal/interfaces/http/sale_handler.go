package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/application/export"
	"github.com/jhoicas/retail-stock/internal/application/inventory"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// SaleHandler serves /api/sales.
type SaleHandler struct {
	uc      *inventory.SaleUseCase
	exports *export.UseCase
}

// NewSaleHandler builds the handler.
func NewSaleHandler(uc *inventory.SaleUseCase, exports *export.UseCase) *SaleHandler {
	return &SaleHandler{uc: uc, exports: exports}
}

// Record godoc
// @Summary      Record a sale and decrement stock
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordSaleRequest  true  "Sale"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse  "available and requested quantities"
// @Router       /api/sales [post]
func (h *SaleHandler) Record(c *fiber.Ctx) error {
	var in dto.RecordSaleRequest
	if err := bindJSON(c, &in, derivedSaleFields...); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.RecordSale(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByCode godoc
// @Summary      Get a sale by code
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "TXNYYYYMMDD-nnn"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{code} [get]
func (h *SaleHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      List sales, newest first
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        item_code  query  string  false  "Item code"
// @Param        from       query  string  false  "YYYY-MM-DD"
// @Param        to         query  string  false  "YYYY-MM-DD"
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	var q dto.SaleQuery
	if err := bindQuery(c, &q); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Export streams the matching ledger rows as an XLSX workbook.
func (h *SaleHandler) Export(c *fiber.Ctx) error {
	var q dto.SaleQuery
	if err := bindQuery(c, &q); err != nil {
		return fail(c, err)
	}
	b, name, err := h.exports.SalesWorkbook(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, contentTypeXLSX)
	c.Attachment(name)
	return c.Send(b)
}
