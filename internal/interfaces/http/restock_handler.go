package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-stock/internal/application/dto"
	"github.com/jhoicas/retail-stock/internal/application/export"
	"github.com/jhoicas/retail-stock/internal/application/inventory"
)

// RestockHandler serves /api/restock-orders.
type RestockHandler struct {
	uc      *inventory.RestockUseCase
	exports *export.UseCase
}

// NewRestockHandler builds the handler.
func NewRestockHandler(uc *inventory.RestockUseCase, exports *export.UseCase) *RestockHandler {
	return &RestockHandler{uc: uc, exports: exports}
}

// Create godoc
// @Summary      Create a Pending restock order
// @Tags         restock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateRestockOrderRequest  true  "Order"
// @Success      201   {object}  dto.RestockOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/restock-orders [post]
func (h *RestockHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateRestockOrderRequest
	if err := bindJSON(c, &in, append([]string{"date_received"}, derivedRestockFields...)...); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.CreateOrder(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// RestockNow creates an order and receives it in one atomic unit.
func (h *RestockHandler) RestockNow(c *fiber.Ctx) error {
	var in dto.RestockNowRequest
	if err := bindJSON(c, &in, derivedRestockFields...); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.RestockNow(c.UserContext(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (h *RestockHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByCode(c.UserContext(), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *RestockHandler) List(c *fiber.Ctx) error {
	var q dto.RestockQuery
	if err := bindQuery(c, &q); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Update a restock order. Moving to Received requires date_received and adds stock once.
// @Tags         restock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string  true  "POYYYYMMDD-nnn"
// @Param        body  body  dto.UpdateRestockOrderRequest  true  "Fields to change"
// @Success      200   {object}  dto.RestockOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/restock-orders/{code} [put]
func (h *RestockHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateRestockOrderRequest
	if err := bindJSON(c, &in, "code", "total_cost", "date_ordered", "stock_after", "updated_at"); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.UpdateOrder(c.UserContext(), actor(c), c.Params("code"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *RestockHandler) Receive(c *fiber.Ctx) error {
	var in dto.ReceiveRestockOrderRequest
	if err := bindJSON(c, &in); err != nil {
		return fail(c, err)
	}
	out, err := h.uc.ReceiveOrder(c.UserContext(), actor(c), c.Params("code"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

func (h *RestockHandler) Cancel(c *fiber.Ctx) error {
	out, err := h.uc.CancelOrder(c.UserContext(), actor(c), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// PDF renders the purchase order for the supplier.
func (h *RestockHandler) PDF(c *fiber.Ctx) error {
	b, name, err := h.exports.RestockOrderPDF(c.UserContext(), c.Params("code"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Attachment(name)
	return c.Send(b)
}
