package http

import (
	"encoding/json"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-stock/internal/application/inventory"
	"github.com/jhoicas/retail-stock/internal/domain"
)

// Fields computed by the service. Request bodies that set them are rejected.
var (
	derivedItemFields    = []string{"profit_margin", "low_stock", "date_added", "last_restocked", "updated_at"}
	derivedSaleFields    = []string{"code", "total_amount", "sale_date", "sale_time", "sold_by", "remaining_stock"}
	derivedRestockFields = []string{"code", "total_cost", "status", "date_ordered", "stock_after", "updated_at"}
)

// bindJSON decodes the body into out after rejecting any key listed in derived.
// An empty body decodes as {}.
func bindJSON(c *fiber.Ctx, out any, derived ...string) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		body = []byte("{}")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.NewValidationError("body", "must be a JSON object")
	}
	for _, k := range derived {
		if _, ok := raw[k]; ok {
			return domain.NewValidationError(k, "is computed by the service and cannot be set")
		}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return domain.NewValidationError("body", err.Error())
	}
	return nil
}

func bindQuery(c *fiber.Ctx, out any) error {
	if err := c.QueryParser(out); err != nil {
		return domain.NewValidationError("query", err.Error())
	}
	return nil
}

// actor identifies the authenticated user for sold_by, created_by and activity rows.
func actor(c *fiber.Ctx) inventory.Actor {
	return inventory.Actor{UserID: GetUserID(c)}
}
