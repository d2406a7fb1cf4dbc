package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/retail-stock/internal/application/export"
	"github.com/jhoicas/retail-stock/internal/application/inventory"
	"github.com/jhoicas/retail-stock/internal/application/report"
	"github.com/jhoicas/retail-stock/internal/domain/entity"
)

// RouterDeps are the use cases behind the API.
type RouterDeps struct {
	Items     *inventory.ItemUseCase
	Suppliers *inventory.SupplierUseCase
	Users     *inventory.UserUseCase
	Sales     *inventory.SaleUseCase
	Restocks  *inventory.RestockUseCase
	Reports   *report.Service
	Exports   *export.UseCase
	JWTSecret string
}

// Router registers the /api routes.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Everything requires a Bearer token
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.Items)
	items.Get("/", itemHandler.List)
	items.Get("/search", itemHandler.Search)
	items.Post("/", RequirePermission(entity.PermAddItem), itemHandler.Create)
	items.Get("/:code", itemHandler.GetByCode)
	items.Put("/:code", RequirePermission(entity.PermEditItem), itemHandler.Update)
	items.Delete("/:code", RequirePermission(entity.PermDeleteItem), itemHandler.Delete)

	suppliers := protected.Group("/suppliers")
	supplierHandler := NewSupplierHandler(deps.Suppliers)
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", RequirePermission(entity.PermAddItem), supplierHandler.Create)
	suppliers.Get("/:code", supplierHandler.GetByCode)
	suppliers.Put("/:code", RequirePermission(entity.PermEditItem), supplierHandler.Update)
	suppliers.Delete("/:code", RequirePermission(entity.PermDeleteItem), supplierHandler.Delete)

	users := protected.Group("/users", RequirePermission(entity.PermManageUsers))
	userHandler := NewUserHandler(deps.Users)
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:code", userHandler.GetByCode)
	users.Patch("/:code/status", userHandler.SetStatus)
	users.Delete("/:code", userHandler.Delete)

	sales := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.Sales, deps.Exports)
	sales.Get("/", saleHandler.List)
	sales.Get("/export.xlsx", RequirePermission(entity.PermViewReports), saleHandler.Export)
	sales.Post("/", RequirePermission(entity.PermRecordSale), saleHandler.Record)
	sales.Get("/:code", saleHandler.GetByCode)

	restocks := protected.Group("/restock-orders")
	restockHandler := NewRestockHandler(deps.Restocks, deps.Exports)
	restocks.Get("/", restockHandler.List)
	restocks.Post("/", RequirePermission(entity.PermRestock), restockHandler.Create)
	restocks.Post("/restock-now", RequirePermission(entity.PermRestock), restockHandler.RestockNow)
	restocks.Get("/:code", restockHandler.GetByCode)
	restocks.Get("/:code/pdf", restockHandler.PDF)
	restocks.Put("/:code", RequirePermission(entity.PermRestock), restockHandler.Update)
	restocks.Post("/:code/receive", RequirePermission(entity.PermRestock), restockHandler.Receive)
	restocks.Post("/:code/cancel", RequirePermission(entity.PermRestock), restockHandler.Cancel)

	reports := protected.Group("/reports", RequirePermission(entity.PermViewReports))
	reportHandler := NewReportHandler(deps.Reports)
	reports.Get("/low-stock", reportHandler.LowStock)
	reports.Get("/daily-sales", reportHandler.DailySales)
	reports.Get("/inventory-value", reportHandler.InventoryValue)
}
