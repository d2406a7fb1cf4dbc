package repository

// Repos bundles the ports bound to one store handle, either the pool or an open transaction.
type Repos struct {
	Suppliers SupplierRepository
	Items     InventoryItemRepository
	Users     UserRepository
	Sales     SaleRepository
	Restocks  RestockOrderRepository
	Activity  ActivityLogRepository
	Codes     CodeRepository
}
