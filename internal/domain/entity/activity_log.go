package entity

import "time"

// Activity actions recorded alongside mutations.
const (
	ActionAddItem        = "ADD_ITEM"
	ActionUpdateItem     = "UPDATE_ITEM"
	ActionDeleteItem     = "DELETE_ITEM"
	ActionAddSupplier    = "ADD_SUPPLIER"
	ActionUpdateSupplier = "UPDATE_SUPPLIER"
	ActionDeleteSupplier = "DELETE_SUPPLIER"
	ActionAddUser        = "ADD_USER"
	ActionUpdateUser     = "UPDATE_USER"
	ActionDeleteUser     = "DELETE_USER"
	ActionRecordSale     = "RECORD_SALE"
	ActionCreateRestock  = "CREATE_RESTOCK"
	ActionReceiveRestock = "RECEIVE_RESTOCK"
	ActionCancelRestock  = "CANCEL_RESTOCK"
)

// ActivityLog is an audit row written in the same transaction as the change it describes.
type ActivityLog struct {
	ID        string
	UserID    *string
	Action    string
	Details   string
	CreatedAt time.Time
}
