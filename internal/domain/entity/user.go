package entity

import "time"

// User is a store account. Authentication itself happens outside this service;
// users are referenced as the seller of a sale and the author of activity.
type User struct {
	ID           string
	Code         string // USRnnn
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	Status       AccountStatus
	Notes        string
	CreatedAt    time.Time
	LastLogin    *time.Time
}

// Permission names a capability checked at the request layer.
type Permission string

const (
	PermAddItem     Permission = "add_item"
	PermEditItem    Permission = "edit_item"
	PermDeleteItem  Permission = "delete_item"
	PermRecordSale  Permission = "record_sale"
	PermRestock     Permission = "restock"
	PermManageUsers Permission = "manage_users"
	PermViewReports Permission = "view_reports"
)

var rolePermissions = map[Role][]Permission{
	RoleAdmin: {PermAddItem, PermEditItem, PermDeleteItem, PermRecordSale, PermRestock, PermManageUsers, PermViewReports},
	RoleStaff: {PermAddItem, PermEditItem, PermRecordSale, PermRestock, PermViewReports},
}

// Can reports whether role holds perm.
func (r Role) Can(perm Permission) bool {
	for _, p := range rolePermissions[r] {
		if p == perm {
			return true
		}
	}
	return false
}
