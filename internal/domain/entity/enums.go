package entity

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category groups inventory items for display and reporting.
type Category string

const (
	CategoryBags        Category = "Bags"
	CategoryShoes       Category = "Shoes"
	CategoryWallets     Category = "Wallets"
	CategoryBelts       Category = "Belts"
	CategoryAccessories Category = "Accessories"
	CategoryOther       Category = "Other"
)

// Categories lists every accepted category in display order.
var Categories = []Category{CategoryBags, CategoryShoes, CategoryWallets, CategoryBelts, CategoryAccessories, CategoryOther}

// PaymentMethod of a sale.
type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "Cash"
	PaymentCard         PaymentMethod = "Card"
	PaymentMobileMoney  PaymentMethod = "Mobile Money"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
	PaymentOther        PaymentMethod = "Other"
)

// PaymentMethods lists every accepted payment method.
var PaymentMethods = []PaymentMethod{PaymentCash, PaymentCard, PaymentMobileMoney, PaymentBankTransfer, PaymentOther}

// Role of a user account.
type Role string

const (
	RoleAdmin Role = "Admin"
	RoleStaff Role = "Staff"
)

// AccountStatus of a user account.
type AccountStatus string

const (
	AccountActive   AccountStatus = "Active"
	AccountInactive AccountStatus = "Inactive"
)

// RestockStatus is the lifecycle state of a restock order.
type RestockStatus string

const (
	RestockPending   RestockStatus = "Pending"
	RestockReceived  RestockStatus = "Received"
	RestockCancelled RestockStatus = "Cancelled"
)

var titleCaser = cases.Title(language.English)

// normalize folds user input such as "mobile-money" or "BAGS" onto the canonical title-cased spelling.
func normalize(s string) string {
	s = strings.Join(strings.Fields(strings.NewReplacer("_", " ", "-", " ").Replace(s)), " ")
	return titleCaser.String(strings.ToLower(s))
}

// ParseCategory returns the canonical category for s.
func ParseCategory(s string) (Category, bool) {
	n := Category(normalize(s))
	for _, c := range Categories {
		if c == n {
			return c, true
		}
	}
	return "", false
}

// ParsePaymentMethod returns the canonical payment method for s.
func ParsePaymentMethod(s string) (PaymentMethod, bool) {
	n := PaymentMethod(normalize(s))
	for _, p := range PaymentMethods {
		if p == n {
			return p, true
		}
	}
	return "", false
}

// ParseRole returns the canonical role for s.
func ParseRole(s string) (Role, bool) {
	switch n := Role(normalize(s)); n {
	case RoleAdmin, RoleStaff:
		return n, true
	}
	return "", false
}

// ParseAccountStatus returns the canonical account status for s.
func ParseAccountStatus(s string) (AccountStatus, bool) {
	switch n := AccountStatus(normalize(s)); n {
	case AccountActive, AccountInactive:
		return n, true
	}
	return "", false
}

// ParseRestockStatus returns the canonical restock status for s.
func ParseRestockStatus(s string) (RestockStatus, bool) {
	switch n := RestockStatus(normalize(s)); n {
	case RestockPending, RestockReceived, RestockCancelled:
		return n, true
	}
	return "", false
}
