package dto

import "time"

// CreateSupplierRequest body for POST /api/suppliers.
type CreateSupplierRequest struct {
	Code          string `json:"code,omitempty" validate:"omitempty,max=20"`
	Name          string `json:"name" validate:"required,max=200"`
	ContactPerson string `json:"contact_person,omitempty" validate:"max=200"`
	Phone         string `json:"phone,omitempty" validate:"max=50"`
	Email         string `json:"email,omitempty" validate:"omitempty,email"`
	Address       string `json:"address,omitempty" validate:"max=500"`
	PaymentTerms  string `json:"payment_terms,omitempty" validate:"max=100"`
	Notes         string `json:"notes,omitempty" validate:"max=1000"`
}

// UpdateSupplierRequest body for PUT /api/suppliers/:code.
type UpdateSupplierRequest struct {
	Name          *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	ContactPerson *string `json:"contact_person,omitempty" validate:"omitempty,max=200"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Email         *string `json:"email,omitempty" validate:"omitempty,email"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	PaymentTerms  *string `json:"payment_terms,omitempty" validate:"omitempty,max=100"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// SupplierResponse public view of a supplier.
type SupplierResponse struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	ContactPerson string    `json:"contact_person,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	PaymentTerms  string    `json:"payment_terms,omitempty"`
	Notes         string    `json:"notes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// SupplierListResponse paged list of suppliers.
type SupplierListResponse struct {
	Suppliers []SupplierResponse `json:"suppliers"`
	Page      PageResponse       `json:"page"`
}
