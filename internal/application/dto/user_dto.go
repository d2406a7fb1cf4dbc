package dto

import "time"

// CreateUserRequest body for POST /api/users. The password is hashed before storage.
type CreateUserRequest struct {
	Code     string `json:"code,omitempty" validate:"omitempty,max=20"`
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required"`
	Notes    string `json:"notes,omitempty" validate:"max=1000"`
}

// SetUserStatusRequest body for PATCH /api/users/:code/status.
type SetUserStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// UserResponse public view of a user (no password hash).
type UserResponse struct {
	Code      string     `json:"code"`
	Username  string     `json:"username"`
	Email     string     `json:"email,omitempty"`
	Role      string     `json:"role"`
	Status    string     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login,omitempty"`
}

// UserListResponse paged list of users.
type UserListResponse struct {
	Users []UserResponse `json:"users"`
	Page  PageResponse   `json:"page"`
}
