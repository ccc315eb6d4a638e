package model

import "time"

const (
	RoleAdmin      = "admin"
	RoleUser       = "user"
	RoleStoreOwner = "store_owner"
)

// User represents an account in the system
type User struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Do not expose password hash in JSON responses
	Address      string    `json:"address"`
	Role         string    `json:"role"`
	StoreID      *int      `json:"storeId,omitempty"` // Set iff Role is store_owner
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserSummary is the public subset of a user attached to other resources
type UserSummary struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// UserDetail is a user together with the summary of the store they own, if any
type UserDetail struct {
	User
	Store *StoreSummary `json:"store,omitempty"`
}

// RegisterRequest is the body of a self-registration request
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=20,max=60"`
	Email    string `json:"email" binding:"required,email"`
	Address  string `json:"address" binding:"required,max=400"`
	Password string `json:"password" binding:"required,password"`
}

// LoginRequest is the body of a login request
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// CreateUserRequest is used by admins to create admin or normal accounts
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=20,max=60"`
	Email    string `json:"email" binding:"required,email"`
	Address  string `json:"address" binding:"required,max=400"`
	Password string `json:"password" binding:"required,password"`
	Role     string `json:"role" binding:"omitempty,oneof=admin user"`
}

// UpdatePasswordRequest is the body of a password change
type UpdatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,password"`
}

// UserFilters contains search parameters for the admin user listing
type UserFilters struct {
	Search string
	Role   string
	Sort   Sort
	Page   Page
}
