package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/orderhub/backend/internal/domain/identity"
	"github.com/orderhub/backend/internal/infrastructure/auth"
)

// CreateUserRequest is the request to create a platform user.
// Supplier users must carry a supplier scope, customer users a node scope.
type CreateUserRequest struct {
	Username    string     `json:"username" binding:"required,min=3,max=50"`
	Password    string     `json:"password" binding:"required,min=8,max=128"`
	Email       string     `json:"email" binding:"omitempty,email"`
	DisplayName string     `json:"display_name" binding:"max=200"`
	Role        string     `json:"role" binding:"required"`
	SupplierID  *uuid.UUID `json:"supplier_id"`
	NodeID      *uuid.UUID `json:"node_id"`
	Active      bool       `json:"active"`
}

// UpdateUserRequest is the request to update user profile fields
type UpdateUserRequest struct {
	Email       *string `json:"email" binding:"omitempty,email"`
	DisplayName *string `json:"display_name" binding:"omitempty,max=200"`
}

// ChangePasswordRequest is the request to change the caller's own password
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// ResetPasswordRequest is the admin request to reset a user's password
type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required,min=8,max=128"`
}

// LoginRequest is the request to authenticate
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest is the request to rotate a token pair
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// UserListFilter holds the filters for listing users
type UserListFilter struct {
	SupplierID *uuid.UUID `form:"supplier_id"`
	NodeID     *uuid.UUID `form:"node_id"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir"`
}

// UserResponse is the API representation of a user
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	Email       string     `json:"email,omitempty"`
	DisplayName string     `json:"display_name,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	SupplierID  *uuid.UUID `json:"supplier_id,omitempty"`
	NodeID      *uuid.UUID `json:"node_id,omitempty"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	LockedUntil *time.Time `json:"locked_until,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// LoginResponse carries the token pair and the authenticated user
type LoginResponse struct {
	Tokens *auth.TokenPair `json:"tokens"`
	User   UserResponse    `json:"user"`
}

// ToUserResponse converts a user aggregate to its API representation
func ToUserResponse(u *identity.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Role:        string(u.Role),
		Status:      string(u.Status),
		SupplierID:  u.SupplierID,
		NodeID:      u.NodeID,
		LastLoginAt: u.LastLoginAt,
		LockedUntil: u.LockedUntil,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// ToUserResponses converts a slice of users
func ToUserResponses(users []identity.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i := range users {
		responses[i] = ToUserResponse(&users[i])
	}
	return responses
}
