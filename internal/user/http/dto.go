package http

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/court-rental-backend/internal/user"
)

// ListUsersRequest defines query parameters for listing users.
type ListUsersRequest struct {
	request.ListParams
	Email  string `form:"email"`
	Name   string `form:"name"`
	Role   string `form:"role" binding:"omitempty,oneof=user member admin"`
	SortBy string `form:"sort_by" binding:"omitempty,oneof=name email created_at member_since"`
}

// ListMembersRequest defines query parameters for GET /members.
type ListMembersRequest struct {
	request.ListParams
	Name string `form:"name"`
}

// EmailURI binds the :email path segment.
type EmailURI struct {
	Email string `uri:"email" binding:"required"`
}

// RegisterRequest defines the payload for user registration.
// Presence of name and email is checked by the service so the message stays stable.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password"`
}

// TokenRequest defines the payload for POST /jwt.
type TokenRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password"`
}

// UserResponse is the shape of user data returned in API responses.
type UserResponse struct {
	ID          string     `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	MemberSince *time.Time `json:"memberSince,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

// RoleResponse is returned by GET /users/role/:email.
type RoleResponse struct {
	UserRole string `json:"userRole"`
}

// NewUserResponse converts domain user.User to UserResponse used by the API.
func NewUserResponse(u *user.User) UserResponse {
	var memberSince *time.Time
	if u.MemberSince != nil {
		ms := *u.MemberSince
		memberSince = &ms
	}

	return UserResponse{
		ID:          u.ID,
		Email:       u.Email,
		Name:        u.Name,
		Role:        string(u.EffectiveRole()),
		MemberSince: memberSince,
		CreatedAt:   u.CreatedAt,
	}
}
