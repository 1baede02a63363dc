package user

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound           = apperror.NotFound("user not found")
	ErrEmailAlreadyUsed   = apperror.Conflict("user already exists")
	ErrNameEmailRequired  = apperror.Validation("name and email are required")
	ErrInvalidCredentials = apperror.Unauthorized("invalid email or password")
	ErrPasswordTooShort   = apperror.Validation("password must be at least 6 characters")
)

type Role string

const (
	RoleUser   Role = "user"
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// User represents a registered account. Email is the identity key.
type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	Name         string     `db:"name"`
	PasswordHash *string    `db:"password_hash"`
	Role         Role       `db:"role"`
	MemberSince  *time.Time `db:"member_since"`
	CreatedAt    time.Time  `db:"created_at"`
}

// EffectiveRole returns the stored role, or RoleUser when unset.
func (u *User) EffectiveRole() Role {
	if u.Role == "" {
		return RoleUser
	}
	return u.Role
}

// UserFilter defines filter options for listing users.
type UserFilter struct {
	Email string
	Name  string
	Role  Role

	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
