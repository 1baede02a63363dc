package user

import (
	"context"
	"strings"
)

// RoleReader resolves the stored role of an account.
type RoleReader interface {
	GetRole(ctx context.Context, email string) (Role, error)
}

// IsAdmin reports whether email currently holds the admin role.
// Lookup failures count as not admin.
func IsAdmin(ctx context.Context, roles RoleReader, email string) bool {
	if email == "" {
		return false
	}
	role, err := roles.GetRole(ctx, email)
	return err == nil && role == RoleAdmin
}

// IsSelfOrAdmin reports whether caller may act on data owned by owner.
func IsSelfOrAdmin(ctx context.Context, roles RoleReader, caller, owner string) bool {
	if caller == "" {
		return false
	}
	if strings.EqualFold(caller, strings.TrimSpace(owner)) {
		return true
	}
	return IsAdmin(ctx, roles, caller)
}
