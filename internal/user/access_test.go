package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

type roleMap map[string]Role

func (m roleMap) GetRole(_ context.Context, email string) (Role, error) {
	r, ok := m[email]
	if !ok {
		return "", ErrNotFound
	}
	return r, nil
}

func TestIsSelfOrAdmin(t *testing.T) {
	roles := roleMap{"ann@example.com": RoleMember, "root@example.com": RoleAdmin}
	ctx := context.Background()

	assert.True(t, IsSelfOrAdmin(ctx, roles, "ann@example.com", " Ann@Example.com"))
	assert.True(t, IsSelfOrAdmin(ctx, roles, "root@example.com", "ann@example.com"))
	assert.False(t, IsSelfOrAdmin(ctx, roles, "ann@example.com", "bob@example.com"))
	assert.False(t, IsSelfOrAdmin(ctx, roles, "", ""))
	assert.False(t, IsAdmin(ctx, roles, "ghost@example.com"))
}
