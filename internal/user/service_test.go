package user

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/clock"
)

// fakeRepo is an in-memory Repository keyed by email.
type fakeRepo struct {
	users map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[string]*User{}}
}

func (f *fakeRepo) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeRepo) Create(_ context.Context, u *User) error {
	if _, ok := f.users[u.Email]; ok {
		return ErrEmailAlreadyUsed
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()
	cp := *u
	f.users[u.Email] = &cp
	return nil
}

func (f *fakeRepo) List(_ context.Context, filter UserFilter) ([]*User, int, error) {
	var out []*User
	for _, u := range f.users {
		if filter.Role != "" && u.Role != filter.Role {
			continue
		}
		if filter.Name != "" && !strings.Contains(strings.ToLower(u.Name), strings.ToLower(filter.Name)) {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, len(out), nil
}

func (f *fakeRepo) Promote(_ context.Context, email string, at time.Time) (bool, error) {
	u, ok := f.users[email]
	if !ok || (u.Role != RoleUser && u.Role != "") {
		return false, nil
	}
	u.Role = RoleMember
	u.MemberSince = &at
	return true, nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
			return nil
		}
	}
	return ErrNotFound
}

func newTestService(t *testing.T) (Service, *fakeRepo, *clock.Fixed) {
	t.Helper()
	repo := newFakeRepo()
	clk := &clock.Fixed{T: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}
	return NewService(repo, auth.NewBcryptPasswordHasher(bcrypt.MinCost), clk), repo, clk
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate email conflicts", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		u, err := svc.Register(ctx, RegisterRequest{Name: "Alice", Email: "Alice@Example.com"})
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", u.Email)
		assert.Equal(t, RoleUser, u.Role)
		assert.Nil(t, u.PasswordHash)

		_, err = svc.Register(ctx, RegisterRequest{Name: "Alice Again", Email: "alice@example.com"})
		assert.ErrorIs(t, err, ErrEmailAlreadyUsed)
	})

	t.Run("name and email required", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Register(ctx, RegisterRequest{Email: "bob@example.com"})
		assert.ErrorIs(t, err, ErrNameEmailRequired)

		_, err = svc.Register(ctx, RegisterRequest{Name: "Bob", Email: "   "})
		assert.ErrorIs(t, err, ErrNameEmailRequired)
	})

	t.Run("password is hashed", func(t *testing.T) {
		svc, repo, _ := newTestService(t)

		_, err := svc.Register(ctx, RegisterRequest{Name: "Carol", Email: "carol@example.com", Password: "secret1"})
		require.NoError(t, err)

		stored := repo.users["carol@example.com"]
		require.NotNil(t, stored.PasswordHash)
		assert.NotEqual(t, "secret1", *stored.PasswordHash)

		_, err = svc.Register(ctx, RegisterRequest{Name: "Dan", Email: "dan@example.com", Password: "123"})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t)

	_, err := svc.Register(ctx, RegisterRequest{Name: "Pat", Email: "pat@example.com", Password: "secret1"})
	require.NoError(t, err)
	_, err = svc.Register(ctx, RegisterRequest{Name: "Sam", Email: "sam@example.com"})
	require.NoError(t, err)

	u, err := svc.Authenticate(ctx, "PAT@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", u.Email)

	_, err = svc.Authenticate(ctx, "pat@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "sam@example.com", "")
	assert.NoError(t, err)

	_, err = svc.Authenticate(ctx, "nobody@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestGetRole(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	_, err := svc.GetRole(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrNotFound)

	repo.users["legacy@example.com"] = &User{ID: uuid.NewString(), Email: "legacy@example.com", Name: "Legacy"}
	role, err := svc.GetRole(ctx, "legacy@example.com")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, role)
}

func TestPromoteIfEligible(t *testing.T) {
	ctx := context.Background()
	svc, repo, clk := newTestService(t)

	for _, u := range []*User{
		{Email: "user@example.com", Name: "U", Role: RoleUser},
		{Email: "member@example.com", Name: "M", Role: RoleMember},
		{Email: "admin@example.com", Name: "A", Role: RoleAdmin},
	} {
		require.NoError(t, repo.Create(ctx, u))
	}

	promoted, err := svc.PromoteIfEligible(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, promoted)

	u, err := svc.GetByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, RoleMember, u.Role)
	require.NotNil(t, u.MemberSince)
	assert.Equal(t, clk.Now(), *u.MemberSince)

	// Second call is a no-op and keeps the original timestamp.
	clk.Add(time.Hour)
	promoted, err = svc.PromoteIfEligible(ctx, "user@example.com")
	require.NoError(t, err)
	assert.False(t, promoted)
	u, _ = svc.GetByEmail(ctx, "user@example.com")
	assert.Equal(t, clk.Now().Add(-time.Hour), *u.MemberSince)

	for _, email := range []string{"member@example.com", "admin@example.com"} {
		promoted, err := svc.PromoteIfEligible(ctx, email)
		require.NoError(t, err)
		assert.False(t, promoted, email)
	}
	admin, _ := svc.GetByEmail(ctx, "admin@example.com")
	assert.Equal(t, RoleAdmin, admin.Role)
}

func TestListMembers(t *testing.T) {
	ctx := context.Background()
	svc, repo, _ := newTestService(t)

	require.NoError(t, repo.Create(ctx, &User{Email: "a@example.com", Name: "Alice", Role: RoleMember}))
	require.NoError(t, repo.Create(ctx, &User{Email: "b@example.com", Name: "Bob", Role: RoleMember}))
	require.NoError(t, repo.Create(ctx, &User{Email: "c@example.com", Name: "Alina", Role: RoleUser}))

	members, total, err := svc.ListMembers(ctx, "ali", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, members, 1)
	assert.Equal(t, "a@example.com", members[0].Email)
}
