package user

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/clock"
)

// Service defines business logic related to users.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Authenticate(ctx context.Context, email, password string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetRole(ctx context.Context, email string) (Role, error)
	PromoteIfEligible(ctx context.Context, email string) (bool, error)
	List(ctx context.Context, filter UserFilter) ([]*User, int, error)
	ListMembers(ctx context.Context, name string, page, pageSize int) ([]*User, int, error)
	Delete(ctx context.Context, id string) error
}

// RegisterRequest carries self-registration input. Password is optional.
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
}

type service struct {
	repo   Repository
	hasher auth.PasswordHasher
	clock  clock.Clock
}

const minPasswordLength = 6

// NewService creates a new user Service.
func NewService(repo Repository, hasher auth.PasswordHasher, clk clock.Clock) Service {
	return &service{repo: repo, hasher: hasher, clock: clk}
}

func (req RegisterRequest) newUser() (*User, error) {
	u := &User{
		Email: normalizeEmail(req.Email),
		Name:  strings.TrimSpace(req.Name),
		Role:  RoleUser,
	}
	switch {
	case u.Email == "" || u.Name == "":
		return nil, ErrNameEmailRequired
	case req.Password != "" && len(req.Password) < minPasswordLength:
		return nil, ErrPasswordTooShort
	}
	return u, nil
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	u, err := req.newUser()
	if err != nil {
		return nil, err
	}

	switch _, err := s.repo.GetByEmail(ctx, u.Email); {
	case err == nil:
		return nil, ErrEmailAlreadyUsed
	case !errors.Is(err, ErrNotFound):
		return nil, errors.Wrap(err, "check existing email")
	}

	if req.Password != "" {
		hash, err := s.hasher.Hash(req.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = &hash
	}

	// Create maps a lost race on the unique email index to ErrEmailAlreadyUsed.
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Authenticate accepts any password for accounts registered without one.
func (s *service) Authenticate(ctx context.Context, email, password string) (*User, error) {
	u, err := s.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, errors.Wrap(err, "load account")
	case u.PasswordHash != nil && s.hasher.Compare(*u.PasswordHash, password) != nil:
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *service) GetByEmail(ctx context.Context, email string) (*User, error) {
	clean := normalizeEmail(email)
	if clean == "" {
		return nil, ErrNotFound
	}
	return s.repo.GetByEmail(ctx, clean)
}

func (s *service) GetRole(ctx context.Context, email string) (Role, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return u.EffectiveRole(), nil
}

func (s *service) PromoteIfEligible(ctx context.Context, email string) (bool, error) {
	clean := normalizeEmail(email)
	if clean == "" {
		return false, nil
	}
	return s.repo.Promote(ctx, clean, s.clock.Now())
}

func (s *service) List(ctx context.Context, filter UserFilter) ([]*User, int, error) {
	return s.repo.List(ctx, filter)
}

// ListMembers returns members, most recently promoted first.
func (s *service) ListMembers(ctx context.Context, name string, page, pageSize int) ([]*User, int, error) {
	return s.repo.List(ctx, UserFilter{
		Name:      strings.TrimSpace(name),
		Role:      RoleMember,
		Page:      page,
		PageSize:  pageSize,
		SortBy:    "member_since",
		SortOrder: "DESC",
	})
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
