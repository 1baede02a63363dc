package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/clock"
)

type CreateRequest struct {
	Code         string
	Name         string
	Discount     float64
	DiscountType DiscountType // defaults to percentage
	Active       *bool        // defaults to true
	ExpiresAt    *time.Time
}

// UpdateRequest requires Code, Name and Discount. The rest keep their stored value when nil.
type UpdateRequest struct {
	Code         *string
	Name         *string
	Discount     *float64
	DiscountType *DiscountType
	Active       *bool
	ExpiresAt    *time.Time
}

// Validation is the public view of a redeemable coupon.
type Validation struct {
	Code         string
	Discount     float64
	DiscountType DiscountType
}

type Service interface {
	Validate(ctx context.Context, code string) (*Validation, error)
	Create(ctx context.Context, req CreateRequest) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Coupon, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo  Repository
	clock clock.Clock
}

func NewService(repo Repository, clk clock.Clock) Service {
	return &service{repo: repo, clock: clk}
}

// normalizeCode makes code lookups case-insensitive.
func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *service) Validate(ctx context.Context, code string) (*Validation, error) {
	normalized := normalizeCode(code)
	if normalized == "" {
		return nil, ErrNotFound
	}

	c, err := s.repo.GetByCode(ctx, normalized)
	if err != nil {
		return nil, err
	}
	if !c.IsValidAt(s.clock.Now()) {
		return nil, ErrNotFound
	}

	return &Validation{
		Code:         c.Code,
		Discount:     c.Discount,
		DiscountType: c.DiscountType,
	}, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Coupon, error) {
	var missing []string
	if normalizeCode(req.Code) == "" {
		missing = append(missing, "code")
	}
	if strings.TrimSpace(req.Name) == "" {
		missing = append(missing, "name")
	}
	if req.Discount == 0 {
		missing = append(missing, "discount")
	}
	if len(missing) > 0 {
		return nil, apperror.MissingFields(missing...)
	}

	c := &Coupon{
		Code:         normalizeCode(req.Code),
		Name:         strings.TrimSpace(req.Name),
		Discount:     req.Discount,
		DiscountType: req.DiscountType,
		Active:       true,
		ExpiresAt:    req.ExpiresAt,
	}
	if c.DiscountType == "" {
		c.DiscountType = DiscountPercentage
	}
	if req.Active != nil {
		c.Active = *req.Active
	}

	if err := validateDiscount(c); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) List(ctx context.Context) ([]*Coupon, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id string, req UpdateRequest) (*Coupon, error) {
	if req.Code == nil || req.Name == nil || req.Discount == nil ||
		normalizeCode(*req.Code) == "" || strings.TrimSpace(*req.Name) == "" {
		return nil, ErrUpdateFieldsMissing
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	c.Code = normalizeCode(*req.Code)
	c.Name = strings.TrimSpace(*req.Name)
	c.Discount = *req.Discount
	if req.DiscountType != nil {
		c.DiscountType = *req.DiscountType
	}
	if req.Active != nil {
		c.Active = *req.Active
	}
	if req.ExpiresAt != nil {
		c.ExpiresAt = req.ExpiresAt
	}

	if err := validateDiscount(c); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func validateDiscount(c *Coupon) error {
	switch c.DiscountType {
	case DiscountPercentage:
		if c.Discount > 100 {
			return ErrPercentageTooLarge
		}
	case DiscountFixed:
	default:
		return ErrInvalidDiscountType
	}
	if c.Discount <= 0 {
		return ErrInvalidDiscount
	}
	return nil
}
