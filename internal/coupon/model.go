package coupon

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound            = apperror.NotFound("coupon not found or expired")
	ErrCodeTaken           = apperror.Conflict("coupon code already exists")
	ErrUpdateFieldsMissing = apperror.Validation("code, name and numeric discount are required")
	ErrInvalidDiscount     = apperror.Validation("discount must be greater than zero")
	ErrPercentageTooLarge  = apperror.Validation("percentage discount cannot exceed 100")
	ErrInvalidDiscountType = apperror.Validation("discountType must be percentage or fixed")
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code. Code is stored uppercase.
type Coupon struct {
	ID           string
	Code         string
	Name         string
	Discount     float64
	DiscountType DiscountType
	Active       bool
	ExpiresAt    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsValidAt reports whether the coupon can be redeemed at t.
func (c *Coupon) IsValidAt(t time.Time) bool {
	return c.Active && (c.ExpiresAt == nil || c.ExpiresAt.After(t))
}
