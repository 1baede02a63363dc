package http

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/coupon"
)

type CouponResponse struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Discount     float64    `json:"discount"`
	DiscountType string     `json:"discountType"`
	Active       bool       `json:"active"`
	ExpiresAt    *time.Time `json:"expiresAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func NewResponse(c *coupon.Coupon) CouponResponse {
	return CouponResponse{
		ID:           c.ID,
		Code:         c.Code,
		Name:         c.Name,
		Discount:     c.Discount,
		DiscountType: string(c.DiscountType),
		Active:       c.Active,
		ExpiresAt:    c.ExpiresAt,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

type ValidateQuery struct {
	Code string `form:"code" binding:"required"`
}

type ValidationResponse struct {
	Code         string  `json:"code"`
	Discount     float64 `json:"discount"`
	DiscountType string  `json:"discountType"`
}

type CreateRequest struct {
	Code         string     `json:"code"`
	Name         string     `json:"name"`
	Discount     float64    `json:"discount"`
	DiscountType string     `json:"discountType" binding:"omitempty,oneof=percentage fixed"`
	Active       *bool      `json:"active"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}

type UpdateRequest struct {
	Code         *string    `json:"code"`
	Name         *string    `json:"name"`
	Discount     *float64   `json:"discount"`
	DiscountType *string    `json:"discountType" binding:"omitempty,oneof=percentage fixed"`
	Active       *bool      `json:"active"`
	ExpiresAt    *time.Time `json:"expiresAt"`
}
