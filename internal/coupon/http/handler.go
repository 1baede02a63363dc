package http

import (
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/coupon"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
)

type Handler struct {
	service coupon.Service
}

func NewHandler(service coupon.Service) *Handler {
	return &Handler{service: service}
}

// Validate handles GET /coupons/validate?code=.
func (h *Handler) Validate(c *gin.Context) {
	var q ValidateQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	v, err := h.service.Validate(c.Request.Context(), q.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, ValidationResponse{
		Code:         v.Code,
		Discount:     v.Discount,
		DiscountType: string(v.DiscountType),
	})
}

func (h *Handler) List(c *gin.Context) {
	coupons, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]CouponResponse, len(coupons))
	for i, cp := range coupons {
		items[i] = NewResponse(cp)
	}
	response.List(c, items)
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	cp, err := h.service.Create(c.Request.Context(), coupon.CreateRequest{
		Code:         req.Code,
		Name:         req.Name,
		Discount:     req.Discount,
		DiscountType: coupon.DiscountType(req.DiscountType),
		Active:       req.Active,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "coupon created", NewResponse(cp))
}

func (h *Handler) Update(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, coupon.ErrNotFound)
		return
	}

	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	var discountType *coupon.DiscountType
	if req.DiscountType != nil {
		dt := coupon.DiscountType(*req.DiscountType)
		discountType = &dt
	}

	cp, err := h.service.Update(c.Request.Context(), uri.ID, coupon.UpdateRequest{
		Code:         req.Code,
		Name:         req.Name,
		Discount:     req.Discount,
		DiscountType: discountType,
		Active:       req.Active,
		ExpiresAt:    req.ExpiresAt,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, NewResponse(cp))
}

func (h *Handler) Delete(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, coupon.ErrNotFound)
		return
	}

	if err := h.service.Delete(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "coupon deleted")
}
