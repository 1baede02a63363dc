package http

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/court-rental-backend/internal/auth"
	"github.com/nekogravitycat/court-rental-backend/internal/booking"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/request"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/response"
	"github.com/nekogravitycat/court-rental-backend/internal/user"
)

type Handler struct {
	service booking.Service
	roles   user.RoleReader
}

func NewHandler(service booking.Service, roles user.RoleReader) *Handler {
	return &Handler{service: service, roles: roles}
}

// List handles GET /bookings?email=&status=.
// Access Control: email must be the caller's own unless admin; status alone needs admin.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	caller := auth.GetUserEmail(c)
	if req.Email != "" {
		if !user.IsSelfOrAdmin(ctx, h.roles, caller, req.Email) {
			response.Error(c, booking.ErrPermissionDenied)
			return
		}
	} else if req.Status != "" && !user.IsAdmin(ctx, h.roles, caller) {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}

	bookings, err := h.service.List(ctx, booking.Filter{
		Email:     req.Email,
		Status:    booking.Status(req.Status),
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, newBookingList(bookings))
}

// ListConfirmed handles GET /booking/confirmed?email=. Without email it lists the caller's own.
func (h *Handler) ListConfirmed(c *gin.Context) {
	var q ConfirmedQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	caller := auth.GetUserEmail(c)
	email := q.Email
	if email == "" {
		email = caller
	}
	if !user.IsSelfOrAdmin(ctx, h.roles, caller, email) {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}

	bookings, err := h.service.ListConfirmed(ctx, email)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, newBookingList(bookings))
}

// ListAllConfirmed handles GET /admin/confirmed/bookings.
// Access Control: admin only.
func (h *Handler) ListAllConfirmed(c *gin.Context) {
	bookings, err := h.service.ListConfirmed(c.Request.Context(), "")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, newBookingList(bookings))
}

func (h *Handler) Get(c *gin.Context) {
	b, ok := h.loadOwned(c)
	if !ok {
		return
	}
	response.OK(c, NewBookingResponse(b))
}

// Create handles POST /bookings. Callers book for themselves unless admin.
func (h *Handler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.UserEmail != "" && !user.IsSelfOrAdmin(ctx, h.roles, auth.GetUserEmail(c), req.UserEmail) {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}

	b, err := h.service.Create(ctx, booking.CreateRequest{
		CourtID:      req.CourtID,
		UserName:     req.UserName,
		UserEmail:    req.UserEmail,
		Date:         req.Date,
		Slots:        req.Slots,
		PricePerSlot: req.PricePerSlot,
		CouponCode:   req.CouponCode,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Booking created successfully", NewBookingResponse(b))
}

// Approve handles PUT /bookings/approve/:id.
// Access Control: admin only. A booking that is missing or no longer pending reads as not found.
func (h *Handler) Approve(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, booking.ErrNotFound)
		return
	}

	result, err := h.service.Approve(c.Request.Context(), uri.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result != booking.TransitionApplied {
		response.Error(c, booking.ErrNotFound)
		return
	}

	response.Message(c, "booking approved")
}

// Confirm handles PATCH /bookings/confirm/:id.
func (h *Handler) Confirm(c *gin.Context) {
	var req ConfirmBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	b, ok := h.loadOwned(c)
	if !ok {
		return
	}

	result, err := h.service.Confirm(c.Request.Context(), b.ID, req.TransactionID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if result != booking.TransitionApplied {
		response.Error(c, booking.ErrNotFound)
		return
	}

	response.Message(c, "booking confirmed")
}

// Cancel handles DELETE /bookings/:id regardless of status.
func (h *Handler) Cancel(c *gin.Context) {
	b, ok := h.loadOwned(c)
	if !ok {
		return
	}

	if err := h.service.Cancel(c.Request.Context(), b.ID); err != nil {
		response.Error(c, err)
		return
	}

	response.Message(c, "booking cancelled")
}

// SavePayment handles POST /payments/save. It records the payment and confirms the booking together.
func (h *Handler) SavePayment(c *gin.Context) {
	var req SavePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	caller := auth.GetUserEmail(c)
	if req.Email != "" && !user.IsSelfOrAdmin(ctx, h.roles, caller, req.Email) {
		response.Error(c, booking.ErrPermissionDenied)
		return
	}
	// Incomplete bodies fall through so the service lists every missing field.
	if strings.TrimSpace(req.BookingID) != "" && strings.TrimSpace(req.Email) != "" {
		b, err := h.service.Get(ctx, strings.TrimSpace(req.BookingID))
		if err != nil {
			response.Error(c, err)
			return
		}
		if !user.IsSelfOrAdmin(ctx, h.roles, caller, b.UserEmail) {
			response.Error(c, booking.ErrPermissionDenied)
			return
		}
	}

	p, err := h.service.RecordPayment(ctx, booking.PaymentInput{
		BookingID:     req.BookingID,
		Email:         req.Email,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "payment recorded", p)
}

// loadOwned binds :id and fetches the booking, writing the error response itself.
// Only the booking's owner or an admin passes.
func (h *Handler) loadOwned(c *gin.Context) (*booking.Booking, bool) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		response.Error(c, booking.ErrNotFound)
		return nil, false
	}

	ctx := c.Request.Context()
	b, err := h.service.Get(ctx, uri.ID)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}

	if !user.IsSelfOrAdmin(ctx, h.roles, auth.GetUserEmail(c), b.UserEmail) {
		response.Error(c, booking.ErrPermissionDenied)
		return nil, false
	}
	return b, true
}
