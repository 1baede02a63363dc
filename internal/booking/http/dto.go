package http

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/booking"
)

type ListBookingsRequest struct {
	Email     string `form:"email" binding:"omitempty,email"`
	Status    string `form:"status" binding:"omitempty,oneof=pending approved confirmed"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=created_at date total_price"`
	SortOrder string `form:"sort_order" binding:"omitempty,oneof=asc desc ASC DESC"`
}

type ConfirmedQuery struct {
	Email string `form:"email" binding:"omitempty,email"`
}

// CreateBookingRequest leaves presence checks to the service so that every
// missing field is reported at once.
type CreateBookingRequest struct {
	CourtID      string   `json:"courtId"`
	UserName     string   `json:"userName"`
	UserEmail    string   `json:"userEmail" binding:"omitempty,email"`
	Date         string   `json:"date"`
	Slots        []string `json:"slots" binding:"omitempty,dive,timeslot"`
	PricePerSlot float64  `json:"pricePerSlot"`
	CouponCode   string   `json:"couponCode"`
}

type ConfirmBookingRequest struct {
	TransactionID string `json:"transactionId"`
}

type SavePaymentRequest struct {
	BookingID     string  `json:"bookingId"`
	Email         string  `json:"email" binding:"omitempty,email"`
	Amount        float64 `json:"amount"`
	TransactionID string  `json:"transactionId"`
}

type BookingResponse struct {
	ID            string     `json:"id"`
	CourtID       string     `json:"courtId"`
	UserName      string     `json:"userName"`
	UserEmail     string     `json:"userEmail"`
	Date          string     `json:"date"`
	Slots         []string   `json:"slots"`
	PricePerSlot  float64    `json:"pricePerSlot"`
	TotalPrice    float64    `json:"totalPrice"`
	Status        string     `json:"status"`
	CouponCode    *string    `json:"couponCode,omitempty"`
	TransactionID *string    `json:"transactionId,omitempty"`
	PaidAt        *time.Time `json:"paidAt,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	slots := b.Slots
	if slots == nil {
		slots = []string{}
	}
	return BookingResponse{
		ID:            b.ID,
		CourtID:       b.CourtID,
		UserName:      b.UserName,
		UserEmail:     b.UserEmail,
		Date:          b.Date,
		Slots:         slots,
		PricePerSlot:  b.PricePerSlot,
		TotalPrice:    b.TotalPrice,
		Status:        string(b.Status),
		CouponCode:    b.CouponCode,
		TransactionID: b.TransactionID,
		PaidAt:        b.PaidAt,
		CreatedAt:     b.CreatedAt,
	}
}

func newBookingList(bookings []*booking.Booking) []BookingResponse {
	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	return items
}
