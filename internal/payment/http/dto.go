package http

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/payment"
)

type ListPaymentsQuery struct {
	Email string `form:"email" binding:"required,email"`
}

type CreateIntentRequest struct {
	TotalPrice float64 `json:"totalPrice"`
}

type IntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

type PaymentResponse struct {
	ID            string    `json:"id"`
	BookingID     string    `json:"bookingId"`
	Email         string    `json:"email"`
	Amount        float64   `json:"amount"`
	TransactionID string    `json:"transactionId"`
	PaidAt        time.Time `json:"paidAt"`
}

func NewPaymentResponse(p *payment.Payment) PaymentResponse {
	return PaymentResponse{
		ID:            p.ID,
		BookingID:     p.BookingID,
		Email:         p.Email,
		Amount:        p.Amount,
		TransactionID: p.TransactionID,
		PaidAt:        p.PaidAt,
	}
}
