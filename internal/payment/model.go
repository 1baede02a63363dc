package payment

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

var (
	ErrBookingNotFound = apperror.NotFound("booking not found")
	ErrInvalidAmount   = apperror.Validation("totalPrice must be greater than zero")
	ErrAlreadyPaid     = apperror.Conflict("booking already paid")
)

// Payment is an append-only ledger row recorded when a booking is paid.
type Payment struct {
	ID            string    `db:"id" json:"id"`
	BookingID     string    `db:"booking_id" json:"bookingId"`
	Email         string    `db:"email" json:"email"`
	Amount        float64   `db:"amount" json:"amount"`
	TransactionID string    `db:"transaction_id" json:"transactionId"`
	PaidAt        time.Time `db:"paid_at" json:"paidAt"`
}
