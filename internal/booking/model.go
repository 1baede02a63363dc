package booking

import (
	"time"

	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
)

var (
	ErrNotFound              = apperror.NotFound("booking not found")
	ErrFilterRequired        = apperror.Validation("email or status is required")
	ErrInvalidStatus         = apperror.Validation("invalid booking status")
	ErrInvalidDate           = apperror.Validation("date must be formatted as YYYY-MM-DD")
	ErrInvalidPrice          = apperror.Validation("pricePerSlot must be greater than zero")
	ErrInvalidAmount         = apperror.Validation("amount must be greater than zero")
	ErrTransactionIDRequired = apperror.Validation("transactionId is required")
	ErrPermissionDenied      = apperror.Forbidden("forbidden access")
)

// DateLayout is the calendar date format of Booking.Date.
const DateLayout = "2006-01-02"

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusConfirmed Status = "confirmed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusConfirmed:
		return true
	}
	return false
}

// Booking is a reservation of one or more slots of a court on a date.
// Cancelled bookings are deleted, so there is no cancelled status.
type Booking struct {
	ID            string
	CourtID       string
	UserName      string
	UserEmail     string
	Date          string
	Slots         []string
	PricePerSlot  float64
	TotalPrice    float64
	Status        Status
	CouponCode    *string // informational, not applied to TotalPrice
	TransactionID *string
	PaidAt        *time.Time
	CreatedAt     time.Time
}

// TransitionResult tells apart the outcomes of a conditional status update.
type TransitionResult int

const (
	TransitionApplied TransitionResult = iota
	// TransitionAlreadyInState means the booking exists but is already at or past the target status.
	TransitionAlreadyInState
	TransitionNotFound
)

func (r TransitionResult) String() string {
	switch r {
	case TransitionApplied:
		return "applied"
	case TransitionAlreadyInState:
		return "already_in_state"
	case TransitionNotFound:
		return "not_found"
	}
	return "unknown"
}

type Filter struct {
	Email     string
	Status    Status
	SortBy    string // created_at, date or total_price
	SortOrder string
}
