package booking

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/nekogravitycat/court-rental-backend/internal/events"
	"github.com/nekogravitycat/court-rental-backend/internal/payment"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/clock"
)

type CreateRequest struct {
	CourtID      string
	UserName     string
	UserEmail    string
	Date         string
	Slots        []string
	PricePerSlot float64
	CouponCode   string
}

type PaymentInput struct {
	BookingID     string
	Email         string
	Amount        float64
	TransactionID string
}

// Promoter upgrades a user to member after their first approved booking.
type Promoter interface {
	PromoteIfEligible(ctx context.Context, email string) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	Get(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	// ListConfirmed lists confirmed bookings of email, or of everyone when email is empty.
	ListConfirmed(ctx context.Context, email string) ([]*Booking, error)
	Approve(ctx context.Context, id string) (TransitionResult, error)
	Confirm(ctx context.Context, id, transactionID string) (TransitionResult, error)
	RecordPayment(ctx context.Context, in PaymentInput) (*payment.Payment, error)
	Cancel(ctx context.Context, id string) error
}

type service struct {
	repo      Repository
	ledger    payment.Ledger
	promoter  Promoter
	publisher events.Publisher
	clock     clock.Clock
	log       logrus.FieldLogger
}

func NewService(
	repo Repository,
	ledger payment.Ledger,
	promoter Promoter,
	publisher events.Publisher,
	clk clock.Clock,
	log logrus.FieldLogger,
) Service {
	return &service{
		repo:      repo,
		ledger:    ledger,
		promoter:  promoter,
		publisher: publisher,
		clock:     clk,
		log:       log,
	}
}

// eventData is the payload of booking events.
type eventData struct {
	BookingID     string  `json:"bookingId"`
	CourtID       string  `json:"courtId,omitempty"`
	UserEmail     string  `json:"userEmail,omitempty"`
	Status        Status  `json:"status,omitempty"`
	TotalPrice    float64 `json:"totalPrice,omitempty"`
	TransactionID string  `json:"transactionId,omitempty"`
}

func newEventData(b *Booking) eventData {
	d := eventData{
		BookingID:  b.ID,
		CourtID:    b.CourtID,
		UserEmail:  b.UserEmail,
		Status:     b.Status,
		TotalPrice: b.TotalPrice,
	}
	if b.TransactionID != nil {
		d.TransactionID = *b.TransactionID
	}
	return d
}

func (s *service) publish(ctx context.Context, key string, data any) {
	if err := s.publisher.Publish(ctx, key, data); err != nil {
		s.log.WithError(err).WithField("event", key).Warn("publish event failed")
	}
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	var missing []string
	if strings.TrimSpace(req.CourtID) == "" {
		missing = append(missing, "courtId")
	}
	if len(req.Slots) == 0 {
		missing = append(missing, "slots")
	}
	if strings.TrimSpace(req.Date) == "" {
		missing = append(missing, "date")
	}
	if req.PricePerSlot == 0 {
		missing = append(missing, "pricePerSlot")
	}
	if strings.TrimSpace(req.UserEmail) == "" {
		missing = append(missing, "userEmail")
	}
	if len(missing) > 0 {
		return nil, apperror.MissingFields(missing...)
	}

	date := strings.TrimSpace(req.Date)
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}
	if req.PricePerSlot < 0 {
		return nil, ErrInvalidPrice
	}

	b := &Booking{
		CourtID:      strings.TrimSpace(req.CourtID),
		UserName:     strings.TrimSpace(req.UserName),
		UserEmail:    normalizeEmail(req.UserEmail),
		Date:         date,
		Slots:        req.Slots,
		PricePerSlot: req.PricePerSlot,
		TotalPrice:   float64(len(req.Slots)) * req.PricePerSlot,
		Status:       StatusPending,
		CreatedAt:    s.clock.Now(),
	}
	if code := strings.ToUpper(strings.TrimSpace(req.CouponCode)); code != "" {
		b.CouponCode = &code
	}

	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.publish(ctx, events.BookingCreated, newEventData(b))
	return b, nil
}

func (s *service) Get(ctx context.Context, id string) (*Booking, error) {
	if !isUUID(id) {
		return nil, ErrNotFound
	}
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	filter.Email = normalizeEmail(filter.Email)
	if filter.Email == "" && filter.Status == "" {
		return nil, ErrFilterRequired
	}
	if filter.Email != "" && filter.Status == "" {
		filter.Status = StatusPending
	}
	if !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	filter.SortOrder = strings.ToUpper(filter.SortOrder)

	return s.repo.List(ctx, filter)
}

func (s *service) ListConfirmed(ctx context.Context, email string) ([]*Booking, error) {
	return s.repo.List(ctx, Filter{
		Email:  normalizeEmail(email),
		Status: StatusConfirmed,
	})
}

func (s *service) Approve(ctx context.Context, id string) (TransitionResult, error) {
	if !isUUID(id) {
		return TransitionNotFound, nil
	}

	result, err := s.repo.Approve(ctx, id)
	if err != nil || result != TransitionApplied {
		return result, err
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		// The approval stands even if the follow-up read fails.
		s.log.WithError(err).WithField("booking_id", id).Error("load approved booking failed")
		return result, nil
	}

	s.promote(ctx, b.UserEmail)
	s.publish(ctx, events.BookingApproved, newEventData(b))
	return result, nil
}

// promote is best effort: a failure is logged and never undoes the approval.
func (s *service) promote(ctx context.Context, email string) {
	promoted, err := s.promoter.PromoteIfEligible(ctx, email)
	if err != nil {
		s.log.WithError(err).WithField("user_email", email).Error("promote user to member failed")
		return
	}
	if promoted {
		s.log.WithField("user_email", email).Info("user promoted to member")
		s.publish(ctx, events.MemberPromoted, map[string]string{"email": email})
	}
}

func (s *service) Confirm(ctx context.Context, id, transactionID string) (TransitionResult, error) {
	transactionID = strings.TrimSpace(transactionID)
	if transactionID == "" {
		return TransitionNotFound, ErrTransactionIDRequired
	}
	if !isUUID(id) {
		return TransitionNotFound, nil
	}

	result, err := s.repo.Confirm(ctx, id, transactionID, s.clock.Now())
	if err != nil || result != TransitionApplied {
		return result, err
	}

	s.publish(ctx, events.BookingConfirmed, eventData{
		BookingID:     id,
		Status:        StatusConfirmed,
		TransactionID: transactionID,
	})
	return result, nil
}

func (s *service) RecordPayment(ctx context.Context, in PaymentInput) (*payment.Payment, error) {
	var missing []string
	if strings.TrimSpace(in.BookingID) == "" {
		missing = append(missing, "bookingId")
	}
	if strings.TrimSpace(in.Email) == "" {
		missing = append(missing, "email")
	}
	if in.Amount == 0 {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(in.TransactionID) == "" {
		missing = append(missing, "transactionId")
	}
	if len(missing) > 0 {
		return nil, apperror.MissingFields(missing...)
	}
	if in.Amount < 0 {
		return nil, ErrInvalidAmount
	}

	bookingID := strings.TrimSpace(in.BookingID)
	if !isUUID(bookingID) {
		return nil, ErrNotFound
	}

	p := &payment.Payment{
		BookingID:     bookingID,
		Email:         normalizeEmail(in.Email),
		Amount:        in.Amount,
		TransactionID: strings.TrimSpace(in.TransactionID),
		PaidAt:        s.clock.Now(),
	}
	if err := s.ledger.Record(ctx, p); err != nil {
		if errors.Is(err, payment.ErrBookingNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	s.publish(ctx, events.PaymentRecorded, p)
	return p, nil
}

func (s *service) Cancel(ctx context.Context, id string) error {
	if !isUUID(id) {
		return ErrNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, events.BookingCancelled, eventData{BookingID: id})
	return nil
}
