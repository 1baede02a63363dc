package booking

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/court-rental-backend/internal/events"
	"github.com/nekogravitycat/court-rental-backend/internal/payment"
	"github.com/nekogravitycat/court-rental-backend/internal/pkg/clock"
)

// fakeRepo keeps bookings in insertion order.
type fakeRepo struct {
	rows []*Booking
	byID map[string]*Booking
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byID: map[string]*Booking{}}
}

func (r *fakeRepo) Create(_ context.Context, b *Booking) error {
	b.ID = uuid.NewString()
	stored := *b
	r.rows = append(r.rows, &stored)
	r.byID[b.ID] = &stored
	return nil
}

func (r *fakeRepo) GetByID(_ context.Context, id string) (*Booking, error) {
	b, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *b
	return &out, nil
}

func (r *fakeRepo) List(_ context.Context, f Filter) ([]*Booking, error) {
	out := []*Booking{}
	for _, b := range r.rows {
		if f.Email != "" && b.UserEmail != f.Email {
			continue
		}
		if f.Status != "" && b.Status != f.Status {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	if f.SortBy == "total_price" {
		sort.SliceStable(out, func(i, j int) bool { return out[i].TotalPrice < out[j].TotalPrice })
	}
	return out, nil
}

func (r *fakeRepo) Approve(_ context.Context, id string) (TransitionResult, error) {
	b, ok := r.byID[id]
	if !ok {
		return TransitionNotFound, nil
	}
	if b.Status != StatusPending {
		return TransitionAlreadyInState, nil
	}
	b.Status = StatusApproved
	return TransitionApplied, nil
}

func (r *fakeRepo) Confirm(_ context.Context, id, transactionID string, paidAt time.Time) (TransitionResult, error) {
	b, ok := r.byID[id]
	if !ok {
		return TransitionNotFound, nil
	}
	if b.Status == StatusConfirmed {
		return TransitionAlreadyInState, nil
	}
	r.confirm(b, transactionID, paidAt)
	return TransitionApplied, nil
}

func (r *fakeRepo) confirm(b *Booking, transactionID string, paidAt time.Time) {
	b.Status = StatusConfirmed
	b.TransactionID = &transactionID
	b.PaidAt = &paidAt
}

func (r *fakeRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return ErrNotFound
	}
	delete(r.byID, id)
	for i, b := range r.rows {
		if b.ID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			break
		}
	}
	return nil
}

// fakeLedger writes the payment and confirms the booking together, like the sqlx ledger.
type fakeLedger struct {
	repo     *fakeRepo
	payments []*payment.Payment
}

func (l *fakeLedger) Record(_ context.Context, p *payment.Payment) error {
	b, ok := l.repo.byID[p.BookingID]
	if !ok {
		return payment.ErrBookingNotFound
	}
	l.repo.confirm(b, p.TransactionID, p.PaidAt)
	p.ID = uuid.NewString()
	l.payments = append(l.payments, p)
	return nil
}

func (l *fakeLedger) ListByEmail(_ context.Context, email string) ([]*payment.Payment, error) {
	out := []*payment.Payment{}
	for _, p := range l.payments {
		if p.Email == email {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakePromoter struct {
	roles map[string]string
	err   error
}

func (p *fakePromoter) PromoteIfEligible(_ context.Context, email string) (bool, error) {
	if p.err != nil {
		return false, p.err
	}
	if p.roles[email] != "user" {
		return false, nil
	}
	p.roles[email] = "member"
	return true, nil
}

type fixture struct {
	svc      Service
	repo     *fakeRepo
	ledger   *fakeLedger
	promoter *fakePromoter
	events   *events.Recorder
	clock    *clock.Fixed
	logs     *test.Hook
}

func newFixture() *fixture {
	repo := newFakeRepo()
	f := &fixture{
		repo:     repo,
		ledger:   &fakeLedger{repo: repo},
		promoter: &fakePromoter{roles: map[string]string{"ann@example.com": "user"}},
		events:   &events.Recorder{},
		clock:    &clock.Fixed{T: time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)},
	}
	log, hook := test.NewNullLogger()
	f.logs = hook
	f.svc = NewService(f.repo, f.ledger, f.promoter, f.events, f.clock, log)
	return f
}

func sampleRequest() CreateRequest {
	return CreateRequest{
		CourtID:      "C1",
		UserName:     "Ann",
		UserEmail:    "ann@example.com",
		Date:         "2025-04-02",
		Slots:        []string{"10:00", "11:00"},
		PricePerSlot: 20,
	}
}

func TestBookingLifecycle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, sampleRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)

	want := &Booking{
		CourtID:      "C1",
		UserName:     "Ann",
		UserEmail:    "ann@example.com",
		Date:         "2025-04-02",
		Slots:        []string{"10:00", "11:00"},
		PricePerSlot: 20,
		TotalPrice:   40,
		Status:       StatusPending,
		CreatedAt:    f.clock.T,
	}
	if diff := cmp.Diff(want, b, cmpopts.IgnoreFields(Booking{}, "ID")); diff != "" {
		t.Errorf("created booking mismatch (-want +got):\n%s", diff)
	}

	pending, err := f.svc.List(ctx, Filter{Email: "ann@example.com"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, b.ID, pending[0].ID)

	result, err := f.svc.Approve(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, TransitionApplied, result)
	assert.Equal(t, "member", f.promoter.roles["ann@example.com"])

	f.clock.Add(time.Hour)
	result, err = f.svc.Confirm(ctx, b.ID, "tx_1")
	require.NoError(t, err)
	assert.Equal(t, TransitionApplied, result)

	got, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	require.NotNil(t, got.TransactionID)
	assert.Equal(t, "tx_1", *got.TransactionID)
	require.NotNil(t, got.PaidAt)
	assert.Equal(t, f.clock.T, *got.PaidAt)

	confirmed, err := f.svc.ListConfirmed(ctx, "ANN@example.com")
	require.NoError(t, err)
	require.Len(t, confirmed, 1)

	assert.Equal(t, []string{
		events.BookingCreated,
		events.MemberPromoted,
		events.BookingApproved,
		events.BookingConfirmed,
	}, f.events.Types())
}

func TestCreateMissingFields(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Create(context.Background(), CreateRequest{})
	require.Error(t, err)
	assert.Equal(t, "missing required fields: courtId, slots, date, pricePerSlot, userEmail", err.Error())

	req := sampleRequest()
	req.Slots = nil
	req.UserEmail = " "
	_, err = f.svc.Create(context.Background(), req)
	assert.EqualError(t, err, "missing required fields: slots, userEmail")
	assert.Empty(t, f.repo.rows)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()

	req := sampleRequest()
	req.Date = "04/02/2025"
	_, err := f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidDate)

	req = sampleRequest()
	req.PricePerSlot = -1
	_, err = f.svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidPrice)
}

func TestCreateStoresCouponWithoutDiscount(t *testing.T) {
	f := newFixture()
	req := sampleRequest()
	req.CouponCode = "save10"

	b, err := f.svc.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, b.CouponCode)
	assert.Equal(t, "SAVE10", *b.CouponCode)
	assert.Equal(t, 40.0, b.TotalPrice)
}

func TestTotalPriceIsSlotsTimesPrice(t *testing.T) {
	f := newFixture()
	for n := 1; n <= 4; n++ {
		req := sampleRequest()
		req.Slots = make([]string, n)
		for i := range req.Slots {
			req.Slots[i] = "10:00"
		}
		req.PricePerSlot = 12.5

		b, err := f.svc.Create(context.Background(), req)
		require.NoError(t, err)
		assert.Equal(t, float64(n)*12.5, b.TotalPrice)
	}
}

func TestGetMalformedIDIsNotFound(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Get(context.Background(), "not-a-uuid")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.Get(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.List(ctx, Filter{})
	assert.ErrorIs(t, err, ErrFilterRequired)

	_, err = f.svc.List(ctx, Filter{Status: "cancelled"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	first, err := f.svc.Create(ctx, sampleRequest())
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, sampleRequest())
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, second.ID)
	require.NoError(t, err)

	pending, err := f.svc.List(ctx, Filter{Email: "ann@example.com"})
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)

	approved, err := f.svc.List(ctx, Filter{Email: "ann@example.com", Status: StatusApproved})
	require.NoError(t, err)
	require.Len(t, approved, 1)
	assert.Equal(t, second.ID, approved[0].ID)

	all, err := f.svc.List(ctx, Filter{Status: StatusPending})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestListKeepsInsertionOrder(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		b, err := f.svc.Create(ctx, sampleRequest())
		require.NoError(t, err)
		ids = append(ids, b.ID)
	}

	list, err := f.svc.List(ctx, Filter{Email: "ann@example.com"})
	require.NoError(t, err)
	got := make([]string, len(list))
	for i, b := range list {
		got[i] = b.ID
	}
	assert.Equal(t, ids, got)
}

func TestApproveOutcomes(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, sampleRequest())
	require.NoError(t, err)

	result, err := f.svc.Approve(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, TransitionApplied, result)

	result, err = f.svc.Approve(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, TransitionAlreadyInState, result)

	result, err = f.svc.Approve(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Equal(t, TransitionNotFound, result)

	result, err = f.svc.Approve(ctx, "garbage")
	require.NoError(t, err)
	assert.Equal(t, TransitionNotFound, result)
}

func TestApproveDoesNotLeaveConfirmed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, sampleRequest())
	require.NoError(t, err)
	_, err = f.svc.Confirm(ctx, b.ID, "tx_1")
	require.NoError(t, err)

	result, err := f.svc.Approve(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, TransitionAlreadyInState, result)

	got, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
}

func TestApprovePromotionFailureKeepsApproval(t *testing.T) {
	f := newFixture()
	f.promoter.err = errors.New("users table unavailable")
	ctx := context.Background()

	b, err := f.svc.Create(ctx, sampleRequest())
	require.NoError(t, err)

	result, err := f.svc.Approve(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, TransitionApplied, result)

	got, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, got.Status)

	require.NotNil(t, f.logs.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, f.logs.LastEntry().Level)
	assert.Equal(t, "promote user to member failed", f.logs.LastEntry().Message)
}

func TestPromotionIsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		b, err := f.svc.Create(ctx, sampleRequest())
		require.NoError(t, err)
		_, err = f.svc.Approve(ctx, b.ID)
		require.NoError(t, err)
	}

	promotions := 0
	for _, typ := range f.events.Types() {
		if typ == events.MemberPromoted {
			promotions++
		}
	}
	assert.Equal(t, 1, promotions)
	assert.Equal(t, "member", f.promoter.roles["ann@example.com"])
}

func TestPublishFailureIsLogged(t *testing.T) {
	f := newFixture()
	f.events.Err = errors.New("broker down")

	b, err := f.svc.Create(context.Background(), sampleRequest())
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	require.NotNil(t, f.logs.LastEntry())
	assert.Equal(t, logrus.WarnLevel, f.logs.LastEntry().Level)
}

func TestConfirmRequiresTransactionID(t *testing.T) {
	f := newFixture()
	b, err := f.svc.Create(context.Background(), sampleRequest())
	require.NoError(t, err)

	_, err = f.svc.Confirm(context.Background(), b.ID, "  ")
	assert.ErrorIs(t, err, ErrTransactionIDRequired)

	result, err := f.svc.Confirm(context.Background(), b.ID, "tx_1")
	require.NoError(t, err)
	assert.Equal(t, TransitionApplied, result)

	result, err = f.svc.Confirm(context.Background(), b.ID, "tx_2")
	require.NoError(t, err)
	assert.Equal(t, TransitionAlreadyInState, result)
}

func TestRecordPayment(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, sampleRequest())
	require.NoError(t, err)

	p, err := f.svc.RecordPayment(ctx, PaymentInput{
		BookingID:     b.ID,
		Email:         "Ann@Example.com",
		Amount:        40,
		TransactionID: "tx_1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, "ann@example.com", p.Email)
	assert.Equal(t, f.clock.T, p.PaidAt)

	got, err := f.svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
	assert.Equal(t, "tx_1", *got.TransactionID)

	assert.Contains(t, f.events.Types(), events.PaymentRecorded)
}

func TestRecordPaymentUnknownBooking(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.svc.RecordPayment(ctx, PaymentInput{
		BookingID: uuid.NewString(), Email: "ann@example.com", Amount: 40, TransactionID: "tx_1",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.svc.RecordPayment(ctx, PaymentInput{
		BookingID: "nope", Email: "ann@example.com", Amount: 40, TransactionID: "tx_1",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	assert.Empty(t, f.ledger.payments)
}

func TestRecordPaymentMissingFields(t *testing.T) {
	f := newFixture()
	_, err := f.svc.RecordPayment(context.Background(), PaymentInput{Email: "ann@example.com"})
	assert.EqualError(t, err, "missing required fields: bookingId, amount, transactionId")
}

func TestCancel(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	b, err := f.svc.Create(ctx, sampleRequest())
	require.NoError(t, err)
	_, err = f.svc.Approve(ctx, b.ID)
	require.NoError(t, err)

	require.NoError(t, f.svc.Cancel(ctx, b.ID))
	_, err = f.svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, f.svc.Cancel(ctx, b.ID), ErrNotFound)
	assert.ErrorIs(t, f.svc.Cancel(ctx, "bad-id"), ErrNotFound)
	assert.Contains(t, f.events.Types(), events.BookingCancelled)
}
