package payment

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// Ledger stores payments. Record also confirms the paid booking.
type Ledger interface {
	// Record inserts p and marks its booking confirmed in one transaction.
	// It returns ErrBookingNotFound when the booking does not exist and
	// ErrAlreadyPaid when it already has a payment. Nothing is written in either case.
	Record(ctx context.Context, p *Payment) error
	ListByEmail(ctx context.Context, email string) ([]*Payment, error)
}

type sqlxLedger struct {
	db *sqlx.DB
}

func NewSQLXLedger(db *sqlx.DB) Ledger {
	return &sqlxLedger{db: db}
}

const (
	confirmBookingQuery = `
		UPDATE public.bookings
		SET status = 'confirmed', transaction_id = $1, paid_at = $2
		WHERE id = $3`

	insertPaymentQuery = `
		INSERT INTO public.payments (booking_id, email, amount, transaction_id, paid_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	listPaymentsQuery = `
		SELECT id, booking_id, email, amount, transaction_id, paid_at
		FROM public.payments
		WHERE email = $1
		ORDER BY paid_at DESC`
)

func (l *sqlxLedger) Record(ctx context.Context, p *Payment) (err error) {
	tx, err := l.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin payment transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, confirmBookingQuery, p.TransactionID, p.PaidAt, p.BookingID)
	if err != nil {
		return errors.Wrap(err, "confirm paid booking")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "confirm paid booking")
	}
	if n == 0 {
		return ErrBookingNotFound
	}

	if err = tx.QueryRowxContext(ctx, insertPaymentQuery,
		p.BookingID, p.Email, p.Amount, p.TransactionID, p.PaidAt,
	).Scan(&p.ID); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return ErrAlreadyPaid
		}
		return errors.Wrap(err, "insert payment")
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "commit payment transaction")
	}
	return nil
}

func (l *sqlxLedger) ListByEmail(ctx context.Context, email string) ([]*Payment, error) {
	payments := []*Payment{}
	if err := l.db.SelectContext(ctx, &payments, listPaymentsQuery, email); err != nil {
		return nil, errors.Wrap(err, "list payments")
	}
	return payments, nil
}
