package booking

import (
	"context"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, error)
	// Approve moves a pending booking to approved.
	Approve(ctx context.Context, id string) (TransitionResult, error)
	// Confirm moves any unconfirmed booking to confirmed and stores the payment reference.
	Confirm(ctx context.Context, id, transactionID string, paidAt time.Time) (TransitionResult, error)
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var bookingColumns = []string{
	"id", "court_id", "user_name", "user_email", "date::text", "slots",
	"price_per_slot", "total_price", "status", "coupon_code",
	"transaction_id", "paid_at", "created_at",
}

var sortColumns = map[string]string{
	"created_at":  "created_at",
	"date":        "date",
	"total_price": "total_price",
}

func scanBooking(row pgx.Row) (*Booking, error) {
	var b Booking
	err := row.Scan(
		&b.ID, &b.CourtID, &b.UserName, &b.UserEmail, &b.Date, &b.Slots,
		&b.PricePerSlot, &b.TotalPrice, &b.Status, &b.CouponCode,
		&b.TransactionID, &b.PaidAt, &b.CreatedAt,
	)
	return &b, err
}

func (r *pgxRepository) Create(ctx context.Context, b *Booking) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.bookings").
		Columns("court_id", "user_name", "user_email", "date", "slots",
			"price_per_slot", "total_price", "status", "coupon_code", "created_at").
		Values(b.CourtID, b.UserName, b.UserEmail, b.Date, b.Slots,
			b.PricePerSlot, b.TotalPrice, b.Status, b.CouponCode, b.CreatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build create booking query failed")
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&b.ID); err != nil {
		return errors.Wrap(err, "create booking failed")
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(bookingColumns...).
		From("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get booking query failed")
	}

	b, err := scanBooking(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get booking failed")
	}
	return b, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Booking, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query := psql.Select(bookingColumns...).From("public.bookings")

	if filter.Email != "" {
		query = query.Where(squirrel.Eq{"user_email": filter.Email})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	orderBy, ok := sortColumns[filter.SortBy]
	if !ok {
		orderBy = "created_at"
	}
	orderDir := "ASC"
	if filter.SortOrder == "DESC" {
		orderDir = "DESC"
	}
	// id breaks ties so the order is stable across calls.
	query = query.OrderBy(orderBy+" "+orderDir, "id ASC")

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list bookings query failed")
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list bookings failed")
	}
	defer rows.Close()

	bookings := []*Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan booking failed")
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate bookings failed")
	}
	return bookings, nil
}

func (r *pgxRepository) Approve(ctx context.Context, id string) (TransitionResult, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.bookings").
		Set("status", StatusApproved).
		Where(squirrel.Eq{"id": id, "status": StatusPending})
	return r.transition(ctx, id, update)
}

func (r *pgxRepository) Confirm(ctx context.Context, id, transactionID string, paidAt time.Time) (TransitionResult, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	update := psql.Update("public.bookings").
		Set("status", StatusConfirmed).
		Set("transaction_id", transactionID).
		Set("paid_at", paidAt).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.NotEq{"status": StatusConfirmed})
	return r.transition(ctx, id, update)
}

// transition runs a conditional update. When no row matched it checks whether
// the booking exists to tell AlreadyInState from NotFound.
func (r *pgxRepository) transition(ctx context.Context, id string, update squirrel.UpdateBuilder) (TransitionResult, error) {
	query, args, err := update.ToSql()
	if err != nil {
		return TransitionNotFound, errors.Wrap(err, "build booking transition query failed")
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return TransitionNotFound, errors.Wrap(err, "booking transition failed")
	}
	if ct.RowsAffected() > 0 {
		return TransitionApplied, nil
	}

	var exists bool
	if err := r.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM public.bookings WHERE id = $1)", id,
	).Scan(&exists); err != nil {
		return TransitionNotFound, errors.Wrap(err, "check booking exists failed")
	}
	if exists {
		return TransitionAlreadyInState, nil
	}
	return TransitionNotFound, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete booking query failed")
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete booking failed")
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
