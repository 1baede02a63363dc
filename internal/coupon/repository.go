package coupon

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Coupon) error
	GetByID(ctx context.Context, id string) (*Coupon, error)
	GetByCode(ctx context.Context, code string) (*Coupon, error)
	List(ctx context.Context) ([]*Coupon, error)
	Update(ctx context.Context, c *Coupon) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var couponColumns = []string{
	"id", "code", "name", "discount", "discount_type", "active", "expires_at", "created_at", "updated_at",
}

func scanCoupon(row pgx.Row) (*Coupon, error) {
	var c Coupon
	err := row.Scan(
		&c.ID, &c.Code, &c.Name, &c.Discount, &c.DiscountType, &c.Active, &c.ExpiresAt, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func isUniqueViolation(err error) bool {
	var e *pgconn.PgError
	return errors.As(err, &e) && e.Code == pgerrcode.UniqueViolation
}

func (r *pgxRepository) Create(ctx context.Context, c *Coupon) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.coupons").
		Columns("code", "name", "discount", "discount_type", "active", "expires_at").
		Values(c.Code, c.Name, c.Discount, c.DiscountType, c.Active, c.ExpiresAt).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build create coupon query failed")
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return ErrCodeTaken
		}
		return errors.Wrap(err, "create coupon failed")
	}
	return nil
}

func (r *pgxRepository) get(ctx context.Context, where squirrel.Eq) (*Coupon, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(couponColumns...).
		From("public.coupons").
		Where(where).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build get coupon query failed")
	}

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrap(err, "get coupon failed")
	}
	return c, nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Coupon, error) {
	return r.get(ctx, squirrel.Eq{"id": id})
}

func (r *pgxRepository) GetByCode(ctx context.Context, code string) (*Coupon, error) {
	return r.get(ctx, squirrel.Eq{"code": code})
}

func (r *pgxRepository) List(ctx context.Context) ([]*Coupon, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(couponColumns...).
		From("public.coupons").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build list coupons query failed")
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "list coupons failed")
	}
	defer rows.Close()

	var coupons []*Coupon
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan coupon failed")
		}
		coupons = append(coupons, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate coupons failed")
	}
	return coupons, nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Coupon) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Update("public.coupons").
		Set("code", c.Code).
		Set("name", c.Name).
		Set("discount", c.Discount).
		Set("discount_type", c.DiscountType).
		Set("active", c.Active).
		Set("expires_at", c.ExpiresAt).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build update coupon query failed")
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.UpdatedAt); err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return ErrNotFound
		case isUniqueViolation(err):
			return ErrCodeTaken
		}
		return errors.Wrap(err, "update coupon failed")
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Delete("public.coupons").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build delete coupon query failed")
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "delete coupon failed")
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
