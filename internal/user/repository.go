package user

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// Repository defines methods for accessing user data from storage.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, u *User) error
	List(ctx context.Context, filter UserFilter) ([]*User, int, error)
	// Promote moves a user with role "user" to "member". It reports false when
	// the user is unknown or already holds another role.
	Promote(ctx context.Context, email string, at time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

const (
	insertUserQuery = `INSERT INTO public.users (email, name, password_hash, role)
VALUES (:email, :name, :password_hash, :role)
RETURNING id, created_at`

	// Members and admins are left alone.
	promoteUserQuery = `UPDATE public.users
SET role = 'member', member_since = $1
WHERE email = $2 AND role IN ('user', '')`
)

var userColumns = []string{"id", "email", "name", "password_hash", "role", "member_since", "created_at"}

var userSortColumns = map[string]string{
	"created_at":   "created_at",
	"name":         "name",
	"email":        "email",
	"member_since": "member_since",
}

// listedUser carries the window total alongside each row.
type listedUser struct {
	User
	Total int `db:"total"`
}

type sqlxRepository struct {
	db   *sqlx.DB
	psql squirrel.StatementBuilderType
}

// NewSQLXRepository stores accounts through the shared sqlx handle.
func NewSQLXRepository(db *sqlx.DB) Repository {
	return &sqlxRepository{
		db:   db,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *sqlxRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query, args, err := r.psql.Select(userColumns...).
		From("public.users").
		Where(squirrel.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build user lookup")
	}

	var u User
	if err := r.db.GetContext(ctx, &u, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.Wrapf(err, "look up user %s", email)
	}
	return &u, nil
}

func (r *sqlxRepository) Create(ctx context.Context, u *User) error {
	query, args, err := r.db.BindNamed(insertUserQuery, u)
	if err != nil {
		return errors.Wrap(err, "bind user insert")
	}

	err = r.db.QueryRowxContext(ctx, query, args...).Scan(&u.ID, &u.CreatedAt)
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return ErrEmailAlreadyUsed
	case err != nil:
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (r *sqlxRepository) List(ctx context.Context, filter UserFilter) ([]*User, int, error) {
	sortCol, ok := userSortColumns[filter.SortBy]
	if !ok {
		sortCol = "created_at"
	}
	dir := "DESC"
	if filter.SortOrder == "ASC" {
		dir = "ASC"
	}
	page, size := filter.Page, filter.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}

	b := r.psql.Select(append(append([]string{}, userColumns...), "count(*) OVER () AS total")...).
		From("public.users").
		OrderBy(sortCol+" "+dir, "id").
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size))
	if filter.Email != "" {
		b = b.Where(squirrel.ILike{"email": "%" + filter.Email + "%"})
	}
	if filter.Name != "" {
		b = b.Where(squirrel.ILike{"name": "%" + filter.Name + "%"})
	}
	if filter.Role != "" {
		b = b.Where(squirrel.Eq{"role": filter.Role})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build user listing")
	}

	var rows []listedUser
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, 0, errors.Wrap(err, "list users")
	}

	users := make([]*User, len(rows))
	total := 0
	for i := range rows {
		users[i] = &rows[i].User
		total = rows[i].Total
	}
	return users, total, nil
}

func (r *sqlxRepository) Promote(ctx context.Context, email string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, promoteUserQuery, at, email)
	if err != nil {
		return false, errors.Wrapf(err, "promote %s", email)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "promote rows affected")
	}
	return n > 0, nil
}

func (r *sqlxRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM public.users WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "delete user")
	}
	if n, err := res.RowsAffected(); err != nil {
		return errors.Wrap(err, "delete rows affected")
	} else if n == 0 {
		return ErrNotFound
	}
	return nil
}
