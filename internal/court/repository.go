package court

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, c *Court) error
	GetByID(ctx context.Context, id string) (*Court, error)
	List(ctx context.Context, filter Filter) ([]*Court, int, error)
	// Update overwrites every mutable column of c.
	Update(ctx context.Context, c *Court) error
	Delete(ctx context.Context, id string) error
}

const courtsTable = "public.courts"

var courtColumns = []string{"id", "name", "type", "image", "price_per_slot", "slots", "created_at", "updated_at"}

// courtOrder whitelists sortable columns. Courts list in creation order by default.
var courtOrder = map[string]string{
	"created_at":     "created_at",
	"name":           "name",
	"type":           "type",
	"price_per_slot": "price_per_slot",
}

type pgxRepository struct {
	pool *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{
		pool: pool,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (c *Court) columns() []any {
	return []any{&c.ID, &c.Name, &c.Type, &c.Image, &c.PricePerSlot, &c.Slots, &c.CreatedAt, &c.UpdatedAt}
}

func (r *pgxRepository) Create(ctx context.Context, c *Court) error {
	query, args, err := r.psql.Insert(courtsTable).
		Columns("name", "type", "image", "price_per_slot", "slots").
		Values(c.Name, c.Type, c.Image, c.PricePerSlot, c.Slots).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build court insert")
	}
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return errors.Wrapf(err, "insert court %q", c.Name)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Court, error) {
	query, args, err := r.psql.Select(courtColumns...).From(courtsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build court lookup")
	}

	var c Court
	err = r.pool.QueryRow(ctx, query, args...).Scan(c.columns()...)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load court %s", id)
	}
	return &c, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Court, int, error) {
	col, ok := courtOrder[filter.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "ASC"
	if filter.SortOrder == "DESC" {
		dir = "DESC"
	}
	page, size := max(filter.Page, 1), filter.PageSize
	if size < 1 {
		size = 20
	}

	b := r.psql.Select(courtColumns...).
		Column("count(*) OVER ()").
		From(courtsTable).
		OrderBy(col+" "+dir, "id").
		Limit(uint64(size)).
		Offset(uint64((page - 1) * size))
	if filter.Type != "" {
		b = b.Where(squirrel.Eq{"type": filter.Type})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build court listing")
	}
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "list courts")
	}
	defer rows.Close()

	var (
		courts []*Court
		total  int
	)
	for rows.Next() {
		c := new(Court)
		if err := rows.Scan(append(c.columns(), &total)...); err != nil {
			return nil, 0, errors.Wrap(err, "scan court")
		}
		courts = append(courts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "read court rows")
	}
	return courts, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, c *Court) error {
	query, args, err := r.psql.Update(courtsTable).
		SetMap(map[string]any{
			"name":           c.Name,
			"type":           c.Type,
			"image":          c.Image,
			"price_per_slot": c.PricePerSlot,
			"slots":          c.Slots,
			"updated_at":     squirrel.Expr("now()"),
		}).
		Where(squirrel.Eq{"id": c.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build court update")
	}

	err = r.pool.QueryRow(ctx, query, args...).Scan(&c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return errors.Wrapf(err, "update court %s", c.ID)
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete(courtsTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "build court delete")
	}
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "delete court %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
