package file

import (
	"context"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Create(ctx context.Context, file *File) error
	GetByID(ctx context.Context, id string) (*File, error)
	Delete(ctx context.Context, id string) error
}

var fileColumns = []string{
	"id", "uploaded_by", "filename", "storage_path", "thumbnail_path", "content_type", "size", "created_at",
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

// fields lists f's columns in fileColumns order.
func (f *File) fields() []any {
	return []any{&f.ID, &f.UploadedBy, &f.Filename, &f.StoragePath, &f.ThumbnailPath, &f.ContentType, &f.Size, &f.CreatedAt}
}

func (r *pgxRepository) Create(ctx context.Context, f *File) error {
	query, args, err := r.psql.Insert("public.files").
		Columns(fileColumns...).
		Values(f.ID, f.UploadedBy, f.Filename, f.StoragePath, f.ThumbnailPath, f.ContentType, f.Size, f.CreatedAt).
		ToSql()
	if err != nil {
		return errors.Wrap(err, "build file insert")
	}
	if _, err := r.pool.Exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "insert file record %s", f.ID)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*File, error) {
	query, args, err := r.psql.Select(fileColumns...).From("public.files").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build file lookup")
	}

	var f File
	switch err := r.pool.QueryRow(ctx, query, args...).Scan(f.fields()...); {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, ErrNotFound
	case err != nil:
		return nil, errors.Wrapf(err, "load file record %s", id)
	}
	return &f, nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := r.psql.Delete("public.files").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "build file delete")
	}
	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrapf(err, "delete file record %s", id)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
