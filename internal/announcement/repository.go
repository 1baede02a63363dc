package announcement

import (
	"context"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/cockroachdb/errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists the announcement board.
type Store interface {
	Insert(ctx context.Context, draft Draft) (*Announcement, error)
	Find(ctx context.Context, id string) (*Announcement, error)
	Search(ctx context.Context, filter Filter) ([]*Announcement, int, error)
	// Apply writes the non-nil fields of patch in one statement.
	Apply(ctx context.Context, id string, patch Patch) (*Announcement, error)
	Remove(ctx context.Context, id string) error
}

const boardTable = "public.announcements"

var (
	boardColumns  = []string{"id", "title", "content", "created_at", "updated_at"}
	searchColumns = append(boardColumns[:len(boardColumns):len(boardColumns)], "count(*) OVER ()")
	returning     = "RETURNING " + strings.Join(boardColumns, ", ")
)

var boardSort = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"title":      "lower(title)",
}

type pgStore struct {
	pool *pgxpool.Pool
	psql squirrel.StatementBuilderType
}

func NewPgxStore(pool *pgxpool.Pool) Store {
	return &pgStore{
		pool: pool,
		psql: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanAnnouncement(row pgx.Row, extra ...any) (*Announcement, error) {
	var a Announcement
	dest := append([]any{&a.ID, &a.Title, &a.Content, &a.CreatedAt, &a.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &a, nil
}

// one runs a statement expected to return a single announcement row.
func (s *pgStore) one(ctx context.Context, b squirrel.Sqlizer, op string) (*Announcement, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, errors.Wrapf(err, "build %s query", op)
	}
	a, err := scanAnnouncement(s.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "%s announcement", op)
	}
	return a, nil
}

func (s *pgStore) Insert(ctx context.Context, draft Draft) (*Announcement, error) {
	b := s.psql.Insert(boardTable).
		SetMap(map[string]any{"title": draft.Title, "content": draft.Content}).
		Suffix(returning)
	return s.one(ctx, b, "insert")
}

func (s *pgStore) Find(ctx context.Context, id string) (*Announcement, error) {
	b := s.psql.Select(boardColumns...).From(boardTable).Where(squirrel.Eq{"id": id})
	return s.one(ctx, b, "find")
}

func (s *pgStore) Apply(ctx context.Context, id string, patch Patch) (*Announcement, error) {
	set := map[string]any{"updated_at": squirrel.Expr("now()")}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	b := s.psql.Update(boardTable).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		Suffix(returning)
	return s.one(ctx, b, "update")
}

func (s *pgStore) Search(ctx context.Context, filter Filter) ([]*Announcement, int, error) {
	limit, offset := filter.limitOffset()

	b := s.psql.Select(searchColumns...).
		From(boardTable).
		OrderBy(boardOrder(filter), "id").
		Limit(limit).
		Offset(offset)
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		b = b.Where(squirrel.Or{
			squirrel.ILike{"title": pattern},
			squirrel.ILike{"content": pattern},
		})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, 0, errors.Wrap(err, "build search query")
	}
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.Wrap(err, "search announcements")
	}
	defer rows.Close()

	var (
		board []*Announcement
		total int
	)
	for rows.Next() {
		a, err := scanAnnouncement(rows, &total)
		if err != nil {
			return nil, 0, errors.Wrap(err, "scan announcement")
		}
		board = append(board, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.Wrap(err, "read announcement rows")
	}
	return board, total, nil
}

func (s *pgStore) Remove(ctx context.Context, id string) error {
	query, args, err := s.psql.Delete(boardTable).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return errors.Wrap(err, "build remove query")
	}
	tag, err := s.pool.Exec(ctx, query, args...)
	if err != nil {
		return errors.Wrap(err, "remove announcement")
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// boardOrder defaults to newest first.
func boardOrder(f Filter) string {
	col, ok := boardSort[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if f.SortOrder == "ASC" {
		dir = "ASC"
	}
	return col + " " + dir
}
