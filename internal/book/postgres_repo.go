package book

import (
	"context"
	"errors"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

var pg = goqu.Dialect("postgres")

var bookColumns = []any{
	"id", "title", "author", "year",
	goqu.COALESCE(goqu.C("isbn"), "").As("isbn"),
	"description", "created_at", "updated_at",
}

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

// active selects books that have not been soft deleted.
func active() *goqu.SelectDataset {
	return pg.From("books").Prepared(true).Where(goqu.C("deleted_at").IsNull())
}

// filtered applies the list predicates. Title and author match
// case-insensitive substrings, year matches exactly.
func filtered(f Filter) *goqu.SelectDataset {
	ds := active()
	if f.Title != "" {
		ds = ds.Where(goqu.C("title").ILike("%" + f.Title + "%"))
	}
	if f.Author != "" {
		ds = ds.Where(goqu.C("author").ILike("%" + f.Author + "%"))
	}
	if f.Year != nil {
		ds = ds.Where(goqu.C("year").Eq(*f.Year))
	}
	return ds
}

func listSQL(f Filter) (countSQL string, countArgs []any, dataSQL string, dataArgs []any, err error) {
	base := filtered(f)
	countSQL, countArgs, err = base.Select(goqu.COUNT(goqu.Star())).ToSQL()
	if err != nil {
		return "", nil, "", nil, err
	}
	data := base.Select(bookColumns...).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		Offset(uint(f.OffsetOr(0)))
	if f.Limit != nil && *f.Limit > 0 {
		data = data.Limit(uint(*f.Limit))
	}
	dataSQL, dataArgs, err = data.ToSQL()
	return countSQL, countArgs, dataSQL, dataArgs, err
}

func searchSQL(query string) (string, []any, error) {
	pattern := "%" + query + "%"
	return active().
		Select(bookColumns...).
		Where(goqu.Or(
			goqu.C("title").ILike(pattern),
			goqu.C("author").ILike(pattern),
			goqu.C("description").ILike(pattern),
		)).
		Order(goqu.C("created_at").Desc(), goqu.C("id").Desc()).
		ToSQL()
}

func (r *PostgresRepo) List(ctx context.Context, f Filter) ([]Book, int, error) {
	countSQL, countArgs, dataSQL, dataArgs, err := listSQL(f)
	if err != nil {
		return nil, 0, err
	}

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var total int
	if err := r.db.QueryRow(timeoutCtx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.Query(timeoutCtx, dataSQL, dataArgs...)
	if err != nil {
		return nil, 0, err
	}
	books, err := scanBooks(rows)
	return books, total, err
}

func (r *PostgresRepo) Search(ctx context.Context, query string) ([]Book, error) {
	sql, args, err := searchSQL(query)
	if err != nil {
		return nil, err
	}
	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, sql, args...)
	if err != nil {
		return nil, err
	}
	return scanBooks(rows)
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (Book, error) {
	const query = `
		SELECT id, title, author, year, COALESCE(isbn, ''), description, created_at, updated_at
		FROM books
		WHERE id = $1 AND deleted_at IS NULL`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	var b Book
	err := r.db.QueryRow(timeoutCtx, query, id).Scan(
		&b.ID, &b.Title, &b.Author, &b.Year, &b.ISBN, &b.Description, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Book{}, ErrNotFound
		}
		return Book{}, err
	}
	return b, nil
}

func (r *PostgresRepo) Create(ctx context.Context, b *Book) error {
	const query = `
		INSERT INTO books (title, author, year, isbn, description, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, query, b.Title, b.Author, b.Year, b.ISBN, b.Description).
		Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
	return mapWriteErr(err)
}

func (r *PostgresRepo) Update(ctx context.Context, b *Book) error {
	const query = `
		UPDATE books
		SET title = $2, author = $3, year = $4, isbn = NULLIF($5, ''), description = $6, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING created_at, updated_at`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRow(timeoutCtx, query, b.ID, b.Title, b.Author, b.Year, b.ISBN, b.Description).
		Scan(&b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return mapWriteErr(err)
}

// Delete soft deletes the book. Its ISBN becomes free for new books.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	const query = `
		UPDATE books
		SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`

	timeoutCtx, cancel := r.withTimeout(ctx)
	defer cancel()

	tag, err := r.db.Exec(timeoutCtx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanBooks(rows pgx.Rows) ([]Book, error) {
	defer rows.Close()

	out := []Book{}
	for rows.Next() {
		var b Book
		if err := rows.Scan(
			&b.ID, &b.Title, &b.Author, &b.Year, &b.ISBN, &b.Description, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func mapWriteErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateISBN
	}
	return err
}
