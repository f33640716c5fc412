package urlproc

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

var pg = goqu.Dialect("postgres")

type PostgresRepo struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

func NewPostgresRepo(db *pgxpool.Pool, timeout time.Duration) *PostgresRepo {
	return &PostgresRepo{db: db, timeout: timeout}
}

func (r *PostgresRepo) Record(ctx context.Context, e *LogEntry) error {
	const query = `
		INSERT INTO url_process_logs (original_url, processed_url, operation, ip_address, user_agent, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), NOW(), NOW())
		RETURNING id, created_at`

	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	return r.db.QueryRow(timeoutCtx, query, e.OriginalURL, e.ProcessedURL, e.Operation, e.IPAddress, e.UserAgent).
		Scan(&e.ID, &e.CreatedAt)
}

func statsSQL() (string, []any, error) {
	return pg.From("url_process_logs").Prepared(true).
		Select(goqu.C("operation"), goqu.COUNT(goqu.Star())).
		Where(goqu.C("deleted_at").IsNull()).
		GroupBy(goqu.C("operation")).
		Order(goqu.C("operation").Asc()).
		ToSQL()
}

func (r *PostgresRepo) Stats(ctx context.Context) (Stats, error) {
	query, args, err := statsSQL()
	if err != nil {
		return Stats{}, err
	}
	timeoutCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(timeoutCtx, query, args...)
	if err != nil {
		return Stats{}, err
	}
	defer rows.Close()

	st := Stats{ByOperation: map[string]int64{}}
	for rows.Next() {
		var (
			op    string
			count int64
		)
		if err := rows.Scan(&op, &count); err != nil {
			return Stats{}, err
		}
		st.ByOperation[op] = count
		st.TotalRequests += count
	}
	return st, rows.Err()
}
