package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jouaraujo/curry-company/internal/models"
)

// RawOrderRepository reads the untyped order table. Every column is selected as
// text; NULLs come back as the sentinel so the cleaning stage treats them the
// same way as missing values in the CSV.
type RawOrderRepository struct {
	pool     *pgxpool.Pool
	table    string
	sentinel string
}

func NewRawOrderRepository(pool *pgxpool.Pool, table, sentinel string) *RawOrderRepository {
	if sentinel == "" {
		sentinel = models.DefaultSentinel
	}
	return &RawOrderRepository{pool: pool, table: table, sentinel: sentinel}
}

// Connect opens a pool against dsn and pings it.
func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}
	return pool, nil
}

func (r *RawOrderRepository) FetchRaw(ctx context.Context) ([][]string, error) {
	rows, err := r.pool.Query(ctx, selectRawQuery(r.table), r.sentinel)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", r.table, err)
	}
	defer rows.Close()

	header := append([]string(nil), models.Columns...)
	records := [][]string{header}

	for rows.Next() {
		record := make([]string, len(models.Columns))
		dest := make([]any, len(record))
		for i := range record {
			dest[i] = &record[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan %s row: %w", r.table, err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", r.table, err)
	}

	return records, nil
}

func selectRawQuery(table string) string {
	cols := make([]string, len(models.Columns))
	for i, col := range models.Columns {
		cols[i] = fmt.Sprintf("COALESCE(%s::text, $1)", pgx.Identifier{col}.Sanitize())
	}
	return fmt.Sprintf("SELECT %s FROM %s",
		strings.Join(cols, ", "),
		pgx.Identifier{table}.Sanitize(),
	)
}
