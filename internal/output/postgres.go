package output

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jouaraujo/curry-company/internal/dashboard"
	"github.com/jouaraujo/curry-company/internal/models"
	"github.com/jouaraujo/curry-company/internal/repositories/postgres"
)

// DB is the subset of *pgxpool.Pool the postgres destination needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

var cellColumns = []string{"report_table", "row_index", "column_name", "value", "written_at"}

// PostgresOutput stores every table in long form in a single cells table.
// Writing a table replaces the rows previously stored under its name.
type PostgresOutput struct {
	db    DB
	pool  *pgxpool.Pool
	table pgx.Identifier
	log   *slog.Logger
	ready bool
}

func NewPostgresOutput(ctx context.Context, cfg models.PostgresConfig, log *slog.Logger) (*PostgresOutput, error) {
	pool, err := postgres.Connect(ctx, cfg.DSN)
	if err != nil {
		return nil, err
	}
	out := NewPostgresOutputWithDB(pool, cfg.Table, log)
	out.pool = pool
	return out, nil
}

func NewPostgresOutputWithDB(db DB, table string, log *slog.Logger) *PostgresOutput {
	return &PostgresOutput{db: db, table: pgx.Identifier{table}, log: log}
}

func (p *PostgresOutput) createTable(ctx context.Context) error {
	if p.ready {
		return nil
	}
	query := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		report_table TEXT NOT NULL,
		row_index BIGINT NOT NULL,
		column_name TEXT NOT NULL,
		value TEXT NOT NULL,
		written_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (report_table, row_index, column_name)
	)`, p.table.Sanitize())
	if _, err := p.db.Exec(ctx, query); err != nil {
		return fmt.Errorf("error creating table %s: %w", p.table.Sanitize(), err)
	}
	p.ready = true
	return nil
}

func (p *PostgresOutput) WriteTable(ctx context.Context, table dashboard.Table) error {
	if err := p.createTable(ctx); err != nil {
		return err
	}

	deleteQuery := fmt.Sprintf("DELETE FROM %s WHERE report_table = $1", p.table.Sanitize())
	if _, err := p.db.Exec(ctx, deleteQuery, table.Name); err != nil {
		return fmt.Errorf("error clearing table %s: %w", table.Name, err)
	}

	rows := cellRows(table, time.Now().UTC())
	n, err := p.db.CopyFrom(ctx, p.table, cellColumns, pgx.CopyFromRows(rows))
	if err != nil {
		return fmt.Errorf("error copying table %s: %w", table.Name, err)
	}

	p.log.DebugContext(ctx, "table stored", "table", table.Name, "cells", n)
	return nil
}

func cellRows(table dashboard.Table, at time.Time) [][]any {
	rows := make([][]any, 0, len(table.Rows)*len(table.Header))
	for i, row := range table.Rows {
		for j, col := range table.Header {
			if j < len(row) {
				rows = append(rows, []any{table.Name, int64(i), col, row[j], at})
			}
		}
	}
	return rows
}

func (p *PostgresOutput) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
