// Package pipeline runs one pass of load, clean and filter. Nothing is cached:
// every call starts again from the raw source.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-gota/gota/dataframe"

	"github.com/jouaraujo/curry-company/internal/cleaning"
	"github.com/jouaraujo/curry-company/internal/dashboard"
	"github.com/jouaraujo/curry-company/internal/filter"
	"github.com/jouaraujo/curry-company/internal/models"
)

// Source yields the raw order table.
type Source interface {
	Load(ctx context.Context) (dataframe.DataFrame, error)
}

type Pipeline struct {
	source   Source
	sentinel string
	workers  int
	log      *slog.Logger
}

func New(source Source, sentinel string, workers int, log *slog.Logger) *Pipeline {
	return &Pipeline{source: source, sentinel: sentinel, workers: workers, log: log}
}

// Records loads, cleans and filters the order table.
func (p *Pipeline) Records(ctx context.Context, c filter.Criteria) ([]models.OrderRecord, error) {
	start := time.Now()

	raw, err := p.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}

	cleaned, err := cleaning.Clean(raw, cleaning.Options{Sentinel: p.sentinel})
	if err != nil {
		return nil, fmt.Errorf("failed to clean orders: %w", err)
	}

	records := filter.Apply(cleaned.Records, c)
	p.log.InfoContext(ctx, "orders prepared",
		"rows_read", cleaned.RowsRead,
		"rows_dropped", cleaned.RowsDropped,
		"rows_selected", len(records),
		"cutoff", c.Cutoff.Format(models.DateLayout),
		"duration", time.Since(start).String())
	return records, nil
}

// Dashboard computes every view over the records selected by c.
func (p *Pipeline) Dashboard(ctx context.Context, c filter.Criteria) (*dashboard.Dashboard, error) {
	records, err := p.Records(ctx, c)
	if err != nil {
		return nil, err
	}
	return p.Build(ctx, records), nil
}

// Build computes views over records already prepared by Records. With no
// names every view is computed.
func (p *Pipeline) Build(ctx context.Context, records []models.OrderRecord, names ...string) *dashboard.Dashboard {
	return dashboard.Build(ctx, records, dashboard.Options{Workers: p.workers, Views: names, Log: p.log})
}
