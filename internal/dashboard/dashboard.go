// Package dashboard evaluates every aggregation view over one filtered order
// table and flattens the results into named tables for report destinations.
package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jouaraujo/curry-company/internal/models"
)

// ErrUnknownView is returned by View for a name not listed in ViewNames.
var ErrUnknownView = errors.New("unknown view")

// Table is the flat, textual form of one view.
type Table struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

type Options struct {
	// Workers bounds how many views are computed at once. Values below 1 mean 1.
	Workers int
	// Views restricts Build to the named views. Empty means every view.
	Views []string
	Log   *slog.Logger
}

// Dashboard holds the outcome of every view. A view that failed has an entry
// in Errors and none in the results; the other views are unaffected.
type Dashboard struct {
	Rows    int
	Errors  map[string]error
	results map[string]result
}

// Build computes every view over records. records must not be modified while
// Build runs.
func Build(ctx context.Context, records []models.OrderRecord, opts Options) *Dashboard {
	log := opts.Log
	if log == nil {
		log = slog.Default()
	}
	workers := max(opts.Workers, 1)
	selected := selectViews(opts.Views)

	d := &Dashboard{
		Rows:    len(records),
		Errors:  make(map[string]error),
		results: make(map[string]result, len(selected)),
	}

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(workers)

	start := time.Now()
	for _, v := range selected {
		g.Go(func() error {
			res, err := run(ctx, v, records)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				log.Warn("view failed", "view", v.name, "error", err)
				d.Errors[v.name] = err
				return nil
			}
			d.results[v.name] = res
			return nil
		})
	}
	_ = g.Wait()

	log.Info("dashboard built",
		"rows", d.Rows,
		"views", len(d.results),
		"failed", len(d.Errors),
		"duration", time.Since(start).String())
	return d
}

func selectViews(names []string) []view {
	if len(names) == 0 {
		return views
	}
	want := make(map[string]bool, len(names))
	for _, name := range names {
		want[name] = true
	}
	out := make([]view, 0, len(names))
	for _, v := range views {
		if want[v.name] {
			out = append(out, v)
		}
	}
	return out
}

func run(ctx context.Context, v view, records []models.OrderRecord) (res result, err error) {
	if err := ctx.Err(); err != nil {
		return result{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("view %s panicked: %v", v.name, r)
		}
	}()
	return v.run(records)
}

// View returns the typed value of one view, or the error it failed with.
func (d *Dashboard) View(name string) (any, error) {
	if res, ok := d.results[name]; ok {
		return res.value, nil
	}
	if err, ok := d.Errors[name]; ok {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
}

// Table returns the flat form of one view.
func (d *Dashboard) Table(name string) (Table, error) {
	if _, err := d.View(name); err != nil {
		return Table{}, err
	}
	return d.results[name].table, nil
}

// Tables returns every successful view in report order.
func (d *Dashboard) Tables() []Table {
	tables := make([]Table, 0, len(d.results))
	for _, v := range views {
		if res, ok := d.results[v.name]; ok {
			tables = append(tables, res.table)
		}
	}
	return tables
}

func (d *Dashboard) MarshalJSON() ([]byte, error) {
	values := make(map[string]json.RawMessage, len(d.results))
	for name, res := range d.results {
		b, err := encodeView(res.value)
		if err != nil {
			return nil, fmt.Errorf("view %s: %w", name, err)
		}
		values[name] = b
	}
	errs := make(map[string]string, len(d.Errors))
	for name, err := range d.Errors {
		errs[name] = err.Error()
	}

	return json.Marshal(struct {
		Rows   int                        `json:"rows"`
		Views  map[string]json.RawMessage `json:"views"`
		Errors map[string]string          `json:"errors,omitempty"`
	}{Rows: d.Rows, Views: values, Errors: errs})
}
