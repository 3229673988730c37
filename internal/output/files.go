package output

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jouaraujo/curry-company/internal/dashboard"
)

// CSVOutput writes <dir>/<table>.csv, header first.
type CSVOutput struct {
	dir string
}

func NewCSVOutput(dir string) *CSVOutput {
	return &CSVOutput{dir: dir}
}

func (c *CSVOutput) WriteTable(_ context.Context, table dashboard.Table) error {
	if err := ensureDir(c.dir); err != nil {
		return err
	}

	file, err := os.Create(filepath.Join(c.dir, table.Name+".csv"))
	if err != nil {
		return err
	}
	defer file.Close()

	if err := writeCSV(file, table); err != nil {
		return err
	}
	return file.Close()
}

func (c *CSVOutput) Close() error { return nil }

func writeCSV(out io.Writer, table dashboard.Table) error {
	w := csv.NewWriter(out)
	if err := w.Write(table.Header); err != nil {
		return err
	}
	if err := w.WriteAll(table.Rows); err != nil {
		return err
	}
	return w.Error()
}

// JSONOutput writes <dir>/<table>.json holding an array of objects keyed by
// column name.
type JSONOutput struct {
	dir string
}

func NewJSONOutput(dir string) *JSONOutput {
	return &JSONOutput{dir: dir}
}

func (j *JSONOutput) WriteTable(_ context.Context, table dashboard.Table) error {
	if err := ensureDir(j.dir); err != nil {
		return err
	}

	data, err := json.MarshalIndent(rowObjects(table), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode table %s: %w", table.Name, err)
	}
	return os.WriteFile(filepath.Join(j.dir, table.Name+".json"), append(data, '\n'), 0o644)
}

func (j *JSONOutput) Close() error { return nil }

func rowObjects(table dashboard.Table) []map[string]string {
	out := make([]map[string]string, 0, len(table.Rows))
	for _, row := range table.Rows {
		obj := make(map[string]string, len(table.Header))
		for i, col := range table.Header {
			if i < len(row) {
				obj[col] = row[i]
			}
		}
		out = append(out, obj)
	}
	return out
}
