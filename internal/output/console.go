package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/jouaraujo/curry-company/internal/dashboard"
)

// ConsoleOutput prints each table as a data frame preview.
type ConsoleOutput struct {
	w io.Writer
}

func NewConsoleOutput(w io.Writer) *ConsoleOutput {
	return &ConsoleOutput{w: w}
}

func (c *ConsoleOutput) WriteTable(_ context.Context, table dashboard.Table) error {
	var text string
	if len(table.Rows) == 0 {
		text = strings.Join(table.Header, "  ") + "\n(no rows)"
	} else {
		records := make([][]string, 0, len(table.Rows)+1)
		records = append(records, table.Header)
		records = append(records, table.Rows...)

		df := dataframe.LoadRecords(records,
			dataframe.HasHeader(true),
			dataframe.DetectTypes(false),
			dataframe.DefaultType(series.String),
		)
		if df.Err != nil {
			return fmt.Errorf("failed to render table %s: %w", table.Name, df.Err)
		}
		text = df.String()
	}

	if _, err := fmt.Fprintf(c.w, "[%s]\n%s\n", table.Name, text); err != nil {
		return fmt.Errorf("failed to write to console: %w", err)
	}
	return nil
}

func (c *ConsoleOutput) Close() error { return nil }
