package output

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/jouaraujo/curry-company/internal/dashboard"
)

// Cell is one value of a table in long form.
type Cell struct {
	Table  string `parquet:"name=table, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Row    int64  `parquet:"name=row, type=INT64"`
	Column string `parquet:"name=column, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	Value  string `parquet:"name=value, type=BYTE_ARRAY, convertedtype=UTF8"`
}

// ParquetOutput writes <dir>/<table>.parquet in long form, one Cell per value.
type ParquetOutput struct {
	dir string
}

func NewParquetOutput(dir string) *ParquetOutput {
	return &ParquetOutput{dir: dir}
}

func (p *ParquetOutput) WriteTable(_ context.Context, table dashboard.Table) error {
	if err := ensureDir(p.dir); err != nil {
		return err
	}

	fw, err := local.NewLocalFileWriter(filepath.Join(p.dir, table.Name+".parquet"))
	if err != nil {
		return fmt.Errorf("failed to create local file writer: %w", err)
	}
	defer fw.Close()

	pw, err := writer.NewParquetWriter(fw, new(Cell), 4)
	if err != nil {
		return fmt.Errorf("failed to create ParquetWriter: %w", err)
	}

	for i, row := range table.Rows {
		for j, col := range table.Header {
			if j >= len(row) {
				break
			}
			cell := Cell{Table: table.Name, Row: int64(i), Column: col, Value: row[j]}
			if err := pw.Write(cell); err != nil {
				return fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	if err := pw.WriteStop(); err != nil {
		return fmt.Errorf("failed to finish parquet file: %w", err)
	}
	return fw.Close()
}

func (p *ParquetOutput) Close() error { return nil }
