package output

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/jouaraujo/curry-company/internal/dashboard"
)

const defaultSheet = "Sheet1"

// XLSXOutput collects every table into one workbook, a sheet per table, and
// saves it on Close.
type XLSXOutput struct {
	path   string
	mu     sync.Mutex
	file   *excelize.File
	sheets int
}

func NewXLSXOutput(path string) *XLSXOutput {
	return &XLSXOutput{path: path, file: excelize.NewFile()}
}

func (x *XLSXOutput) WriteTable(_ context.Context, table dashboard.Table) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, err := x.file.NewSheet(table.Name); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", table.Name, err)
	}
	x.sheets++

	if err := x.setRow(table.Name, 1, table.Header); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := x.setRow(table.Name, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func (x *XLSXOutput) setRow(sheet string, n int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, n)
	if err != nil {
		return err
	}
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := x.file.SetSheetRow(sheet, cell, &row); err != nil {
		return fmt.Errorf("failed to write row %d of sheet %s: %w", n, sheet, err)
	}
	return nil
}

func (x *XLSXOutput) Close() error {
	x.mu.Lock()
	defer x.mu.Unlock()
	defer x.file.Close()

	if x.sheets > 0 {
		if err := x.file.DeleteSheet(defaultSheet); err != nil {
			return fmt.Errorf("failed to drop default sheet: %w", err)
		}
	}
	if err := ensureDir(filepath.Dir(x.path)); err != nil {
		return err
	}
	if err := x.file.SaveAs(x.path); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", x.path, err)
	}
	return nil
}
