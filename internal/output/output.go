// Package output writes dashboard tables to a report destination.
package output

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jouaraujo/curry-company/internal/cloudstore"
	"github.com/jouaraujo/curry-company/internal/dashboard"
	"github.com/jouaraujo/curry-company/internal/models"
)

// Destination receives the tables of one report run.
type Destination interface {
	WriteTable(ctx context.Context, table dashboard.Table) error
	Close() error
}

const (
	FormatConsole  = "console"
	FormatJSON     = "json"
	FormatCSV      = "csv"
	FormatParquet  = "parquet"
	FormatXLSX     = "xlsx"
	FormatKafka    = "kafka"
	FormatAMQP     = "amqp"
	FormatS3       = "s3"
	FormatPostgres = "postgres"
)

// NewDestination opens the destination selected by cfg.Format.
func NewDestination(ctx context.Context, cfg models.OutputConfig, log *slog.Logger) (Destination, error) {
	dir := filepath.Join(cfg.Path, cfg.Folder)

	switch cfg.Format {
	case FormatConsole, "":
		return NewConsoleOutput(os.Stdout), nil
	case FormatJSON:
		return NewJSONOutput(dir), nil
	case FormatCSV:
		return NewCSVOutput(dir), nil
	case FormatParquet:
		return NewParquetOutput(dir), nil
	case FormatXLSX:
		return NewXLSXOutput(filepath.Join(dir, "report.xlsx")), nil
	case FormatKafka:
		out, err := NewKafkaOutput(cfg.Kafka, log)
		if err != nil {
			return nil, err
		}
		return out, nil
	case FormatAMQP:
		out, err := NewAMQPOutput(ctx, cfg.AMQP, log)
		if err != nil {
			return nil, err
		}
		return out, nil
	case FormatS3:
		store, err := cloudstore.NewS3Store(ctx, cfg.CloudStorage.Region)
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 store: %w", err)
		}
		return NewCloudOutput(store, cfg.CloudStorage.BucketName, cfg.CloudStorage.Prefix), nil
	case FormatPostgres:
		out, err := NewPostgresOutput(ctx, cfg.Postgres, log)
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s", cfg.Format)
	}
}

// WriteAll writes tables to dest in order and closes it.
func WriteAll(ctx context.Context, dest Destination, tables []dashboard.Table) error {
	for _, table := range tables {
		if err := dest.WriteTable(ctx, table); err != nil {
			_ = dest.Close()
			return fmt.Errorf("failed to write table %s: %w", table.Name, err)
		}
	}
	return dest.Close()
}

func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	return nil
}
