package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jouaraujo/curry-company/internal/cloudstore"
	"github.com/jouaraujo/curry-company/internal/loader"
	"github.com/jouaraujo/curry-company/internal/models"
	"github.com/jouaraujo/curry-company/internal/pipeline"
	"github.com/jouaraujo/curry-company/internal/repositories/postgres"
)

// newPipeline wires the configured input source into a pipeline. The returned
// func releases the source's connections.
func newPipeline(ctx context.Context, cfg *models.Config, log *slog.Logger) (*pipeline.Pipeline, func(), error) {
	var opts []loader.Option
	cleanup := func() {}

	switch cfg.Input.Source {
	case loader.SourceS3:
		store, err := cloudstore.NewS3Store(ctx, cfg.Input.S3.Region)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create s3 store: %w", err)
		}
		opts = append(opts, loader.WithStore(store))
	case loader.SourcePostgres:
		pool, err := postgres.Connect(ctx, cfg.Input.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		cleanup = pool.Close
		repo := postgres.NewRawOrderRepository(pool, cfg.Input.Postgres.Table, cfg.Input.Sentinel)
		opts = append(opts, loader.WithRawSource(repo))
	}

	l, err := loader.New(cfg.Input, log, opts...)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return pipeline.New(l, cfg.Input.Sentinel, cfg.Workers, log), cleanup, nil
}
