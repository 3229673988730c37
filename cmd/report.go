package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jouaraujo/curry-company/internal/filter"
	"github.com/jouaraujo/curry-company/internal/models"
	"github.com/jouaraujo/curry-company/internal/output"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute every dashboard view once and write it to the configured output",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runReport(cmd.Context(), cfg, logger)
	},
}

func init() {
	addFilterFlags(reportCmd)
	reportCmd.Flags().String("format", "console", "output format (console, json, csv, parquet, xlsx, kafka, amqp, s3, postgres)")
}

func addFilterFlags(c *cobra.Command) {
	c.Flags().String("cutoff", "", "keep orders dated strictly before this day (YYYY-MM-DD)")
	c.Flags().String("traffic", "", "comma separated traffic densities to keep (Low,Medium,High,Jam)")
}

// runReport is one invocation of the whole pipeline.
func runReport(ctx context.Context, cfg *models.Config, log *slog.Logger) error {
	criteria, err := filter.FromConfig(cfg.Filter)
	if err != nil {
		return err
	}

	p, cleanup, err := newPipeline(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	d, err := p.Dashboard(ctx, criteria)
	if err != nil {
		return err
	}
	for view, viewErr := range d.Errors {
		log.Warn("view skipped", "view", view, "error", viewErr)
	}

	dest, err := output.NewDestination(ctx, cfg.Output, log)
	if err != nil {
		return err
	}
	if err := output.WriteAll(ctx, dest, d.Tables()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	log.Info("report written", "format", cfg.Output.Format, "tables", len(d.Tables()))
	return nil
}
