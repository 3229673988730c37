package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jouaraujo/curry-company/internal/loader"
	"github.com/jouaraujo/curry-company/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the report when the input file changes or on a schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		run := func(ctx context.Context) error { return runReport(ctx, cfg, logger) }
		if err := run(ctx); err != nil {
			logger.Error("initial report failed", "error", err)
		}

		wcfg := cfg.Watch
		if cfg.Input.Source != loader.SourceFile {
			wcfg.OnChange = false
		}
		return watcher.New(wcfg, cfg.Input.Path, run, logger).Run(ctx)
	},
}

func init() {
	addFilterFlags(watchCmd)
	watchCmd.Flags().String("format", "console", "output format")
	watchCmd.Flags().String("schedule", "", `cron schedule, e.g. "@every 5m"`)
}
