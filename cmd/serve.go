package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jouaraujo/curry-company/internal/filter"
	"github.com/jouaraujo/curry-company/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard views over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		defaults, err := filter.FromConfig(cfg.Filter)
		if err != nil {
			return err
		}

		p, cleanup, err := newPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer cleanup()

		return server.New(p, defaults, logger).ListenAndServe(ctx, cfg.Server)
	},
}

func init() {
	addFilterFlags(serveCmd)
	serveCmd.Flags().String("addr", ":8080", "listen address")
}
