package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jouaraujo/curry-company/internal/logging"
	"github.com/jouaraujo/curry-company/internal/models"
)

var (
	cfgFile string
	cfg     *models.Config
	logger  *slog.Logger
)

// flagKeys maps command line flags onto configuration keys.
var flagKeys = map[string]string{
	"log-level": "log_level",
	"workers":   "workers",
	"input":     "input.path",
	"source":    "input.source",
	"cutoff":    "filter.cutoff",
	"traffic":   "filter.traffic",
	"format":    "output.format",
	"addr":      "server.addr",
	"schedule":  "watch.schedule",
}

var rootCmd = &cobra.Command{
	Use:   "curry",
	Short: "Cleans and aggregates food delivery orders",
	Long: `curry loads the food delivery order export, cleans it, filters it by date and
traffic density, and computes the company, courier and restaurant dashboards.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := viper.BindPFlag(key, f); err != nil {
					return err
				}
			}
		}

		var err error
		cfg, err = models.LoadConfig(viper.GetViper(), cfgFile)
		if err != nil {
			return fmt.Errorf("error loading config: %w", err)
		}

		logger = logging.New(cfg.LogLevel, os.Stderr)
		slog.SetDefault(logger)
		if used := viper.ConfigFileUsed(); used != "" {
			logger.Debug("using config file", "path", used)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml or json)")
	rootCmd.PersistentFlags().String("log-level", "INFO", "log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().Int("workers", 4, "views computed concurrently")
	rootCmd.PersistentFlags().String("input", "data/train.csv", "raw order CSV path")
	rootCmd.PersistentFlags().String("source", "file", "input source (file, s3, postgres)")

	rootCmd.AddCommand(reportCmd, serveCmd, watchCmd, generateCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
