package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jouaraujo/curry-company/internal/factories"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a synthetic raw order CSV in the export format",
	RunE: func(cmd *cobra.Command, args []string) error {
		rows, _ := cmd.Flags().GetInt("rows")
		out, _ := cmd.Flags().GetString("out")
		couriers, _ := cmd.Flags().GetInt("couriers")
		missing, _ := cmd.Flags().GetInt("missing")

		if err := os.MkdirAll(filepath.Dir(out), os.ModePerm); err != nil {
			return err
		}
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", out, err)
		}
		defer f.Close()

		w := bufio.NewWriter(f)
		bar := progressbar.Default(int64(rows), "generating orders")
		of := factories.NewOrderFactory(factories.Options{
			Couriers:      couriers,
			MissingChance: missing,
			Sentinel:      cfg.Input.Sentinel,
		})
		if err := of.WriteCSV(w, rows, func() { _ = bar.Add(1) }); err != nil {
			return err
		}
		if err := w.Flush(); err != nil {
			return err
		}
		_ = bar.Finish()

		logger.Info("orders generated", "rows", rows, "path", out)
		return f.Close()
	},
}

func init() {
	generateCmd.Flags().Int("rows", 1000, "number of orders")
	generateCmd.Flags().String("out", "data/train.csv", "output CSV path")
	generateCmd.Flags().Int("couriers", 50, "number of distinct delivery persons")
	generateCmd.Flags().Int("missing", 5, "percentage of rows with one missing value")
}
