package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"creator-dashboard/services"
	"creator-dashboard/storage"
)

var (
	exportFilters filterFlags
	exportFormat  string
	exportOut     string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the filtered rows to CSV or XLSX",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if exportFormat != "csv" && exportFormat != "xlsx" {
			return fmt.Errorf("--format must be csv or xlsx, got %q", exportFormat)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		state, err := exportFilters.state()
		if err != nil {
			return err
		}

		loader, cleanup, err := newLoader(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		snap, err := loader.Load(cmd.Context())
		if err != nil {
			return err
		}
		view := services.Evaluate(services.NewInsightService(logger), snap, state, cfg.PageSize, 1)

		path := exportOut
		var exporter storage.Exporter
		if exportFormat == "xlsx" {
			if path == "" {
				path = cfg.XLSXOutputPath
			}
			exporter, err = storage.NewXLSXWriter(path)
		} else {
			if path == "" {
				path = cfg.CSVOutputPath
			}
			exporter, err = storage.NewCSVWriter(path)
		}
		if err != nil {
			return err
		}

		if err := exporter.Export(view.Headers, view.Filtered); err != nil {
			_ = exporter.Close()
			return err
		}
		if err := exporter.Close(); err != nil {
			return fmt.Errorf("%s: close: %w", exportFormat, err)
		}

		stats.ObserveExport(exportFormat)
		logger.Info("[export] %d rows written to %s", len(view.Filtered), path)
		return nil
	},
}

func init() {
	exportFilters.register(exportCmd)
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "output format: csv or xlsx")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (defaults to CSV_OUTPUT_PATH / XLSX_OUTPUT_PATH)")
}
