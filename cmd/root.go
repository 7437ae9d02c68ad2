// Package cmd wires configuration, sources and the dashboard pipeline into
// the command-line interface.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"creator-dashboard/config"
	"creator-dashboard/metrics"
	"creator-dashboard/utils"
)

var (
	cfg      *config.Config
	logger   *utils.Logger
	registry *prometheus.Registry
	stats    *metrics.Metrics

	sourceOverride string
	quiet          bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:           "creator-dashboard",
	Short:         "Filter, aggregate and page through the creator video sheet",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if quiet {
			logger = utils.NewLoggerTo(io.Discard)
		} else {
			logger = utils.NewLogger()
		}

		cfg = config.Load()
		if sourceOverride != "" {
			cfg.Source = sourceOverride
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		registry = prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		stats = metrics.New(registry)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	RootCmd.PersistentFlags().StringVar(&sourceOverride, "source", "", "row source: sheets, published, workbook or postgres (overrides DASHBOARD_SOURCE)")
	RootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress log output")

	RootCmd.AddCommand(summaryCmd, exportCmd, serveCmd, syncCmd)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error("%v", err)
		} else {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}
