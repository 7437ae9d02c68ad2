package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"creator-dashboard/services"
)

var (
	summaryFilters filterFlags
	summaryPage    int
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the dashboard summary for the current filters",
	RunE: func(cmd *cobra.Command, _ []string) error {
		state, err := summaryFilters.state()
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

		insights := services.NewInsightService(logger)
		view := services.Evaluate(insights, snap, state, cfg.PageSize, summaryPage)
		stats.ObserveEvaluation(len(view.Filtered))
		if state.Creator != "" && view.State.Creator == "" {
			logger.Warn("[summary] Creator %q has no videos in the selected dates, showing all creators", state.Creator)
		}

		insights.Print(os.Stdout, view)
		return nil
	},
}

func init() {
	summaryFilters.register(summaryCmd)
	summaryCmd.Flags().IntVar(&summaryPage, "page", 1, "table page to report on")
}
