package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"creator-dashboard/models"
)

const dateLayout = "2006-01-02"

// filterFlags holds the filter options shared by summary and export.
type filterFlags struct {
	search  string
	start   string
	end     string
	creator string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.search, "search", "", "case-insensitive match on account or product name")
	cmd.Flags().StringVar(&f.start, "start", "", "first day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "last day to include (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.creator, "creator", "", "exact account name")
}

func (f *filterFlags) state() (models.FilterState, error) {
	state := models.FilterState{Search: f.search, Creator: f.creator}

	var err error
	if state.Start, err = parseDay(f.start); err != nil {
		return state, fmt.Errorf("--start: %w", err)
	}
	if state.End, err = parseDay(f.end); err != nil {
		return state, fmt.Errorf("--end: %w", err)
	}
	return state, nil
}

func parseDay(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("expected YYYY-MM-DD, got %q", raw)
	}
	return &t, nil
}
