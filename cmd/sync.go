package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"creator-dashboard/config"
	"creator-dashboard/storage"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the sheet once and mirror the snapshot to PostgreSQL",
	PreRunE: func(_ *cobra.Command, _ []string) error {
		if cfg.Source == config.SourcePostgres {
			return fmt.Errorf("sync needs a sheet source, not %q", cfg.Source)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		loader, cleanup, err := newLoader(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		snap, err := loader.Load(cmd.Context())
		if err != nil {
			return err
		}
		if len(snap.Rows) == 0 {
			logger.Warn("[sync] Snapshot is empty, nothing to mirror")
			return nil
		}

		store, err := storage.NewPostgresStore(cmd.Context(), cfg.DSN())
		if err != nil {
			logger.Error("Make sure PostgreSQL is running: docker compose up -d")
			return err
		}
		defer store.Close()

		if err := store.Save(cmd.Context(), snap); err != nil {
			return err
		}
		logger.Info("[sync] Snapshot %s stored in PostgreSQL (%d rows)", snap.ID, len(snap.Rows))
		return nil
	},
}
