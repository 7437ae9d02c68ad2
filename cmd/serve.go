package cmd

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"creator-dashboard/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard JSON API and refresh the sheet periodically",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		loader, cleanup, err := newLoader(ctx, cfg)
		if err != nil {
			return err
		}
		defer cleanup()

		mirror, err := openMirror(ctx, cfg)
		if err != nil {
			return err
		}
		if mirror != nil {
			defer mirror.Close()
		}

		logger.Info("=== Creator dashboard starting ===")
		logger.Info("Config: source %s | page size %d | refresh every %s", cfg.Source, cfg.PageSize, cfg.RefreshInterval)

		return server.New(server.Options{
			Loader:          loader,
			Mirror:          mirror,
			Metrics:         stats,
			Gatherer:        registry,
			Logger:          logger,
			Addr:            cfg.HTTPAddr,
			PageSize:        cfg.PageSize,
			RefreshInterval: cfg.RefreshInterval,
		}).Run(ctx)
	},
}
