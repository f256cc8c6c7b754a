package cmd

import (
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/agentic-research/citydash/internal/dash"
	"github.com/agentic-research/citydash/internal/state"
)

var listenAddr string

func init() {
	serveCmd.Flags().StringVarP(&listenAddr, "listen", "l", "", "Listen address (overrides config)")
	serveCmd.Flags().BoolVar(&refresh, "refresh", false, "Rebuild the dataset snapshot before serving")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the city dashboard",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if listenAddr != "" {
			cfg.Listen = listenAddr
		}

		engine, err := openEngine(ctx, cfg)
		if err != nil {
			return err
		}
		defer func() { _ = engine.Close() }() // safe to ignore

		store := state.New(engine, state.Options{
			Preferred: cfg.PreferredCountry,
			Limit:     cfg.Limit,
		})
		// A failed country load leaves the dashboard in its waiting state;
		// it is not fatal to the server.
		if err := store.Init(ctx); err != nil {
			slog.Warn("starting with empty country list", "err", err)
		}

		return dash.New(store, cfg.Listen, slog.Default()).Serve(ctx)
	},
}
