package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/agentic-research/citydash/internal/config"
)

var (
	cfgFile     string
	datasetURL  string
	logLevelStr string
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&datasetURL, "dataset-url", "", "Override the remote dataset URL")
	rootCmd.PersistentFlags().StringVar(&logLevelStr, "log-level", "info", "Log level (debug, info, warn, error)")
}

var rootCmd = &cobra.Command{
	Use:   "citydash",
	Short: "Citydash: a top-cities-by-population dashboard over a remote CSV dataset",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setupLogging(logLevelStr)
	},
	SilenceUsage: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the effective configuration, applying the global
// --dataset-url override on top of file/env values.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if datasetURL != "" {
		cfg.DatasetURL = datasetURL
	}
	return cfg, nil
}

func setupLogging(level string) error {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return fmt.Errorf("unknown log level %q", level)
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))
	return nil
}
