package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/agentic-research/citydash/internal/config"
	"github.com/agentic-research/citydash/internal/dataset"
	"github.com/agentic-research/citydash/internal/query"
)

var refresh bool

// openEngine ensures a local snapshot of the remote dataset exists (building
// it on first run or when --refresh is set) and opens the query engine on it.
func openEngine(ctx context.Context, cfg *config.Config) (*query.Engine, error) {
	dbPath, err := cfg.ResolveSnapshotPath()
	if err != nil {
		return nil, err
	}

	if _, statErr := os.Stat(dbPath); refresh || os.IsNotExist(statErr) {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("mkdir snapshot dir: %w", err)
		}
		slog.Info("building dataset snapshot", "url", cfg.DatasetURL, "path", dbPath)
		n, err := dataset.Build(ctx, cfg.DatasetURL, dbPath)
		if err != nil {
			return nil, err
		}
		slog.Info("snapshot built", "rows", n)
	}

	return query.Open(dbPath)
}
