// Package config loads citydash settings with the usual precedence:
// flags > CITYDASH_* environment variables > config file > defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/agentic-research/citydash/internal/dataset"
	"github.com/agentic-research/citydash/internal/query"
)

// Config is the resolved runtime configuration.
type Config struct {
	DatasetURL       string // remote CSV location
	SnapshotPath     string // local SQLite snapshot; empty means the user cache dir
	PreferredCountry string // initial selection if present in the country list
	Limit            int    // rows per country
	Listen           string // dashboard listen address
}

// Load reads the config file (explicit path, or citydash.yaml from the
// working directory / ~/.config/citydash) and applies env overrides. A
// missing config file is fine; a broken one is not.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("dataset.url", dataset.DefaultURL)
	v.SetDefault("dataset.snapshot", "")
	v.SetDefault("dataset.preferred_country", "USA")
	v.SetDefault("query.limit", query.DefaultLimit)
	v.SetDefault("server.listen", "127.0.0.1:8642")

	v.SetEnvPrefix("CITYDASH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("citydash")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "citydash"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		DatasetURL:       v.GetString("dataset.url"),
		SnapshotPath:     v.GetString("dataset.snapshot"),
		PreferredCountry: v.GetString("dataset.preferred_country"),
		Limit:            v.GetInt("query.limit"),
		Listen:           v.GetString("server.listen"),
	}
	if cfg.DatasetURL == "" {
		return nil, errors.New("dataset.url must not be empty")
	}
	if cfg.Limit <= 0 {
		return nil, fmt.Errorf("query.limit must be positive, got %d", cfg.Limit)
	}
	return cfg, nil
}

// ResolveSnapshotPath returns the snapshot location, defaulting to the user
// cache directory when unset.
func (c *Config) ResolveSnapshotPath() (string, error) {
	if c.SnapshotPath != "" {
		return c.SnapshotPath, nil
	}
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache dir: %w", err)
	}
	return filepath.Join(cacheDir, "citydash", "cities.db"), nil
}
