package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/caarlos0/env"
)

const (
	defaultTickInterval = 30 * time.Second
	maxTickInterval     = time.Minute

	dbFileName    = "festwatch.db"
	prefsFileName = "preferences.yaml"
)

// Config is the runtime configuration, read from the environment and
// overridden by command line flags.
type Config struct {
	Production bool `env:"FESTWATCH_PRODUCTION" envDefault:"false"`
	// DBPath is the SQLite file with the catalog and notify states.
	DBPath string `env:"FESTWATCH_DB_PATH"`
	// CatalogPath is an optional YAML catalog replacing the embedded one.
	CatalogPath string `env:"FESTWATCH_CATALOG_PATH"`
	// PrefsPath is the preference file used by headless commands.
	PrefsPath    string        `env:"FESTWATCH_PREFS_PATH"`
	TickInterval time.Duration `env:"FESTWATCH_TICK_INTERVAL" envDefault:"30s"`
}

// Load parses the environment and fills paths relative to configDir.
func Load(configDir string) (*Config, error) {
	var conf Config
	if err := env.Parse(&conf); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	conf.Normalize(configDir)
	return &conf, nil
}

// Normalize fills missing values with defaults and clamps the tick interval
// to at most one minute.
func (c *Config) Normalize(configDir string) {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(configDir, dbFileName)
	}
	if c.PrefsPath == "" {
		c.PrefsPath = filepath.Join(configDir, prefsFileName)
	}
	if c.TickInterval <= 0 {
		c.TickInterval = defaultTickInterval
	}
	if c.TickInterval > maxTickInterval {
		c.TickInterval = maxTickInterval
	}
}
