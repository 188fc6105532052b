package runetracker

import (
	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/watcher"
	"github.com/jambinjambo/GreatRuneTracker/internal/app/config"
)

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// WatcherConfig holds the poll interval and watch list.
	WatcherConfig = watcher.Config
	// PostgresConfig configures the postgres sink.
	PostgresConfig = config.PostgresConfig
	// JournalConfig configures the on-disk event journal sink.
	JournalConfig = config.JournalConfig
	// MetricsConfig configures the metrics HTTP server.
	MetricsConfig = config.MetricsConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}
