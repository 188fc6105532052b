package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/watcher"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

type Config struct {
	Policy   ports.Policy   `yaml:"policy"`
	Watch    watcher.Config `yaml:"watch"`
	Sink     string         `yaml:"sink"`
	Postgres PostgresConfig `yaml:"postgres"`
	Journal  JournalConfig  `yaml:"journal"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

type PostgresConfig struct {
	ConnString string `yaml:"conn_string"`
	Table      string `yaml:"table"`
}

type JournalConfig struct {
	Dir string `yaml:"dir"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) ApplyDefaults() {
	if c.Policy.PollInterval == 0 {
		c.Policy.PollInterval = 50 * time.Millisecond
	}
	if c.Policy.DrainInterval == 0 {
		c.Policy.DrainInterval = time.Second
	}
	if c.Policy.IdleSleep == 0 {
		c.Policy.IdleSleep = 5 * time.Millisecond
	}
	if c.Sink == "" {
		c.Sink = "text"
	}
	if c.Postgres.Table == "" {
		c.Postgres.Table = "event_flags"
	}
	if c.Journal.Dir == "" {
		c.Journal.Dir = "./data/journal"
	}
	if c.Metrics.Addr == "" {
		c.Metrics.Addr = ":9200"
	}

	c.Watch.ApplyDefaults()
}

func (c *Config) Validate() error {
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	switch c.Sink {
	case "text", "journal":
	case "postgres":
		if c.Postgres.ConnString == "" {
			return fmt.Errorf("postgres.conn_string is required for the postgres sink")
		}
	default:
		return fmt.Errorf("unknown sink %q", c.Sink)
	}
	if c.Metrics.Addr == "" {
		return fmt.Errorf("metrics.addr is required")
	}
	return nil
}
