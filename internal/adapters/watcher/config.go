package watcher

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// WatchKind selects how a watched flag is read and compared.
type WatchKind string

const (
	WatchState    WatchKind = "state"
	WatchQuantity WatchKind = "quantity"
)

// WatchConfig describes one watched flag.
type WatchConfig struct {
	Flag  uint32    `yaml:"flag"`
	Kind  WatchKind `yaml:"kind"`
	Label string    `yaml:"label"`
}

// Config captures the runtime details of a polling session.
type Config struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	// IdleSleep is the backoff applied after a failed flag read before the
	// next read of the same tick.
	IdleSleep time.Duration `yaml:"idle_sleep"`
	Flags     []WatchConfig `yaml:"flags"`
}

// UnmarshalYAML accepts "50ms"-style durations alongside raw nanosecond
// integers.
func (c *Config) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		PollInterval yaml.Node     `yaml:"poll_interval"`
		IdleSleep    yaml.Node     `yaml:"idle_sleep"`
		Flags        []WatchConfig `yaml:"flags"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	interval, err := ports.DecodeDuration(&raw.PollInterval)
	if err != nil {
		return fmt.Errorf("poll_interval: %w", err)
	}
	idle, err := ports.DecodeDuration(&raw.IdleSleep)
	if err != nil {
		return fmt.Errorf("idle_sleep: %w", err)
	}
	c.PollInterval = interval
	c.IdleSleep = idle
	c.Flags = raw.Flags
	return nil
}

func (c *Config) ApplyDefaults() {
	if c.PollInterval <= 0 {
		c.PollInterval = 50 * time.Millisecond
	}
	for i := range c.Flags {
		if c.Flags[i].Kind == "" {
			c.Flags[i].Kind = WatchState
		}
		if c.Flags[i].Label == "" {
			c.Flags[i].Label = fmt.Sprintf("flag-%d", c.Flags[i].Flag)
		}
	}
}

func (c *Config) Validate() error {
	if len(c.Flags) == 0 {
		return errors.New("at least one flag must be watched")
	}
	for _, w := range c.Flags {
		switch w.Kind {
		case WatchState, WatchQuantity:
		default:
			return fmt.Errorf("flag %d: unknown kind %q", w.Flag, w.Kind)
		}
	}
	return nil
}
