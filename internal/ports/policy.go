package ports

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

type Policy struct {
	// PollInterval is how often the watcher samples live flag values.
	PollInterval time.Duration `yaml:"poll_interval"`
	// DrainInterval is how often the consumer drains the backlog into a sink.
	DrainInterval time.Duration `yaml:"drain_interval"`
	// IdleSleep is the backoff applied after transient read errors.
	IdleSleep time.Duration `yaml:"idle_sleep"`
}

// UnmarshalYAML accepts human-readable durations ("50ms", "1s") as well as
// raw nanosecond integers.
func (p *Policy) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		PollInterval  yaml.Node `yaml:"poll_interval"`
		DrainInterval yaml.Node `yaml:"drain_interval"`
		IdleSleep     yaml.Node `yaml:"idle_sleep"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	var err error
	if p.PollInterval, err = DecodeDuration(&raw.PollInterval); err != nil {
		return fmt.Errorf("poll_interval: %w", err)
	}
	if p.DrainInterval, err = DecodeDuration(&raw.DrainInterval); err != nil {
		return fmt.Errorf("drain_interval: %w", err)
	}
	if p.IdleSleep, err = DecodeDuration(&raw.IdleSleep); err != nil {
		return fmt.Errorf("idle_sleep: %w", err)
	}
	return nil
}

// DecodeDuration reads a YAML scalar as a time.Duration. Empty nodes decode
// to zero so defaults can fill in later.
func DecodeDuration(node *yaml.Node) (time.Duration, error) {
	if node == nil || node.IsZero() {
		return 0, nil
	}

	var s string
	if err := node.Decode(&s); err == nil {
		if s == "" {
			return 0, nil
		}
		return time.ParseDuration(s)
	}

	var ns int64
	if err := node.Decode(&ns); err != nil {
		return 0, fmt.Errorf("invalid duration %q", node.Value)
	}
	return time.Duration(ns), nil
}
