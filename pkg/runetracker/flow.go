package runetracker

import (
	"context"
	"fmt"

	"github.com/jambinjambo/GreatRuneTracker/internal/app/config"
)

// Flow is a convenience builder that lets callers say Conf → StreamIN →
// StreamOUT without touching the underlying hexagonal wiring.
type Flow struct {
	cfg  *Config
	path string
	opts []TrackerOption
}

// FlowOption mutates the Flow after configuration is loaded.
type FlowOption func(*Flow)

// StreamInOption configures the producer side (reader, watcher, storage).
type StreamInOption func(*Flow)

// StreamOutOption configures the consumer side (sink, observability).
type StreamOutOption func(*Flow)

// Conf loads YAML from disk, applies FlowOption values, and returns a Flow
// builder. Sessions built via Conf hot-reload the watch list when the config
// file changes on disk.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	f, err := ConfFromConfig(cfg, opts...)
	if err != nil {
		return nil, err
	}
	f.path = path
	return f, nil
}

// ConfFromConfig bootstraps a Flow from an in-memory Config.
func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	f := &Flow{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f, nil
}

// Config returns the underlying configuration so callers can tweak it before
// building a runtime.
func (f *Flow) Config() *Config {
	if f == nil {
		return nil
	}
	return f.cfg
}

// Options appends raw TrackerOption values to the builder for advanced scenarios.
func (f *Flow) Options(opts ...TrackerOption) *Flow {
	if f == nil {
		return nil
	}
	f.appendOptions(opts...)
	return f
}

// StreamIN records producer-side overrides (reader, watcher, storage).
func (f *Flow) StreamIN(opts ...StreamInOption) *Flow {
	if f == nil {
		return nil
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

// StreamOUT records consumer-side overrides and builds a TrackerRuntime ready
// to run.
func (f *Flow) StreamOUT(opts ...StreamOutOption) (*TrackerRuntime, error) {
	if f == nil {
		return nil, fmt.Errorf("flow is nil")
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return NewTrackerRuntime(f.cfg, f.opts...)
}

// Run is a shortcut for StreamOUT + runtime.Run, with config hot-reload when
// the Flow came from a file.
func (f *Flow) Run(ctx context.Context, opts ...StreamOutOption) error {
	rt, err := f.StreamOUT(opts...)
	if err != nil {
		return err
	}

	if f.path != "" {
		reloader, err := config.NewReloader(f.path, rt.ApplyConfig, rt.obs)
		if err != nil {
			return err
		}
		go func() {
			_ = reloader.Run(ctx)
		}()
	}

	return rt.Run(ctx)
}

// WithFlowOptions appends TrackerOption values during Conf.
func WithFlowOptions(opts ...TrackerOption) FlowOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(opts...)
		}
	}
}

// StreamInReader injects the live flag source.
func StreamInReader(r FlagReader) StreamInOption {
	return func(f *Flow) {
		if f != nil && r != nil {
			f.appendOptions(WithReader(r))
		}
	}
}

// StreamInWatcher replaces the whole producer.
func StreamInWatcher(w Watcher) StreamInOption {
	return func(f *Flow) {
		if f != nil && w != nil {
			f.appendOptions(WithWatcher(w))
		}
	}
}

// StreamInStorage swaps the in-memory buffer for a caller-provided implementation.
func StreamInStorage(s FlagStorage) StreamInOption {
	return func(f *Flow) {
		if f != nil && s != nil {
			f.appendOptions(WithStorage(s))
		}
	}
}

// StreamInObservability overrides the default Prometheus-based observability stack.
func StreamInObservability(obs Observability) StreamInOption {
	return func(f *Flow) {
		if f != nil && obs != nil {
			f.appendOptions(WithObservability(obs))
		}
	}
}

// StreamOutSink injects a custom Sink implementation.
func StreamOutSink(s Sink) StreamOutOption {
	return func(f *Flow) {
		if f != nil && s != nil {
			f.appendOptions(WithSink(s))
		}
	}
}

// StreamOutObservability replaces the default observability backend.
func StreamOutObservability(obs Observability) StreamOutOption {
	return func(f *Flow) {
		if f != nil && obs != nil {
			f.appendOptions(WithObservability(obs))
		}
	}
}

// StreamOutCallback installs a sink built from a simple callback function.
func StreamOutCallback(name string, fn EventBatchSink) StreamOutOption {
	return func(f *Flow) {
		if f != nil {
			f.appendOptions(WithSink(NewCallbackSink(name, fn)))
		}
	}
}

func (f *Flow) appendOptions(opts ...TrackerOption) {
	for _, opt := range opts {
		if opt != nil {
			f.opts = append(f.opts, opt)
		}
	}
}
