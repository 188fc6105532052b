package runetracker

import (
	"time"

	base "github.com/jambinjambo/GreatRuneTracker/pkg/runetracker"
)

// Re-exported errors for convenience.
var (
	ErrChannelSinkClosed = base.ErrChannelSinkClosed
)

// Type aliases so consumers can import github.com/jambinjambo/GreatRuneTracker directly.
type (
	Config             = base.Config
	Policy             = base.Policy
	WatcherConfig      = base.WatcherConfig
	WatchConfig        = base.WatchConfig
	WatchKind          = base.WatchKind
	PostgresConfig     = base.PostgresConfig
	JournalConfig      = base.JournalConfig
	MetricsConfig      = base.MetricsConfig
	Flow               = base.Flow
	FlowOption         = base.FlowOption
	StreamInOption     = base.StreamInOption
	StreamOutOption    = base.StreamOutOption
	TrackerRuntime     = base.TrackerRuntime
	TrackerOption      = base.TrackerOption
	EventFlag          = base.EventFlag
	EventFlagValue     = base.EventFlagValue
	ValueKind          = base.ValueKind
	EventBatchSink     = base.EventBatchSink
	FlagReader         = base.FlagReader
	FlagStorage        = base.FlagStorage
	BufferedEventFlags = base.BufferedEventFlags
	Watcher            = base.Watcher
	Sink               = base.Sink
	Observability      = base.Observability
	Field              = base.Field
	Recorder           = base.Recorder
	RecorderOption     = base.RecorderOption
	TableReader        = base.TableReader
)

const (
	KindState     = base.KindState
	KindQuantity  = base.KindQuantity
	WatchState    = base.WatchState
	WatchQuantity = base.WatchQuantity
)

// Config helpers.
func LoadConfig(path string) (*Config, error) {
	return base.LoadConfig(path)
}

// Flow builder helpers.
func Conf(path string, opts ...FlowOption) (*Flow, error) {
	return base.Conf(path, opts...)
}

func ConfFromConfig(cfg *Config, opts ...FlowOption) (*Flow, error) {
	return base.ConfFromConfig(cfg, opts...)
}

func WithFlowOptions(opts ...TrackerOption) FlowOption {
	return base.WithFlowOptions(opts...)
}

func StreamInReader(r FlagReader) StreamInOption {
	return base.StreamInReader(r)
}

func StreamInWatcher(w Watcher) StreamInOption {
	return base.StreamInWatcher(w)
}

func StreamInStorage(s FlagStorage) StreamInOption {
	return base.StreamInStorage(s)
}

func StreamInObservability(obs Observability) StreamInOption {
	return base.StreamInObservability(obs)
}

func StreamOutSink(s Sink) StreamOutOption {
	return base.StreamOutSink(s)
}

func StreamOutObservability(obs Observability) StreamOutOption {
	return base.StreamOutObservability(obs)
}

func StreamOutCallback(name string, fn EventBatchSink) StreamOutOption {
	return base.StreamOutCallback(name, fn)
}

// Tracker runtime and options.
func NewTrackerRuntime(cfg *Config, opts ...TrackerOption) (*TrackerRuntime, error) {
	return base.NewTrackerRuntime(cfg, opts...)
}

func WithReader(r FlagReader) TrackerOption {
	return base.WithReader(r)
}

func WithWatcher(w Watcher) TrackerOption {
	return base.WithWatcher(w)
}

func WithStorage(s FlagStorage) TrackerOption {
	return base.WithStorage(s)
}

func WithSink(s Sink) TrackerOption {
	return base.WithSink(s)
}

func WithObservability(obs Observability) TrackerOption {
	return base.WithObservability(obs)
}

// Record model helpers.
func FromState(t time.Time, flag uint32, state bool) EventFlag {
	return base.FromState(t, flag, state)
}

func FromQuantity(t time.Time, flag uint32, quantity int32) EventFlag {
	return base.FromQuantity(t, flag, quantity)
}

func DrainBufferedFlags(b BufferedEventFlags) []EventFlag {
	return base.DrainBufferedFlags(b)
}

func NewMemBuffer() FlagStorage {
	return base.NewMemBuffer()
}

func NewTableReader() *TableReader {
	return base.NewTableReader()
}

// Sink adapters.
func NewCallbackSink(name string, fn EventBatchSink) Sink {
	return base.NewCallbackSink(name, fn)
}

func NewChannelSink(name string, buffer int) (Sink, <-chan []EventFlag, func()) {
	return base.NewChannelSink(name, buffer)
}

// Producer façade for external pollers.
func NewRecorder(opts ...RecorderOption) *Recorder {
	return base.NewRecorder(opts...)
}

func RecorderStorage(s FlagStorage) RecorderOption {
	return base.RecorderStorage(s)
}

func RecorderObservability(obs Observability) RecorderOption {
	return base.RecorderObservability(obs)
}
