package runetracker

import (
	"time"

	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/buffer"
	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/watcher"
	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// EventFlag is one immutable, timestamped observation of one flag's value.
type EventFlag = domain.EventFlag

// EventFlagValue is the closed two-case value union: State or Quantity.
type EventFlagValue = domain.EventFlagValue

// ValueKind discriminates the two cases of EventFlagValue.
type ValueKind = domain.ValueKind

const (
	KindState    = domain.KindState
	KindQuantity = domain.KindQuantity
)

// FlagStorage is the shared, lock-guarded backlog handle.
type FlagStorage = ports.FlagStorage

// BufferedEventFlags is the capability of any entity that owns flag-polling
// state: a transition backlog plus live flag truth.
type BufferedEventFlags = ports.BufferedEventFlags

// FlagReader reads live flag values from a running game process.
type FlagReader = ports.FlagReader

// Watcher is a producer that polls flags and buffers transitions.
type Watcher = ports.Watcher

// Sink consumes drained batches in order.
type Sink = ports.Sink

// Observability emits metrics/logs about recording, draining, and drops.
type Observability = ports.Observability

// Field is a structured log field used by Observability implementations.
type Field = ports.Field

// Policy controls poll and drain cadence.
type Policy = ports.Policy

// WatchConfig describes one watched flag.
type WatchConfig = watcher.WatchConfig

// WatchKind selects how a watched flag is read and compared.
type WatchKind = watcher.WatchKind

const (
	WatchState    = watcher.WatchState
	WatchQuantity = watcher.WatchQuantity
)

// FromState builds a record carrying a boolean state.
func FromState(t time.Time, flag uint32, state bool) EventFlag {
	return domain.FromState(t, flag, state)
}

// FromQuantity builds a record carrying a counter value.
func FromQuantity(t time.Time, flag uint32, quantity int32) EventFlag {
	return domain.FromQuantity(t, flag, quantity)
}

// DrainBufferedFlags atomically takes and clears the whole backlog of b.
func DrainBufferedFlags(b BufferedEventFlags) []EventFlag {
	return ports.DrainBufferedFlags(b)
}

// NewMemBuffer returns the default unbounded in-memory flag storage.
func NewMemBuffer() FlagStorage {
	return buffer.NewMemBuffer()
}

// TableReader is a concurrency-safe in-process FlagReader for tests and
// simulations.
type TableReader = watcher.TableReader

// NewTableReader returns an empty table; unset flags read as zero.
func NewTableReader() *TableReader {
	return watcher.NewTableReader()
}

// NewWatcher builds a polling producer over the given reader and storage.
func NewWatcher(cfg watcher.Config, reader FlagReader, storage FlagStorage, obs Observability) (*watcher.Watcher, error) {
	return watcher.New(cfg, reader, storage, obs)
}
