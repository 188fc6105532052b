package watcher

import (
	"errors"
	"testing"
	"time"

	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/buffer"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

func TestWatcherFirstReadPrimesWithoutEvent(t *testing.T) {
	reader := NewTableReader()
	reader.SetState(100, true)

	w := newTestWatcher(t, reader, []WatchConfig{{Flag: 100, Kind: WatchState}})

	w.pollOnce(time.Now())
	if got := w.FlagStorage().Len(); got != 0 {
		t.Fatalf("baseline poll must not emit events, got %d", got)
	}
}

func TestWatcherDetectsStateTransitions(t *testing.T) {
	reader := NewTableReader()
	w := newTestWatcher(t, reader, []WatchConfig{{Flag: 100, Kind: WatchState}})

	w.pollOnce(time.Now()) // primes at false
	reader.SetState(100, true)
	w.pollOnce(time.Now())
	w.pollOnce(time.Now()) // unchanged, no event
	reader.SetState(100, false)
	w.pollOnce(time.Now())

	batch := ports.DrainBufferedFlags(w)
	if len(batch) != 2 {
		t.Fatalf("expected 2 transition records, got %d", len(batch))
	}
	if state, _ := batch[0].Value.State(); !state {
		t.Fatalf("first transition should be true")
	}
	if state, _ := batch[1].Value.State(); state {
		t.Fatalf("second transition should be false")
	}
	if batch[0].Flag != 100 || batch[1].Flag != 100 {
		t.Fatalf("unexpected flag ids: %d, %d", batch[0].Flag, batch[1].Flag)
	}
}

func TestWatcherDetectsQuantityChanges(t *testing.T) {
	reader := NewTableReader()
	reader.SetQuantity(200, 3)
	w := newTestWatcher(t, reader, []WatchConfig{{Flag: 200, Kind: WatchQuantity}})

	w.pollOnce(time.Now())
	reader.SetQuantity(200, -5)
	w.pollOnce(time.Now())

	batch := ports.DrainBufferedFlags(w)
	if len(batch) != 1 {
		t.Fatalf("expected 1 record, got %d", len(batch))
	}
	if q, ok := batch[0].Value.Quantity(); !ok || q != -5 {
		t.Fatalf("expected quantity -5, got %d ok=%v", q, ok)
	}
}

func TestWatcherEventFlagStateReadsLive(t *testing.T) {
	reader := NewTableReader()
	w := newTestWatcher(t, reader, []WatchConfig{{Flag: 7, Kind: WatchState}})

	if w.EventFlagState(7) {
		t.Fatalf("unset flag must read false")
	}

	// Never polled: the answer still reflects live state, not buffered history.
	reader.SetState(7, true)
	if !w.EventFlagState(7) {
		t.Fatalf("expected live state true")
	}
	if w.FlagStorage().Len() != 0 {
		t.Fatalf("EventFlagState must not touch the buffer")
	}
}

func TestWatcherSetWatchListReprimes(t *testing.T) {
	reader := NewTableReader()
	reader.SetState(1, true)
	w := newTestWatcher(t, reader, []WatchConfig{{Flag: 1}})

	w.pollOnce(time.Now())
	w.SetWatchList([]WatchConfig{{Flag: 2}})

	// Flag 1 is gone; a change to it must not produce events.
	reader.SetState(1, false)
	w.pollOnce(time.Now()) // primes flag 2
	reader.SetState(2, true)
	w.pollOnce(time.Now())

	batch := ports.DrainBufferedFlags(w)
	if len(batch) != 1 || batch[0].Flag != 2 {
		t.Fatalf("expected a single record for flag 2, got %+v", batch)
	}
}

func TestWatcherReadErrorsAreCountedNotFatal(t *testing.T) {
	reader := &failingReader{}
	storage := buffer.NewMemBuffer()
	w, err := New(Config{Flags: []WatchConfig{{Flag: 1}}}, reader, storage, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	w.pollOnce(time.Now())
	if storage.Len() != 0 {
		t.Fatalf("failed reads must not emit records")
	}
}

func TestWatcherBacksOffAfterReadError(t *testing.T) {
	reader := &failingReader{}
	storage := buffer.NewMemBuffer()
	idle := 30 * time.Millisecond
	w, err := New(Config{IdleSleep: idle, Flags: []WatchConfig{{Flag: 1}, {Flag: 2}}}, reader, storage, nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	start := time.Now()
	w.pollOnce(start)
	if elapsed := time.Since(start); elapsed < 2*idle {
		t.Fatalf("expected one backoff per failed read (>= %s), got %s", 2*idle, elapsed)
	}

	// A healthy read path must not pay the backoff.
	ok := NewTableReader()
	w2, err := New(Config{IdleSleep: time.Minute, Flags: []WatchConfig{{Flag: 1}}}, ok, buffer.NewMemBuffer(), nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	start = time.Now()
	w2.pollOnce(start)
	if elapsed := time.Since(start); elapsed > 10*time.Second {
		t.Fatalf("successful poll must not back off, took %s", elapsed)
	}
}

func TestWatcherStartStop(t *testing.T) {
	reader := NewTableReader()
	w := newTestWatcher(t, reader, []WatchConfig{{Flag: 1}})

	if err := w.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := w.Start(); err == nil {
		t.Fatalf("second start must fail")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("stop must be idempotent: %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("empty watch list must fail validation")
	}

	cfg = Config{Flags: []WatchConfig{{Flag: 1, Kind: "mystery"}}}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("unknown kind must fail validation")
	}

	cfg = Config{Flags: []WatchConfig{{Flag: 1}}}
	cfg.ApplyDefaults()
	if cfg.Flags[0].Kind != WatchState {
		t.Fatalf("kind should default to state, got %q", cfg.Flags[0].Kind)
	}
	if cfg.PollInterval != 50*time.Millisecond {
		t.Fatalf("expected default poll interval 50ms, got %s", cfg.PollInterval)
	}
}

func newTestWatcher(t *testing.T, reader ports.FlagReader, flags []WatchConfig) *Watcher {
	t.Helper()
	w, err := New(Config{Flags: flags}, reader, buffer.NewMemBuffer(), nil)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}
	return w
}

type failingReader struct{}

func (f *failingReader) ReadFlag(uint32) (int32, error)     { return 0, errors.New("read failed") }
func (f *failingReader) ReadFlagState(uint32) (bool, error) { return false, errors.New("read failed") }
