package watcher

import (
	"fmt"
	"sync"
	"time"

	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// Watcher polls live flag values through a FlagReader, detects transitions,
// and appends one timestamped record per observed change to its storage.
// It is the single producer for the storage it owns.
type Watcher struct {
	storage ports.FlagStorage
	reader  ports.FlagReader
	obs     ports.Observability

	mu      sync.Mutex
	cfg     Config
	lastVal map[uint32]int32
	primed  map[uint32]bool
	started bool
	stopCh  chan struct{}
	wg      sync.WaitGroup
}

func New(cfg Config, reader ports.FlagReader, storage ports.FlagStorage, obs ports.Observability) (*Watcher, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if reader == nil {
		return nil, fmt.Errorf("flag reader is required")
	}
	if storage == nil {
		return nil, fmt.Errorf("flag storage is required")
	}
	return &Watcher{
		storage: storage,
		reader:  reader,
		obs:     obs,
		cfg:     cfg,
		lastVal: make(map[uint32]int32),
		primed:  make(map[uint32]bool),
	}, nil
}

// FlagStorage returns the shared backlog handle.
func (w *Watcher) FlagStorage() ports.FlagStorage { return w.storage }

// EventFlagState answers from the live reader, not from buffered history, and
// never touches the storage lock. An unreadable flag reports false.
func (w *Watcher) EventFlagState(flag uint32) bool {
	state, err := w.reader.ReadFlagState(flag)
	if err != nil {
		return false
	}
	return state
}

func (w *Watcher) Start() error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return fmt.Errorf("watcher already started")
	}
	w.started = true
	w.stopCh = make(chan struct{})
	interval := w.cfg.PollInterval
	w.mu.Unlock()

	w.wg.Add(1)
	go w.run(interval)
	return nil
}

func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.started {
		w.mu.Unlock()
		return nil
	}
	w.started = false
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	return nil
}

// SetWatchList swaps the watched flags at runtime. Baselines for flags no
// longer watched are discarded; new flags prime on their next poll.
func (w *Watcher) SetWatchList(flags []WatchConfig) {
	cfg := Config{Flags: flags}
	cfg.ApplyDefaults()

	w.mu.Lock()
	defer w.mu.Unlock()

	keep := make(map[uint32]bool, len(cfg.Flags))
	for _, f := range cfg.Flags {
		keep[f.Flag] = true
	}
	for flag := range w.primed {
		if !keep[flag] {
			delete(w.primed, flag)
			delete(w.lastVal, flag)
		}
	}
	w.cfg.Flags = cfg.Flags
}

func (w *Watcher) run(interval time.Duration) {
	defer w.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.pollOnce(time.Now())
		}
	}
}

// pollOnce reads every watched flag and appends a record for each transition.
// The first successful read of a flag establishes its baseline silently.
func (w *Watcher) pollOnce(now time.Time) {
	w.mu.Lock()
	watched := make([]WatchConfig, len(w.cfg.Flags))
	copy(watched, w.cfg.Flags)
	w.mu.Unlock()

	for _, f := range watched {
		val, err := w.reader.ReadFlag(f.Flag)
		if err != nil {
			if w.obs != nil {
				w.obs.IncCounter("runetracker_poll_errors_total", 1)
				w.obs.LogError("flag_read_failed", err, ports.Field{Key: "flag", Value: f.Flag})
			}
			w.idleBackoff()
			continue
		}

		w.mu.Lock()
		prev, primed := w.lastVal[f.Flag], w.primed[f.Flag]
		w.lastVal[f.Flag] = val
		w.primed[f.Flag] = true
		w.mu.Unlock()

		if !primed || prev == val {
			continue
		}

		var rec domain.EventFlag
		if f.Kind == WatchQuantity {
			rec = domain.FromQuantity(now, f.Flag, val)
		} else {
			rec = domain.FromState(now, f.Flag, val != 0)
		}
		w.storage.Append(rec)
		if w.obs != nil {
			w.obs.IncCounter("runetracker_events_recorded_total", 1)
		}
	}
}

// idleBackoff sleeps for the configured idle interval after a transient read
// error, so a flapping reader does not hammer the process it reads from.
// Returns early if the watcher is stopped mid-sleep.
func (w *Watcher) idleBackoff() {
	w.mu.Lock()
	idle := w.cfg.IdleSleep
	stop := w.stopCh
	w.mu.Unlock()

	if idle <= 0 {
		return
	}
	select {
	case <-stop:
	case <-time.After(idle):
	}
}

var _ ports.Watcher = (*Watcher)(nil)
