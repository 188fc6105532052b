package runetracker

import (
	"sync"
	"time"

	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/buffer"
	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// Recorder is the producer-facing façade for external pollers that do their
// own change detection: call RecordState/RecordQuantity on each observed
// transition and hand the Recorder to a consumer that drains it. It
// implements BufferedEventFlags, so the derived drain works on it directly.
type Recorder struct {
	storage ports.FlagStorage
	obs     ports.Observability

	mu        sync.Mutex
	lastState map[uint32]bool
	now       func() time.Time
}

// RecorderOption customizes a Recorder.
type RecorderOption func(*Recorder)

// RecorderStorage swaps the backing storage.
func RecorderStorage(s FlagStorage) RecorderOption {
	return func(r *Recorder) {
		if s != nil {
			r.storage = s
		}
	}
}

// RecorderObservability attaches an observability backend.
func RecorderObservability(obs Observability) RecorderOption {
	return func(r *Recorder) {
		r.obs = obs
	}
}

func NewRecorder(opts ...RecorderOption) *Recorder {
	r := &Recorder{
		storage:   buffer.NewMemBuffer(),
		lastState: make(map[uint32]bool),
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// RecordState appends a boolean transition record stamped with the current
// local time, and remembers the state as the flag's live truth.
func (r *Recorder) RecordState(flag uint32, state bool) {
	r.mu.Lock()
	r.lastState[flag] = state
	r.mu.Unlock()

	r.storage.Append(domain.FromState(r.now(), flag, state))
	if r.obs != nil {
		r.obs.IncCounter("runetracker_events_recorded_total", 1)
	}
}

// RecordQuantity appends a counter record stamped with the current local time.
// The flag's live truth becomes "non-zero".
func (r *Recorder) RecordQuantity(flag uint32, quantity int32) {
	r.mu.Lock()
	r.lastState[flag] = quantity != 0
	r.mu.Unlock()

	r.storage.Append(domain.FromQuantity(r.now(), flag, quantity))
	if r.obs != nil {
		r.obs.IncCounter("runetracker_events_recorded_total", 1)
	}
}

// FlagStorage returns the shared backlog handle.
func (r *Recorder) FlagStorage() ports.FlagStorage { return r.storage }

// EventFlagState reports the last recorded truth of a flag; it never touches
// the storage lock.
func (r *Recorder) EventFlagState(flag uint32) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastState[flag]
}

// Drain atomically takes and clears the whole backlog.
func (r *Recorder) Drain() []EventFlag {
	return ports.DrainBufferedFlags(r)
}

var _ ports.BufferedEventFlags = (*Recorder)(nil)
