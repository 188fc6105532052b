package ports

import "github.com/jambinjambo/GreatRuneTracker/internal/domain"

// FlagStorage is the shared, mutually-exclusive handle to the ordered backlog
// of event flag records. Implementations guard every operation with a single
// lock scoped to the sequence; callers never hold the lock across calls.
type FlagStorage interface {
	// Append inserts one record at the end of the backlog. O(1) under the lock.
	Append(e domain.EventFlag)
	// Drain atomically takes the entire backlog and resets the storage to
	// empty. This is the sole removal path; there is no peek or partial drain.
	// A concurrent Append lands wholly in the returned batch or wholly in the
	// storage left behind, never split across the two.
	Drain() []domain.EventFlag
	// Len reports the current backlog size.
	Len() int
}

// BufferedEventFlags is the capability exposed by any entity that owns
// flag-polling state: a buffer of observed transitions plus the live truth of
// each flag. The two notions are deliberately separate; callers may want
// current state without draining history.
type BufferedEventFlags interface {
	// FlagStorage returns the shared backlog handle.
	FlagStorage() FlagStorage
	// EventFlagState reports the current, non-buffered state of a flag,
	// sourced from whatever live state the entity tracks. It must not block
	// on the storage lock.
	EventFlagState(flag uint32) bool
}

// DrainBufferedFlags takes and clears the whole backlog of b in one atomic
// step. Derived purely from the capability's primitives so any concrete
// polling entity gains drain behavior for free.
func DrainBufferedFlags(b BufferedEventFlags) []domain.EventFlag {
	return b.FlagStorage().Drain()
}
