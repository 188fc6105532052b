package watcher

import (
	"sync"

	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// TableReader is a concurrency-safe in-process FlagReader backed by a plain
// table. Tests, examples, and simulations poke values into it; real
// game-process readers live outside this repo and implement the same port.
type TableReader struct {
	mu   sync.RWMutex
	vals map[uint32]int32
}

func NewTableReader() *TableReader {
	return &TableReader{vals: make(map[uint32]int32)}
}

// SetState stores a boolean flag as 0 or 1.
func (r *TableReader) SetState(flag uint32, state bool) {
	var v int32
	if state {
		v = 1
	}
	r.SetQuantity(flag, v)
}

func (r *TableReader) SetQuantity(flag uint32, quantity int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.vals[flag] = quantity
}

// ReadFlag returns the stored value; unset flags read as zero, matching
// untouched game memory.
func (r *TableReader) ReadFlag(flag uint32) (int32, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.vals[flag], nil
}

func (r *TableReader) ReadFlagState(flag uint32) (bool, error) {
	v, err := r.ReadFlag(flag)
	return v != 0, err
}

var _ ports.FlagReader = (*TableReader)(nil)
