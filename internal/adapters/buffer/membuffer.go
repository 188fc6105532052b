package buffer

import (
	"sync"

	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// MemBuffer is an unbounded in-memory backlog that preserves insertion order.
// One producer appends, one consumer drains; both go through the same lock.
type MemBuffer struct {
	mu      sync.Mutex
	records []domain.EventFlag
}

func NewMemBuffer() *MemBuffer {
	return &MemBuffer{}
}

func (b *MemBuffer) Append(e domain.EventFlag) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records = append(b.records, e)
}

// Drain swaps the backlog out for an empty one in a single exchange under the
// lock, so the hold time is O(1) regardless of backlog size.
func (b *MemBuffer) Drain() []domain.EventFlag {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.records
	b.records = nil
	return out
}

func (b *MemBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

var _ ports.FlagStorage = (*MemBuffer)(nil)
