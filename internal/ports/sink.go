package ports

import "github.com/jambinjambo/GreatRuneTracker/internal/domain"

// Sink consumes drained batches in order and forwards them to any downstream
// surface (file, database, channel, UI).
type Sink interface {
	WriteBatch(records []domain.EventFlag) error
	Name() string
}
