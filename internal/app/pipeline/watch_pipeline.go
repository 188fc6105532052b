package pipeline

import (
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// RunWatchPipeline starts the producer side: the watcher's poll loop, which
// appends one record per observed flag transition to its storage.
func RunWatchPipeline(w ports.Watcher, obs ports.Observability) error {
	if err := w.Start(); err != nil {
		return err
	}
	if obs != nil {
		obs.LogInfo("watcher_started")
	}
	return nil
}
