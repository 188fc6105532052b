package pipeline

import (
	"time"

	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// RunDrainPipeline is the consumer side: on a fixed interval it takes the
// entire backlog in one atomic step and hands the batch to the sink. A failed
// sink write drops the batch; the in-memory core offers no durability, and a
// re-append would interleave stale records behind fresh ones.
//
// On stop, one final drain flushes whatever the producer appended since the
// last tick. Blocks until the stop channel closes.
func RunDrainPipeline(b ports.BufferedEventFlags, sink ports.Sink, pol ports.Policy, obs ports.Observability, stop <-chan struct{}) {
	ticker := time.NewTicker(pol.DrainInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			drainOnce(b, sink, obs)
			return
		case <-ticker.C:
			drainOnce(b, sink, obs)
		}
	}
}

func drainOnce(b ports.BufferedEventFlags, sink ports.Sink, obs ports.Observability) {
	batch := ports.DrainBufferedFlags(b)
	if len(batch) == 0 {
		return
	}

	start := time.Now()
	if err := sink.WriteBatch(batch); err != nil {
		if obs != nil {
			obs.LogError("sink_write_failed", err, ports.Field{Key: "sink", Value: sink.Name()})
			obs.RecordDropped(batch, err)
		}
		return
	}
	if obs != nil {
		obs.ObserveLatency("drain_sink_latency_seconds", time.Since(start).Seconds())
		obs.IncCounter("runetracker_events_drained_total", float64(len(batch)))
	}
}
