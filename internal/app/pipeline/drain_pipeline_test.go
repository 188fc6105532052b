package pipeline

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/buffer"
	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

func TestDrainOnceForwardsWholeBacklog(t *testing.T) {
	owner := newStubOwner()
	sink := &captureSink{}

	now := time.Now()
	owner.storage.Append(domain.FromState(now, 1, true))
	owner.storage.Append(domain.FromState(now, 2, false))
	owner.storage.Append(domain.FromState(now, 1, true))

	drainOnce(owner, sink, nil)

	if len(sink.batches) != 1 || len(sink.batches[0]) != 3 {
		t.Fatalf("expected one batch of 3 records, got %+v", sink.batches)
	}
	if owner.storage.Len() != 0 {
		t.Fatalf("backlog must be empty after drain, got %d", owner.storage.Len())
	}

	drainOnce(owner, sink, nil)
	if len(sink.batches) != 1 {
		t.Fatalf("empty backlog must not reach the sink")
	}
}

func TestDrainOnceDropsBatchOnSinkError(t *testing.T) {
	owner := newStubOwner()
	sink := &captureSink{err: errors.New("sink down")}
	obs := &stubObs{}

	owner.storage.Append(domain.FromQuantity(time.Now(), 5, 1))
	drainOnce(owner, sink, obs)

	if obs.dropped != 1 {
		t.Fatalf("expected 1 dropped record, got %d", obs.dropped)
	}
	if owner.storage.Len() != 0 {
		t.Fatalf("failed batch must not be re-queued")
	}
	if len(obs.errors) == 0 {
		t.Fatalf("expected sink failure to be logged")
	}
}

func TestRunDrainPipelineFlushesOnStop(t *testing.T) {
	owner := newStubOwner()
	sink := &captureSink{}
	pol := ports.Policy{DrainInterval: time.Hour} // only the stop flush can fire

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		RunDrainPipeline(owner, sink, pol, nil, stop)
	}()

	owner.storage.Append(domain.FromState(time.Now(), 9, true))
	close(stop)

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("pipeline did not stop")
	}

	if got := sink.total(); got != 1 {
		t.Fatalf("expected final flush to deliver 1 record, got %d", got)
	}
}

func TestRunDrainPipelineDrainsOnTicks(t *testing.T) {
	owner := newStubOwner()
	sink := &captureSink{}
	pol := ports.Policy{DrainInterval: 5 * time.Millisecond}

	owner.storage.Append(domain.FromState(time.Now(), 1, true))

	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		RunDrainPipeline(owner, sink, pol, nil, stop)
	}()

	deadline := time.After(5 * time.Second)
	for sink.total() == 0 {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for a tick drain")
		case <-time.After(time.Millisecond):
		}
	}

	close(stop)
	<-done
}

type stubOwner struct {
	storage ports.FlagStorage
}

func newStubOwner() *stubOwner {
	return &stubOwner{storage: buffer.NewMemBuffer()}
}

func (s *stubOwner) FlagStorage() ports.FlagStorage { return s.storage }
func (s *stubOwner) EventFlagState(uint32) bool     { return false }

type captureSink struct {
	mu      sync.Mutex
	batches [][]domain.EventFlag
	err     error
}

func (c *captureSink) WriteBatch(records []domain.EventFlag) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.batches = append(c.batches, records)
	return nil
}

func (c *captureSink) Name() string { return "capture" }

func (c *captureSink) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int
	for _, b := range c.batches {
		n += len(b)
	}
	return n
}

type stubObs struct {
	mu      sync.Mutex
	errors  []error
	dropped int
}

func (s *stubObs) LogInfo(string, ...ports.Field) {}
func (s *stubObs) LogError(_ string, err error, _ ...ports.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = append(s.errors, err)
}
func (s *stubObs) LogCritical(string, error, ...ports.Field) {}
func (s *stubObs) IncCounter(string, float64)                {}
func (s *stubObs) ObserveLatency(string, float64)            {}
func (s *stubObs) SetGauge(string, float64)                  {}
func (s *stubObs) RecordDropped(records []domain.EventFlag, _ error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped += len(records)
}
