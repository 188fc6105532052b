package runetracker

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/buffer"
	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/journal"
	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/observability"
	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/sink"
	"github.com/jambinjambo/GreatRuneTracker/internal/adapters/watcher"
	"github.com/jambinjambo/GreatRuneTracker/internal/app/pipeline"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

// TrackerOption customizes the dependencies used by TrackerRuntime.
type TrackerOption func(*runtimeOverrides)

type runtimeOverrides struct {
	reader        FlagReader
	watcher       Watcher
	storage       FlagStorage
	sink          Sink
	observability Observability
}

// WithReader injects the live flag source (game-process memory, IPC, a
// simulation table).
func WithReader(r FlagReader) TrackerOption {
	return func(o *runtimeOverrides) {
		o.reader = r
	}
}

// WithWatcher replaces the whole producer, for callers that do their own
// change detection.
func WithWatcher(w Watcher) TrackerOption {
	return func(o *runtimeOverrides) {
		o.watcher = w
	}
}

// WithStorage swaps the in-memory buffer for a caller-provided implementation.
func WithStorage(s FlagStorage) TrackerOption {
	return func(o *runtimeOverrides) {
		o.storage = s
	}
}

// WithSink injects a custom sink so drained batches can go to any surface.
func WithSink(s Sink) TrackerOption {
	return func(o *runtimeOverrides) {
		o.sink = s
	}
}

// WithObservability plugs in a custom observability backend.
func WithObservability(obs Observability) TrackerOption {
	return func(o *runtimeOverrides) {
		o.observability = obs
	}
}

// TrackerRuntime wires the watcher → buffer → drain → sink pipeline and
// exposes simple lifecycle hooks for embedding the tracker in any Go service.
type TrackerRuntime struct {
	cfg     *Config
	policy  ports.Policy
	obs     ports.Observability
	watcher ports.Watcher
	sink    ports.Sink

	db          *sql.DB
	jrnl        *journal.Journal
	metricsSrv  *http.Server
	gaugeStopCh chan struct{}
	drainStopCh chan struct{}
	drainDoneCh chan struct{}
}

// NewTrackerRuntime bootstraps the default adapters (polling watcher,
// in-memory buffer, configured sink, Prometheus observability). A flag reader
// must be supplied via WithReader unless WithWatcher replaces the producer
// outright; reading game memory is not this repo's business.
func NewTrackerRuntime(cfg *Config, opts ...TrackerOption) (*TrackerRuntime, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	var overrides runtimeOverrides
	for _, opt := range opts {
		if opt != nil {
			opt(&overrides)
		}
	}

	obs := overrides.observability
	if obs == nil {
		obs = observability.NewPromObs(nil)
	}

	w := overrides.watcher
	if w == nil {
		if overrides.reader == nil {
			return nil, fmt.Errorf("flag reader is required: use WithReader or WithWatcher")
		}
		storage := overrides.storage
		if storage == nil {
			storage = buffer.NewMemBuffer()
		}
		watchCfg := cfg.Watch
		watchCfg.PollInterval = cfg.Policy.PollInterval
		watchCfg.IdleSleep = cfg.Policy.IdleSleep
		var err error
		w, err = watcher.New(watchCfg, overrides.reader, storage, obs)
		if err != nil {
			return nil, err
		}
	}

	rt := &TrackerRuntime{
		cfg:     cfg,
		policy:  cfg.Policy,
		obs:     obs,
		watcher: w,
	}

	snk := overrides.sink
	if snk == nil {
		var err error
		snk, err = rt.buildConfiguredSink()
		if err != nil {
			return nil, err
		}
	}
	rt.sink = snk

	return rt, nil
}

func (t *TrackerRuntime) buildConfiguredSink() (ports.Sink, error) {
	switch t.cfg.Sink {
	case "postgres":
		db, err := sql.Open("postgres", t.cfg.Postgres.ConnString)
		if err != nil {
			return nil, err
		}
		t.db = db
		return sink.NewPostgresSink(db, t.cfg.Postgres.Table), nil
	case "journal":
		j, err := journal.Open(t.cfg.Journal.Dir)
		if err != nil {
			return nil, err
		}
		t.jrnl = j
		return j, nil
	default:
		return sink.NewTextSink(os.Stdout), nil
	}
}

// Start begins the watch and drain pipelines and launches the metrics server.
// It returns immediately; call Run to block on a context instead.
func (t *TrackerRuntime) Start() error {
	if t == nil {
		return fmt.Errorf("tracker runtime is nil")
	}
	if err := pipeline.RunWatchPipeline(t.watcher, t.obs); err != nil {
		return err
	}

	t.drainStopCh = make(chan struct{})
	t.drainDoneCh = make(chan struct{})
	go func() {
		pipeline.RunDrainPipeline(t.watcher, t.sink, t.policy, t.obs, t.drainStopCh)
		close(t.drainDoneCh)
	}()

	t.startMetrics()
	return nil
}

// Run starts the runtime and blocks until the provided context is cancelled.
// Upon cancellation it attempts a graceful shutdown.
func (t *TrackerRuntime) Run(ctx context.Context) error {
	if err := t.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return t.Shutdown(shutdownCtx)
}

// Shutdown stops the producer, flushes one final drain, and tears down the
// metrics server and sink resources.
func (t *TrackerRuntime) Shutdown(ctx context.Context) error {
	var errs []error

	// Producer first, so the final drain sees a quiescent buffer.
	if t.watcher != nil {
		if err := t.watcher.Stop(); err != nil {
			errs = append(errs, err)
		}
	}

	if t.drainStopCh != nil {
		close(t.drainStopCh)
		select {
		case <-t.drainDoneCh:
		case <-ctx.Done():
			errs = append(errs, ctx.Err())
		}
	}

	if t.gaugeStopCh != nil {
		close(t.gaugeStopCh)
	}

	if t.metricsSrv != nil {
		if err := t.metricsSrv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}

	if t.db != nil {
		if err := t.db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if t.jrnl != nil {
		if err := t.jrnl.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// EventFlagState reports the live truth of a flag, independent of the buffer.
func (t *TrackerRuntime) EventFlagState(flag uint32) bool {
	return t.watcher.EventFlagState(flag)
}

type watchListSetter interface {
	SetWatchList([]watcher.WatchConfig)
}

// ApplyConfig applies a reloaded config to the running session. Only the
// watch list is live-reloadable; cadence and sink changes need a restart.
func (t *TrackerRuntime) ApplyConfig(cfg *Config) error {
	ws, ok := t.watcher.(watchListSetter)
	if !ok {
		return fmt.Errorf("watcher does not support live watch-list updates")
	}
	ws.SetWatchList(cfg.Watch.Flags)
	return nil
}

func (t *TrackerRuntime) startMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	t.metricsSrv = &http.Server{
		Addr:    t.cfg.Metrics.Addr,
		Handler: mux,
	}

	go func() {
		if err := t.metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.obs.LogError("metrics_server_exited", err)
		}
	}()

	t.gaugeStopCh = make(chan struct{})
	go t.recordBufferGauge(t.gaugeStopCh, time.Second)
}

func (t *TrackerRuntime) recordBufferGauge(stop <-chan struct{}, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			t.obs.SetGauge("runetracker_buffer_length", float64(t.watcher.FlagStorage().Len()))
		}
	}
}
