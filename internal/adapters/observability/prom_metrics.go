package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/jambinjambo/GreatRuneTracker/internal/domain"
	"github.com/jambinjambo/GreatRuneTracker/internal/ports"
)

type PromObs struct {
	log      *logrus.Logger
	counters map[string]prometheus.Counter
	gauges   map[string]prometheus.Gauge
	histos   map[string]prometheus.Observer
}

// NewPromObs registers the tracker metrics on reg; a nil reg uses the
// process-wide default registry. Passing a dedicated registry lets multiple
// runtimes coexist in one process without duplicate-registration panics.
func NewPromObs(reg prometheus.Registerer) *PromObs {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	recorded := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "runetracker_events_recorded_total",
		Help: "Flag transition records appended to the buffer.",
	})
	drained := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "runetracker_events_drained_total",
		Help: "Records successfully handed to a sink.",
	})
	dropped := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "runetracker_events_dropped_total",
		Help: "Records lost because a sink write failed.",
	})
	pollErrors := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "runetracker_poll_errors_total",
		Help: "Flag reads that returned an error.",
	})
	bufferGauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "runetracker_buffer_length",
		Help: "Current number of records waiting in the buffer.",
	})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "drain_sink_latency_seconds",
		Help:    "Latency of writing one drained batch to the sink.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})

	reg.MustRegister(recorded, drained, dropped, pollErrors, bufferGauge, latency)

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	return &PromObs{
		log: log,
		counters: map[string]prometheus.Counter{
			"runetracker_events_recorded_total": recorded,
			"runetracker_events_drained_total":  drained,
			"runetracker_events_dropped_total":  dropped,
			"runetracker_poll_errors_total":     pollErrors,
		},
		gauges: map[string]prometheus.Gauge{
			"runetracker_buffer_length": bufferGauge,
		},
		histos: map[string]prometheus.Observer{
			"drain_sink_latency_seconds": latency,
		},
	}
}

func (p *PromObs) LogInfo(msg string, fields ...ports.Field) {
	p.log.WithFields(toLogrusFields(fields)).Info(msg)
}

func (p *PromObs) LogError(msg string, err error, fields ...ports.Field) {
	if err == nil {
		return
	}
	p.log.WithFields(toLogrusFields(fields)).WithError(err).Error(msg)
}

func (p *PromObs) LogCritical(msg string, err error, fields ...ports.Field) {
	if err == nil {
		return
	}
	p.log.WithFields(toLogrusFields(fields)).WithError(err).Error(msg)
}

func (p *PromObs) IncCounter(name string, v float64) {
	if c, ok := p.counters[name]; ok {
		c.Add(v)
	}
}

func (p *PromObs) ObserveLatency(name string, seconds float64) {
	if h, ok := p.histos[name]; ok {
		h.Observe(seconds)
	}
}

func (p *PromObs) SetGauge(name string, v float64) {
	if g, ok := p.gauges[name]; ok {
		g.Set(v)
	}
}

func (p *PromObs) RecordDropped(records []domain.EventFlag, err error) {
	p.IncCounter("runetracker_events_dropped_total", float64(len(records)))
	if err != nil {
		p.log.WithField("records", len(records)).WithError(err).Error("batch dropped")
	}
}

func toLogrusFields(fields []ports.Field) logrus.Fields {
	out := make(logrus.Fields, len(fields))
	for _, f := range fields {
		out[f.Key] = f.Value
	}
	return out
}

var _ ports.Observability = (*PromObs)(nil)
