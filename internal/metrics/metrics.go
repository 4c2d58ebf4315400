package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Lookup outcomes.
const (
	OutcomeCache    = "cache"
	OutcomeSource   = "source"
	OutcomeFallback = "fallback"
)

// Source attempt results.
const (
	ResultHit       = "hit"
	ResultNoMatch   = "no_match"
	ResultTransport = "transport"
)

// Metrics holds the lookup collectors.
type Metrics struct {
	lookups        *prometheus.CounterVec
	sourceAttempts *prometheus.CounterVec
	lookupDuration prometheus.Histogram
	backfilled     *prometheus.CounterVec
}

// New registers the collectors with reg; a nil reg gets a private registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		lookups: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winewindow",
			Name:      "lookups_total",
			Help:      "Drinking window lookups by where the answer came from",
		}, []string{"outcome"}),
		sourceAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winewindow",
			Name:      "source_attempts_total",
			Help:      "External source attempts by source and result",
		}, []string{"source", "result"}),
		lookupDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "winewindow",
			Name:      "lookup_duration_seconds",
			Help:      "Wall time of uncached lookups",
			Buckets:   []float64{.01, .1, .5, 1, 2.5, 5, 10, 30, 60, 120},
		}),
		backfilled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "winewindow",
			Subsystem: "backfill",
			Name:      "wines_total",
			Help:      "Cellar records processed by backfill runs",
		}, []string{"status"}),
	}
}

// Lookup counts a finished lookup.
func (m *Metrics) Lookup(outcome string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(outcome).Inc()
}

// SourceAttempt counts one adapter call.
func (m *Metrics) SourceAttempt(source, result string) {
	if m == nil {
		return
	}
	m.sourceAttempts.WithLabelValues(source, result).Inc()
}

// ObserveLookup records the duration of an uncached lookup.
func (m *Metrics) ObserveLookup(d time.Duration) {
	if m == nil {
		return
	}
	m.lookupDuration.Observe(d.Seconds())
}

// Backfilled counts a cellar record by status ("updated" or "failed").
func (m *Metrics) Backfilled(status string) {
	if m == nil {
		return
	}
	m.backfilled.WithLabelValues(status).Inc()
}
