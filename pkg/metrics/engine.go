package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// EngineMetrics records allocation decisions and snapshot generation.
type EngineMetrics struct {
	allocations      *prometheus.CounterVec
	snapshotDuration *prometheus.HistogramVec
	sectionFailures  *prometheus.CounterVec
}

// NewEngineMetrics registers the engine metrics on the provided registerer.
func NewEngineMetrics(reg prometheus.Registerer) *EngineMetrics {
	if reg == nil {
		return &EngineMetrics{}
	}
	allocations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "allocation_decisions_total",
		Help: "Allocation decisions by outcome.",
	}, []string{"outcome"})
	snapshotDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "control_tower_snapshot_seconds",
		Help:    "Wall time to assemble a control-tower snapshot.",
		Buckets: prometheus.DefBuckets,
	}, []string{"source"})
	sectionFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "control_tower_section_failures_total",
		Help: "Snapshot sections that returned degraded results.",
	}, []string{"section"})
	reg.MustRegister(allocations, snapshotDuration, sectionFailures)
	return &EngineMetrics{
		allocations:      allocations,
		snapshotDuration: snapshotDuration,
		sectionFailures:  sectionFailures,
	}
}

// IncAllocation counts one allocation decision by outcome.
func (e *EngineMetrics) IncAllocation(outcome string) {
	if e == nil || e.allocations == nil {
		return
	}
	e.allocations.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveSnapshot records the duration of a snapshot build.
func (e *EngineMetrics) ObserveSnapshot(source string, duration time.Duration) {
	if e == nil || e.snapshotDuration == nil {
		return
	}
	e.snapshotDuration.WithLabelValues(normalizeLabel(source)).Observe(duration.Seconds())
}

// IncSectionFailure counts one degraded snapshot section.
func (e *EngineMetrics) IncSectionFailure(section string) {
	if e == nil || e.sectionFailures == nil {
		return
	}
	e.sectionFailures.WithLabelValues(normalizeLabel(section)).Inc()
}
