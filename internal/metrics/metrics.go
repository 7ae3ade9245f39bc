// internal/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors for merge activity. A nil *Metrics records nothing.
type Metrics struct {
	// MergesTotal counts merged results built, by engine, strategy and decorator.
	MergesTotal *prometheus.CounterVec
	// MergeErrorsTotal counts merges that failed to build, by engine.
	MergeErrorsTotal *prometheus.CounterVec
	// GroupsPerMerge is the number of groups an in-memory merge produced.
	GroupsPerMerge prometheus.Histogram
}

// New registers the merge collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MergesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shardmerge_merges_total",
				Help: "Total number of merged results built",
			},
			[]string{"engine", "strategy", "decorator"},
		),
		MergeErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shardmerge_merge_errors_total",
				Help: "Total number of merges that failed to build",
			},
			[]string{"engine"},
		),
		GroupsPerMerge: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "shardmerge_memory_merge_groups",
				Help:    "Number of groups produced by in-memory group-by merges",
				Buckets: prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
	}
}

// ObserveMerge records one merged result.
func (m *Metrics) ObserveMerge(engine, strategy, decorator string) {
	if m == nil {
		return
	}
	m.MergesTotal.WithLabelValues(engine, strategy, decorator).Inc()
}

// ObserveError records one failed merge.
func (m *Metrics) ObserveError(engine string) {
	if m == nil {
		return
	}
	m.MergeErrorsTotal.WithLabelValues(engine).Inc()
}

// ObserveGroups records the group count of an in-memory merge.
func (m *Metrics) ObserveGroups(n int) {
	if m == nil {
		return
	}
	m.GroupsPerMerge.Observe(float64(n))
}
