// internal/metrics/metrics_test.go
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveMerge("dql", "order_by_stream", "limit")
	m.ObserveMerge("dql", "order_by_stream", "limit")
	m.ObserveError("dal")
	m.ObserveGroups(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MergesTotal.WithLabelValues("dql", "order_by_stream", "limit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MergeErrorsTotal.WithLabelValues("dal")))
	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.ObserveMerge("dql", "iterator", "none")
	m.ObserveError("dql")
	m.ObserveGroups(1)
}
