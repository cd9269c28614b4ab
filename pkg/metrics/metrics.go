// Package metrics wires the reflection core's allocation, pool, and
// transaction lifecycle counters onto prometheus, the way the teacher's
// metrics.go wires cluster gauges: package-level collectors registered
// once at init, a Timer helper for histogram observation.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pool metrics (pkg/pool).
	PoolChunksTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rtti_pool_chunks_total",
			Help: "Number of chunks currently held by a pool, by domain tag.",
		},
		[]string{"domain"},
	)

	PoolUsedBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rtti_pool_used_bytes",
			Help: "Bytes currently allocated out of a pool, by domain tag.",
		},
		[]string{"domain"},
	)

	PoolTotalBytes = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "rtti_pool_total_bytes",
			Help: "Bytes a pool currently holds (in-use chunks plus warm spares), by domain tag.",
		},
		[]string{"domain"},
	)

	PoolAllocationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtti_pool_allocations_total",
			Help: "Total blocks allocated from a pool, by domain tag.",
		},
		[]string{"domain"},
	)

	// Transaction metrics (pkg/transaction).
	TransactionStateTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtti_transaction_state_transitions_total",
			Help: "Total transaction state transitions, by resulting state.",
		},
		[]string{"state"},
	)

	TransactionLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rtti_transaction_load_duration_seconds",
			Help:    "Time to linearize and Load a transaction's object graph.",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Database metrics (pkg/database).
	DatabaseNamespacesMounted = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtti_database_namespaces_mounted",
			Help: "Number of namespaces currently mounted in the MetaDatabase.",
		},
	)

	DatabaseExportsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rtti_database_exports_total",
			Help: "Total exported objects currently published across all mounted namespaces.",
		},
	)

	DatabaseMountsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rtti_database_mounts_total",
			Help: "Total Mount/Unmount operations processed, by outcome.",
		},
		[]string{"op", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		PoolChunksTotal,
		PoolUsedBytes,
		PoolTotalBytes,
		PoolAllocationsTotal,
		TransactionStateTransitionsTotal,
		TransactionLoadDuration,
		DatabaseNamespacesMounted,
		DatabaseExportsTotal,
		DatabaseMountsTotal,
	)
}

// Handler returns the Prometheus scrape handler for /metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a small helper for timing an operation and observing it
// into a histogram once it completes.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the elapsed time into histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the elapsed time into a labeled histogram.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// ObservePoolStats pushes a pool.Stats snapshot into the pool gauges
// under the given domain label.
func ObservePoolStats(domainTag string, chunkCount, usedBytes, totalBytes int) {
	PoolChunksTotal.WithLabelValues(domainTag).Set(float64(chunkCount))
	PoolUsedBytes.WithLabelValues(domainTag).Set(float64(usedBytes))
	PoolTotalBytes.WithLabelValues(domainTag).Set(float64(totalBytes))
}

// ObserveDatabaseStats pushes namespace/export counts from a
// database.MetaDatabase snapshot.
func ObserveDatabaseStats(namespaces, exports int) {
	DatabaseNamespacesMounted.Set(float64(namespaces))
	DatabaseExportsTotal.Set(float64(exports))
}
