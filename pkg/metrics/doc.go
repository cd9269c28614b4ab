/*
Package metrics provides Prometheus metrics collection and exposition
for the reflection core.

The metrics package defines and registers gauges/counters/histograms
for the three stateful subsystems that benefit from live observability:
the pool engine (chunk/byte/allocation counts per domain), the
transaction lifecycle (state-transition counts, Load duration), and the
MetaDatabase (mounted-namespace and export counts). Metrics are exposed
over HTTP for scraping by a Prometheus server, using the same
client_golang + promhttp pattern as every other component in this
pack that exposes metrics.

# Metric categories

  - Pool: rtti_pool_chunks_total, rtti_pool_used_bytes,
    rtti_pool_total_bytes, rtti_pool_allocations_total — all labeled by
    domain tag (pkg/domain.Tag). ObservePoolStats sets the first three
    from a pool.Stats snapshot; nothing in this module calls it.
  - Transaction: rtti_transaction_state_transitions_total (labeled by
    resulting state), rtti_transaction_load_duration_seconds.
  - Database: rtti_database_namespaces_mounted,
    rtti_database_exports_total, rtti_database_mounts_total (labeled by
    op/outcome). ObserveDatabaseStats sets the first two gauges only;
    MetaDatabase does not call it.

# Usage

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	timer := metrics.NewTimer()
	if err := txn.Load(ctx); err == nil {
		timer.ObserveDuration(metrics.TransactionLoadDuration)
	}

	stats := pool.Stats()
	metrics.ObservePoolStats(string(domain.RTTI), stats.ChunkCount, stats.UsedSize, stats.TotalSize)

# Health

See health.go for the separate liveness/readiness surface
(/healthz, /readyz) cmd/rttiserved exposes independently of the
Prometheus scrape endpoint.
*/
package metrics
