package score

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics names as constants for consistency.
const (
	MetricScoreCompiledTotal       = "score_breakdowns_compiled_total"
	MetricScoreCacheHits           = "score_breakdown_cache_hits_total"
	MetricScoreCacheMisses         = "score_breakdown_cache_misses_total"
	MetricScoreReconcileMismatches = "score_reconcile_mismatches_total"
)

// Metrics contains Prometheus metrics for breakdown compilation.
// All operations are thread-safe.
type Metrics struct {
	compiledTotal       prometheus.Counter
	cacheHits           prometheus.Counter
	cacheMisses         prometheus.Counter
	reconcileMismatches prometheus.Counter
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		compiledTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricScoreCompiledTotal,
			Help: "Total number of score breakdowns compiled from company records",
		}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricScoreCacheHits,
			Help: "Total number of breakdown cache hits",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricScoreCacheMisses,
			Help: "Total number of breakdown cache misses",
		}),
		reconcileMismatches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: MetricScoreReconcileMismatches,
			Help: "Total number of breakdowns whose recomputed score drifted from the stored value",
		}),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.compiledTotal,
		m.cacheHits,
		m.cacheMisses,
		m.reconcileMismatches,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncCompiled increments the compiled breakdown counter.
func (m *Metrics) IncCompiled() {
	m.compiledTotal.Inc()
}

// IncCacheHits increments the cache hit counter.
func (m *Metrics) IncCacheHits() {
	m.cacheHits.Inc()
}

// IncCacheMisses increments the cache miss counter.
func (m *Metrics) IncCacheMisses() {
	m.cacheMisses.Inc()
}

// IncReconcileMismatches increments the reconciliation mismatch counter.
func (m *Metrics) IncReconcileMismatches() {
	m.reconcileMismatches.Inc()
}
