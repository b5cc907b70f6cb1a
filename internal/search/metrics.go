package search

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics names as constants for consistency.
const (
	MetricSearchQueriesTotal    = "search_queries_total"
	MetricSearchExpansionTerms  = "search_expansion_terms"
	MetricSearchResultsReturned = "search_results_returned"
)

// Metrics contains Prometheus metrics for search operations.
// All operations are thread-safe.
type Metrics struct {
	queriesTotal    *prometheus.CounterVec
	expansionTerms  prometheus.Histogram
	resultsReturned *prometheus.HistogramVec
}

// NewMetrics creates and returns a new Metrics instance with all collectors
// initialized. The metrics are not registered; call Register to register
// them with a registry.
func NewMetrics() *Metrics {
	return &Metrics{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: MetricSearchQueriesTotal,
				Help: "Total number of search queries by mode (suggest, paged, flat)",
			},
			[]string{"mode"},
		),
		expansionTerms: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    MetricSearchExpansionTerms,
			Help:    "Number of terms produced by bilingual query expansion",
			Buckets: []float64{1, 2, 4, 8, 16, 32},
		}),
		resultsReturned: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    MetricSearchResultsReturned,
				Help:    "Number of results returned per search query by mode",
				Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 200},
			},
			[]string{"mode"},
		),
	}
}

// Register registers all metrics with the given registry.
// Returns an error if registration fails.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.queriesTotal,
		m.expansionTerms,
		m.resultsReturned,
	}

	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// IncQueries increments the query counter for the given mode.
func (m *Metrics) IncQueries(mode string) {
	m.queriesTotal.WithLabelValues(mode).Inc()
}

// ObserveExpansionTerms records the size of an expanded term set.
func (m *Metrics) ObserveExpansionTerms(n int) {
	m.expansionTerms.Observe(float64(n))
}

// ObserveResults records the number of results returned for a query.
func (m *Metrics) ObserveResults(mode string, n int) {
	m.resultsReturned.WithLabelValues(mode).Observe(float64(n))
}
