package query

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for the queries counter.
const (
	OutcomeMatch = "match"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// Metrics holds the Prometheus collectors for query traffic.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry     *prometheus.Registry
	Queries      *prometheus.CounterVec
	Templates    prometheus.Histogram
	Matches      prometheus.Histogram
	Latency      prometheus.Histogram
	IndexedWords prometheus.Gauge
}

// NewMetrics creates the collectors on a private registry, so several
// engines in one process do not collide.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Queries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "wordmatch_queries_total",
				Help: "Total pattern queries by outcome (match, empty, error).",
			},
			[]string{"outcome"},
		),
		Templates: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordmatch_query_templates",
				Help:    "Number of templates a pattern compiled to.",
				Buckets: []float64{1, 2, 4, 8, 16, 64, 256, 1024, 4096},
			},
		),
		Matches: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordmatch_query_matches",
				Help:    "Number of ids returned per query.",
				Buckets: []float64{0, 1, 5, 10, 50, 100, 1000, 10000},
			},
		),
		Latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "wordmatch_query_latency_seconds",
				Help:    "Pattern query latency in seconds.",
				Buckets: []float64{0.00001, 0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
		IndexedWords: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "wordmatch_indexed_words",
				Help: "Number of words in the loaded index.",
			},
		),
	}

	m.registry.MustRegister(
		m.Queries,
		m.Templates,
		m.Matches,
		m.Latency,
		m.IndexedWords,
	)
	return m
}

// Registry exposes the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(templates, matches int, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := OutcomeMatch
	if matches == 0 {
		outcome = OutcomeEmpty
	}
	m.Queries.WithLabelValues(outcome).Inc()
	m.Templates.Observe(float64(templates))
	m.Matches.Observe(float64(matches))
	m.Latency.Observe(elapsed.Seconds())
}

func (m *Metrics) observeError() {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(OutcomeError).Inc()
}

func (m *Metrics) setIndexed(words int) {
	if m == nil {
		return
	}
	m.IndexedWords.Set(float64(words))
}
