package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search and indexing Prometheus metrics.
var (
	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mediadex",
			Name:      "search_duration_seconds",
			Help:      "Search execution duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"index"},
	)

	DocumentsIndexed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mediadex",
			Name:      "documents_indexed_total",
			Help:      "Total search documents indexed",
		},
		[]string{"index"},
	)

	IndexSize = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mediadex",
			Name:      "index_size",
			Help:      "Current number of documents per index",
		},
		[]string{"index"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(DocumentsIndexed)
	prometheus.MustRegister(IndexSize)
	searchMetricsRegistered = true
}
