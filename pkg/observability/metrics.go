package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // Prometheus metrics must be global for registration
var (
	// QueriesTotal tracks the total number of filter recomputes
	QueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codebook_queries_total",
			Help: "Total number of filter recomputes",
		},
		[]string{"status"}, // status: success, rejected
	)

	// QueryDuration measures the time of a single filtering pass
	QueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codebook_query_duration_seconds",
			Help:    "Duration of a single filtering pass in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		},
	)

	// QueryResults measures how many records survive a filtering pass
	QueryResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "codebook_query_results",
			Help:    "Number of records returned by a filtering pass",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8), // 1 to ~16k
		},
	)

	// LoadsTotal counts dataset load attempts
	LoadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codebook_loads_total",
			Help: "Total number of dataset load attempts",
		},
		[]string{"source", "status"}, // status: success, failed
	)

	// RecordsLoaded tracks the size of the loaded collection
	RecordsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codebook_records_loaded",
			Help: "Number of records in the loaded collection",
		},
	)

	// MalformedRecords tracks records without a usable cohort value
	MalformedRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "codebook_malformed_records",
			Help: "Number of loaded records without a usable cohort value",
		},
	)

	// SourceCacheHits tracks dataset cache hits
	SourceCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codebook_source_cache_hits_total",
			Help: "Total number of dataset cache hits",
		},
		[]string{"source"},
	)

	// SourceCacheMisses tracks dataset cache misses
	SourceCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codebook_source_cache_misses_total",
			Help: "Total number of dataset cache misses",
		},
		[]string{"source"},
	)

	// ErrorsTotal counts total number of errors
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "codebook_errors_total",
			Help: "Total number of errors",
		},
		[]string{"component", "error_type"},
	)
)

// RecordQuery records a filtering pass
func RecordQuery(status string, duration float64, results int) {
	QueriesTotal.WithLabelValues(status).Inc()

	if status != "success" {
		return
	}

	QueryDuration.Observe(duration)
	QueryResults.Observe(float64(results))
}

// RecordLoad records a dataset load attempt
func RecordLoad(source, status string) {
	LoadsTotal.WithLabelValues(source, status).Inc()
}

// SetDatasetSize records the size of the loaded collection
func SetDatasetSize(total, malformed int) {
	RecordsLoaded.Set(float64(total))
	MalformedRecords.Set(float64(malformed))
}

// RecordSourceCacheHit records a dataset cache hit
func RecordSourceCacheHit(source string) {
	SourceCacheHits.WithLabelValues(source).Inc()
}

// RecordSourceCacheMiss records a dataset cache miss
func RecordSourceCacheMiss(source string) {
	SourceCacheMisses.WithLabelValues(source).Inc()
}

// RecordError records an error
func RecordError(component, errorType string) {
	ErrorsTotal.WithLabelValues(component, errorType).Inc()
}
