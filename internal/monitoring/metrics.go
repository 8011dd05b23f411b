package monitoring

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Fetch metrics
	chunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backfill_chunks_total",
			Help: "Total number of chunk requests issued",
		},
		[]string{"symbol", "result"},
	)

	barsFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backfill_bars_fetched_total",
			Help: "Total number of raw bars returned by the upstream provider",
		},
		[]string{"symbol"},
	)

	// Merge metrics
	duplicatesRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backfill_duplicate_bars_removed_total",
			Help: "Bars dropped because their timestamp was already seen",
		},
	)

	outOfRangeRemoved = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "backfill_out_of_range_bars_removed_total",
			Help: "Bars dropped because they fell outside every requested chunk window",
		},
	)

	// Pipeline metrics
	backfillFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "backfill_failures_total",
			Help: "Backfills aborted, by pipeline stage",
		},
		[]string{"stage"},
	)

	warmupRequiredBars = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "backfill_warmup_required_bars",
			Help: "Bars required before the strategy's slowest indicator is valid",
		},
		[]string{"symbol"},
	)
)

func init() {
	// Register metrics
	prometheus.MustRegister(chunksTotal)
	prometheus.MustRegister(barsFetched)
	prometheus.MustRegister(duplicatesRemoved)
	prometheus.MustRegister(outOfRangeRemoved)
	prometheus.MustRegister(backfillFailures)
	prometheus.MustRegister(warmupRequiredBars)
}

// MetricsHandler handles Prometheus metrics endpoint
type MetricsHandler struct{}

// NewMetricsHandler creates a new metrics handler
func NewMetricsHandler() *MetricsHandler {
	return &MetricsHandler{}
}

// ServeHTTP serves the Prometheus metrics endpoint
func (m *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// RecordChunk records the outcome of one chunk request.
func RecordChunk(symbol string, ok bool, bars int) {
	result := "ok"
	if !ok {
		result = "error"
	}
	chunksTotal.WithLabelValues(symbol, result).Inc()
	if bars > 0 {
		barsFetched.WithLabelValues(symbol).Add(float64(bars))
	}
}

// RecordMergeRemovals records merge filter diagnostics.
func RecordMergeRemovals(duplicates, outOfRange int) {
	if duplicates > 0 {
		duplicatesRemoved.Add(float64(duplicates))
	}
	if outOfRange > 0 {
		outOfRangeRemoved.Add(float64(outOfRange))
	}
}

// RecordBackfillFailure records an aborted backfill by stage.
func RecordBackfillFailure(stage string) {
	backfillFailures.WithLabelValues(stage).Inc()
}

// UpdateRequiredBars publishes the computed warmup requirement.
func UpdateRequiredBars(symbol string, bars int) {
	warmupRequiredBars.WithLabelValues(symbol).Set(float64(bars))
}
