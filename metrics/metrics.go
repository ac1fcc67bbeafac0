// Package metrics provides Prometheus metrics for the HTTP server and the interaction checker.
//
// HTTP:
//   - http_request_total: counter with method, path and status labels
//   - http_request_duration_seconds: histogram with method and path labels
//   - http_request_in_flight: gauge for concurrent requests
//   - rate_limiter_buckets_total: gauge of tracked client buckets
//
// Domain:
//   - interaction_checks_total: counter by overall_risk
//   - interaction_check_errors_total: counter by kind
//   - interaction_pairs_evaluated: histogram of pairs per check
//   - dataset_drugs_loaded: gauge by dataset
//   - dataset_drift_detected: 1 while the data files differ from the loaded dataset
//
// All metrics are registered with the default registry at package initialization.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/giygas/medisync-api/entities"
)

var (
	HTTPRequestTotals = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_request_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)

	HTTPRequestInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_request_in_flight",
			Help: "Current in-flight requests",
		},
	)

	RateLimiterBucketsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "rate_limiter_buckets_total",
			Help: "Total number of rate limiter buckets (IPs seen since the last cleanup)",
		},
	)

	InteractionChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_checks_total",
			Help: "Completed interaction checks by overall risk",
		},
		[]string{"overall_risk"},
	)

	InteractionCheckErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "interaction_check_errors_total",
			Help: "Rejected interaction checks by error kind",
		},
		[]string{"kind"},
	)

	InteractionPairsEvaluated = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "interaction_pairs_evaluated",
			Help:    "Drug pairs evaluated per interaction check",
			Buckets: []float64{1, 3, 6, 10, 15, 21, 28, 36, 45},
		},
	)

	DatasetDrugsLoaded = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "dataset_drugs_loaded",
			Help: "Drugs loaded per dataset",
		},
		[]string{"dataset"},
	)

	DatasetDriftDetected = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dataset_drift_detected",
			Help: "1 when the data files on disk differ from the loaded dataset",
		},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestTotals)
	prometheus.MustRegister(HTTPRequestDuration)
	prometheus.MustRegister(HTTPRequestInFlight)
	prometheus.MustRegister(RateLimiterBucketsTotal)
	prometheus.MustRegister(InteractionChecksTotal)
	prometheus.MustRegister(InteractionCheckErrorsTotal)
	prometheus.MustRegister(InteractionPairsEvaluated)
	prometheus.MustRegister(DatasetDrugsLoaded)
	prometheus.MustRegister(DatasetDriftDetected)
}

// RecordCheck counts a completed check.
func RecordCheck(report *entities.Report) {
	if report == nil {
		return
	}
	InteractionChecksTotal.WithLabelValues(string(report.OverallRisk)).Inc()
	InteractionPairsEvaluated.Observe(float64(report.TotalPairs))
}

// RecordCheckError counts a rejected check.
func RecordCheckError(kind string) {
	InteractionCheckErrorsTotal.WithLabelValues(kind).Inc()
}

// SetDatasetSizes publishes the loaded dataset sizes.
func SetDatasetSizes(interactionDrugs, dosageLimits, contraindications int) {
	DatasetDrugsLoaded.WithLabelValues("interactions").Set(float64(interactionDrugs))
	DatasetDrugsLoaded.WithLabelValues("dosage_limits").Set(float64(dosageLimits))
	DatasetDrugsLoaded.WithLabelValues("contraindications").Set(float64(contraindications))
}

// SetDrift publishes the drift monitor result.
func SetDrift(drift bool) {
	if drift {
		DatasetDriftDetected.Set(1)
		return
	}
	DatasetDriftDetected.Set(0)
}
