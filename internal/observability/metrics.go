package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce            sync.Once
	apiRequestsTotal        *prometheus.CounterVec
	apiLatencySeconds       *prometheus.HistogramVec
	apiErrorsTotal          *prometheus.CounterVec
	evaluationRequestsTotal *prometheus.CounterVec
	extractionRequestsTotal *prometheus.CounterVec
	extractionFailuresTotal *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		apiRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "answerly_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		apiLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "answerly_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "route"})

		apiErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "answerly_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		evaluationRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "answerly_evaluations_total",
			Help: "Evaluation pipeline runs by model and outcome.",
		}, []string{"model", "outcome"})

		extractionRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "answerly_extractions_total",
			Help: "Successful text extractions by document kind.",
		}, []string{"kind"})

		extractionFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "answerly_extraction_failures_total",
			Help: "Failed text extractions by document kind.",
		}, []string{"kind"})

		prometheus.MustRegister(
			apiRequestsTotal,
			apiLatencySeconds,
			apiErrorsTotal,
			evaluationRequestsTotal,
			extractionRequestsTotal,
			extractionFailuresTotal,
		)
	})
}

// APIRequests exposes the counter for served requests.
func APIRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return apiRequestsTotal
}

// APILatency exposes the latency histogram for requests.
func APILatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return apiLatencySeconds
}

// APIErrors exposes the counter for error responses.
func APIErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return apiErrorsTotal
}

// EvaluationRequests exposes the counter for evaluation pipeline runs.
func EvaluationRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return evaluationRequestsTotal
}

// ExtractionRequests exposes the counter for successful extractions.
func ExtractionRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return extractionRequestsTotal
}

// ExtractionFailures exposes the counter for failed extractions.
func ExtractionFailures() *prometheus.CounterVec {
	RegisterMetrics()
	return extractionFailuresTotal
}
