package scorer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scoreDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "answerly",
		Subsystem: "scorer",
		Name:      "score_duration_seconds",
		Help:      "Duration of similarity scoring requests",
	}, []string{"model"})

	scoreFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "answerly",
		Subsystem: "scorer",
		Name:      "score_failures_total",
		Help:      "Number of similarity scoring failures",
	}, []string{"model"})
)
