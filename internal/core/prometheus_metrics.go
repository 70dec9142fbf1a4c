package core

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMetricsRecorder exports service operation metrics through a
// prometheus registry. It fulfills MetricsRecorder for deployments
// scraped by Prometheus.
type PrometheusMetricsRecorder struct {
	durations *prometheus.HistogramVec
	results   *prometheus.CounterVec
}

// NewPrometheusMetricsRecorder registers duration and result collectors
// on the supplied registerer. A nil registerer falls back to the
// default registry.
func NewPrometheusMetricsRecorder(reg prometheus.Registerer) (*PrometheusMetricsRecorder, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "holofit",
		Subsystem: "service",
		Name:      "operation_duration_seconds",
		Help:      "Duration of fit service operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation"})
	resultsVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "holofit",
		Subsystem: "service",
		Name:      "operation_results_total",
		Help:      "Outcomes of fit service operations.",
	}, []string{"operation", "status"})
	if err := reg.Register(durations); err != nil {
		return nil, err
	}
	if err := reg.Register(resultsVec); err != nil {
		return nil, err
	}
	return &PrometheusMetricsRecorder{durations: durations, results: resultsVec}, nil
}

// Observe records a service operation outcome.
func (r *PrometheusMetricsRecorder) Observe(_ context.Context, operation string, success bool, duration time.Duration) {
	if operation == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.durations.WithLabelValues(operation).Observe(duration.Seconds())
	r.results.WithLabelValues(operation, status).Inc()
}
