package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecomlens_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecomlens_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	generationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ecomlens_generations_total",
		Help: "Generation calls by style category and result",
	}, []string{"category", "result"})

	generationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ecomlens_generation_duration_seconds",
		Help:    "Duration of upstream generation calls",
		Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
	}, []string{"category"})

	quotaRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ecomlens_quota_rejections_total",
		Help: "Generation requests refused because the daily limit was reached",
	})

	activeWorkspaces = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "ecomlens_active_workspaces",
		Help: "Number of in-memory studio workspaces",
	})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveGeneration records one upstream call for category.
func ObserveGeneration(category string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	generationsTotal.WithLabelValues(category, result).Inc()
	generationDuration.WithLabelValues(category).Observe(duration.Seconds())
}

func ObserveQuotaRejection() {
	quotaRejections.Inc()
}

func SetActiveWorkspaces(count int) {
	if count < 0 {
		count = 0
	}
	activeWorkspaces.Set(float64(count))
}
