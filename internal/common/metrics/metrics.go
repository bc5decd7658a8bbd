// internal/common/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

var (
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novascore_api_requests_total",
			Help: "Total number of NovaScore API calls by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	APIRequestErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novascore_api_request_errors_total",
			Help: "Total number of failed NovaScore API calls by error code",
		},
		[]string{"operation", "error_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "novascore_api_request_duration_seconds",
			Help:    "Duration of NovaScore API calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DashboardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "novascore_dashboard_refreshes_total",
			Help: "Total number of dashboard refreshes by outcome",
		},
		[]string{"outcome"},
	)

	DashboardStaleResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "novascore_dashboard_stale_responses_total",
			Help: "Refresh responses discarded because a newer refresh was issued or the view closed",
		},
	)

	RequestsInFlight = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "novascore_api_requests_in_flight",
			Help: "Number of NovaScore API calls currently in flight",
		},
		[]string{"operation"},
	)
)

// ObserveAPICall records one finished API call.
func ObserveAPICall(operation string, started time.Time, errorCode string) {
	APIRequestDuration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
	if errorCode == "" {
		APIRequests.WithLabelValues(operation, OutcomeSuccess).Inc()
		return
	}
	APIRequests.WithLabelValues(operation, OutcomeFailure).Inc()
	APIRequestErrors.WithLabelValues(operation, errorCode).Inc()
}
