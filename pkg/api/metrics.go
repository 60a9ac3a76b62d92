package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const outcomeNetworkError = "network_error"

//nolint:gochecknoglobals // process-wide collectors
var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_api_requests_total",
			Help: "Backend API requests by method, path and outcome",
		},
		[]string{"method", "path", "outcome"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_api_request_duration_seconds",
			Help:    "Backend API request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func observeRequest(method, path, outcome string, elapsed time.Duration) {
	requestsTotal.WithLabelValues(method, path, outcome).Inc()
	requestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// outcomeForStatus buckets a status code into its class, e.g. 404 -> "4xx".
func outcomeForStatus(status int) (outcome string) {
	outcome = strconv.Itoa(status/100) + "xx"
	return outcome
}
