package devserver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals // process-wide collectors
var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "portfolio_devserver_requests_total",
		Help: "Requests served by the fixture backend.",
	},
	[]string{"method", "route", "status"},
)
