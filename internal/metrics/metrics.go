// Package metrics provides Prometheus instrumentation for the broker service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersTotal counts submitted orders, partitioned by kind and
	// fill outcome (filled, partial, zero).
	OrdersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minibroker_orders_total",
		Help: "Total number of orders submitted",
	}, []string{"kind", "outcome"})

	// SharesFilledTotal tracks cumulative executed share quantity by kind.
	SharesFilledTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minibroker_shares_filled_total",
		Help: "Total number of shares transacted",
	}, []string{"kind"})

	// AccountsOpened counts accounts opened since startup.
	AccountsOpened = promauto.NewCounter(prometheus.CounterOpts{
		Name: "minibroker_accounts_opened_total",
		Help: "Total number of accounts opened",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "minibroker_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "minibroker_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// FillOutcome classifies an executed quantity against the requested
// quantity for the orders_total outcome label.
func FillOutcome(requested, filled int64) string {
	switch {
	case filled == 0:
		return "zero"
	case filled < requested:
		return "partial"
	default:
		return "filled"
	}
}
