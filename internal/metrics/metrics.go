// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Operations counts service operations by name and outcome.  Outcome is
	// "ok" or the kind of the business error, "error" for store failures.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reservations_operations_total",
		Help: "Reservation and table operations by outcome",
	}, []string{"operation", "outcome"})

	// RequestDuration tracks HTTP handler latency by matched route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	// FloorClients is the number of websocket clients on the floor feed.
	FloorClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "floor_ws_clients",
		Help: "Connected floor feed websocket clients",
	})
)

// ObserveOperation increments the operation counter.
func ObserveOperation(operation, outcome string) {
	Operations.WithLabelValues(operation, outcome).Inc()
}
