// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Valuation metrics
	ValuationsComputed prometheus.Counter
	ValuationErrors    *prometheus.CounterVec
	ValuationDuration  prometheus.Histogram
	SweepRunsTotal     prometheus.Counter

	// Server metrics
	WSClientsConnected prometheus.Gauge
	WSMessagesHandled  prometheus.Counter
	WSMessageErrors    prometheus.Counter

	// Database metrics
	RunsPersisted     prometheus.Counter
	PersistenceErrors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered with the default
// Prometheus registerer.
func NewMetrics(namespace string) *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer, namespace)
}

// NewMetricsWith creates a new Metrics instance registered with reg. Tests
// pass a fresh registry so instances do not collide.
func NewMetricsWith(reg prometheus.Registerer, namespace string) *Metrics {
	if namespace == "" {
		namespace = "token_dcf_lab"
	}
	factory := promauto.With(reg)

	return &Metrics{
		ValuationsComputed: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "valuations_computed_total",
			Help:      "Total number of valuation runs computed",
		}),
		ValuationErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "valuation_errors_total",
			Help:      "Total valuation failures by kind",
		}, []string{"kind"}),
		ValuationDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "valuation_duration_seconds",
			Help:      "Duration of valuation runs",
			Buckets:   prometheus.DefBuckets,
		}),
		SweepRunsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sweep_runs_total",
			Help:      "Total number of sweep grid points evaluated",
		}),

		WSClientsConnected: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "ws_clients_connected",
			Help:      "Currently connected WebSocket clients",
		}),
		WSMessagesHandled: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_messages_handled_total",
			Help:      "Total WebSocket parameter messages handled",
		}),
		WSMessageErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ws_message_errors_total",
			Help:      "Total WebSocket messages that failed to decode or evaluate",
		}),

		RunsPersisted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_persisted_total",
			Help:      "Total valuation runs written to storage",
		}),
		PersistenceErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persistence_errors_total",
			Help:      "Total storage write failures by store",
		}, []string{"store"}),
	}
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}
