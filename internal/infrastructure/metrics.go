package infrastructure

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments shared across the HTTP
// layer and the pipeline services.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	PredictionsTotal   prometheus.Counter
	PredictionDuration prometheus.Histogram
	AttributionErrors  prometheus.Counter
}

// NewMetrics creates and registers all instruments on a private
// registry, keeping tests free of global-registry collisions.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,
		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compass_http_requests_total",
			Help: "HTTP requests served, by route and status class.",
		}, []string{"route", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compass_http_request_duration_seconds",
			Help:    "HTTP request latency, by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "compass_predictions_total",
			Help: "Recession predictions computed.",
		}),
		PredictionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "compass_prediction_duration_seconds",
			Help:    "End-to-end prediction pipeline latency.",
			Buckets: prometheus.DefBuckets,
		}),
		AttributionErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "compass_attribution_errors_total",
			Help: "Predictions served without an explanation because the attribution engine failed.",
		}),
	}
}
