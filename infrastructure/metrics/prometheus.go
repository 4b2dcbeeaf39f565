package metrics

import (
	"time"

	"video-thumbnail/application/channel"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "thumbnail_requests_total",
		Help: "Total number of thumbnail method calls, by method and status",
	}, []string{"method", "status"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "thumbnail_request_duration_seconds",
		Help:    "Duration of thumbnail method calls",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method"})

	InflightRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "thumbnail_inflight_requests",
		Help: "Number of method calls currently running on the worker pool",
	})
)

// Observer records method-call outcomes in the package collectors
type Observer struct{}

// NewObserver creates an observer backed by the default registry
func NewObserver() *Observer {
	return &Observer{}
}

// Started marks a call as running
func (o *Observer) Started(method string) {
	InflightRequests.Inc()
}

// Observe records a finished call
func (o *Observer) Observe(method, status string, elapsed time.Duration) {
	InflightRequests.Dec()
	RequestsTotal.WithLabelValues(method, status).Inc()
	RequestDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

// Ensure Observer implements channel.StartObserver
var _ channel.StartObserver = (*Observer)(nil)
