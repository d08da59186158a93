package platform

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Collectors are constructed at package load so they are usable from any
// init order; InitMetrics only registers them with the default registry.
var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "classbridge",
		Name:      "requests_total",
		Help:      "Total reply-socket requests processed, labeled by command and status.",
	}, []string{"command", "status"})

	RequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "classbridge",
		Name:      "request_duration_seconds",
		Help:      "Histogram of request processing durations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"command"})

	PublishedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classbridge",
		Name:      "published_events_total",
		Help:      "Total event frames sent on the publish socket.",
	})

	PublishErrorsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "classbridge",
		Name:      "publish_errors_total",
		Help:      "Total publish sends that failed.",
	})

	PublishQueueDepth = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "classbridge",
		Name:      "publish_queue_depth",
		Help:      "Pending event frames awaiting the publish worker.",
	})
)

var metricsOnce sync.Once

// InitMetrics registers core metrics collectors.
func InitMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal, RequestDuration, PublishedTotal, PublishErrorsTotal, PublishQueueDepth)
	})
}
