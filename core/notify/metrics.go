package notify

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	notificationsEnqueued *prometheus.CounterVec
	enqueueFailures       prometheus.Counter
	translationCalls      prometheus.Counter
	translationFailures   prometheus.Counter
	dispatchLatency       prometheus.Histogram
)

// newCollectors creates new metric collectors.
func newCollectors() (*prometheus.CounterVec, prometheus.Counter, prometheus.Counter, prometheus.Counter, prometheus.Histogram) {
	enq := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_enqueued_total",
			Help: "Number of notifications submitted to the outgoing queue",
		},
		[]string{"language"},
	)
	enqFail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_enqueue_failures_total",
			Help: "Number of failed queue submissions",
		},
	)
	tr := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "translation_calls_total",
			Help: "Number of successful external translation calls",
		},
	)
	trFail := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "translation_failures_total",
			Help: "Number of translation calls that fell back to the source text",
		},
	)
	lat := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "notification_dispatch_latency_seconds",
			Help:    "Latency of per-recipient translation and queue submission",
			Buckets: prometheus.DefBuckets,
		},
	)
	return enq, enqFail, tr, trFail, lat
}

func init() {
	notificationsEnqueued, enqueueFailures, translationCalls, translationFailures, dispatchLatency = newCollectors()
	MustRegisterMetrics(nil)
}

// MustRegisterMetrics registers notify metrics on the provided registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func MustRegisterMetrics(reg prometheus.Registerer) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(notificationsEnqueued, enqueueFailures, translationCalls, translationFailures, dispatchLatency)
}

// ResetMetrics reinitializes metrics collectors for testing purposes and
// registers them on the provided registry if not nil.
func ResetMetrics(reg prometheus.Registerer) {
	notificationsEnqueued, enqueueFailures, translationCalls, translationFailures, dispatchLatency = newCollectors()
	if reg != nil {
		MustRegisterMetrics(reg)
	}
}
