// Package metrics provides the built-in metrics sink implementations.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/openrelief/missionmatch/core/metrics"
)

// PromSink records notification and assignment events in Prometheus metrics.
type PromSink struct {
	notifications *prometheus.CounterVec
	latency       *prometheus.HistogramVec
	assignments   *prometheus.CounterVec
}

// NewPromSink registers the sink metrics on the default Prometheus
// registerer. The Prometheus server is started separately.
func NewPromSink() (coremetrics.Sink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (coremetrics.Sink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	notifications := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notification_results_total",
		Help: "Total number of per-recipient notification outcomes",
	}, []string{"language", "translated", "enqueued"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "notification_delivery_seconds",
		Help:    "Time from dispatch start to the recipient outcome",
		Buckets: prometheus.DefBuckets,
	}, []string{"language", "enqueued"})
	assignments := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mission_assignments_total",
		Help: "Total number of conditional mission assignment attempts",
	}, []string{"outcome"})

	if err := reg.Register(notifications); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			notifications = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(latency); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			latency = are.ExistingCollector.(*prometheus.HistogramVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(assignments); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			assignments = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{notifications: notifications, latency: latency, assignments: assignments}, nil
}

// RecordNotificationResult increments the counter for each recipient outcome.
func (s *PromSink) RecordNotificationResult(results []coremetrics.NotificationResult) error {
	for _, r := range results {
		translated := strconv.FormatBool(r.Translated)
		enqueued := strconv.FormatBool(r.Enqueued)
		s.notifications.WithLabelValues(r.Language, translated, enqueued).Inc()
		s.latency.WithLabelValues(r.Language, enqueued).Observe(r.Latency.Seconds())
	}
	return nil
}

// RecordAssignment counts an assignment attempt by its outcome.
func (s *PromSink) RecordAssignment(ev coremetrics.AssignmentEvent) error {
	s.assignments.WithLabelValues(ev.Outcome).Inc()
	return nil
}
