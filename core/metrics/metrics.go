package metrics

import (
	"time"
)

// NotificationResult represents a per-recipient dispatch event to be recorded.
type NotificationResult struct {
	MissionID   string
	PhoneNumber string
	Language    string
	Translated  bool
	Enqueued    bool
	Latency     time.Duration
	Time        time.Time
}

// Sink records notification dispatch results for observability purposes.
type Sink interface {
	RecordNotificationResult(results []NotificationResult) error
}

// AssignmentEvent captures the outcome of a conditional mission assignment.
type AssignmentEvent struct {
	MissionID   string
	ResponderID string
	Outcome     string
	Time        time.Time
}

// AssignmentRecorder is implemented by sinks able to record assignments.
type AssignmentRecorder interface {
	RecordAssignment(ev AssignmentEvent) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordNotificationResult([]NotificationResult) error { return nil }

// Ensure NopSink implements AssignmentRecorder.
func (NopSink) RecordAssignment(AssignmentEvent) error { return nil }
