package events

import "time"

// NotificationEvent is published for each recipient of a dispatch batch.
type NotificationEvent struct {
	MissionID   string
	PhoneNumber string
	Language    string
	Translated  bool
	Err         error
	Latency     time.Duration
}
