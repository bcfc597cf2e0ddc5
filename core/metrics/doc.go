// Package metrics defines the observability sink interfaces used to record
// notification dispatch and assignment outcomes. Concrete sinks live under
// infra/metrics and are built through the factory registry.
package metrics
