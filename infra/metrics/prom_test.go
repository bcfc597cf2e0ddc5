package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	coremetrics "github.com/openrelief/missionmatch/core/metrics"
)

func TestPromSinkRecordNotificationResult(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	sink, ok := sinkIf.(*PromSink)
	require.True(t, ok)

	results := []coremetrics.NotificationResult{
		{MissionID: "m1", PhoneNumber: "+1", Language: "es", Translated: true, Enqueued: true, Latency: 20 * time.Millisecond, Time: time.Now()},
		{MissionID: "m1", PhoneNumber: "+2", Language: "en", Translated: false, Enqueued: true, Latency: 5 * time.Millisecond, Time: time.Now()},
	}
	require.NoError(t, sink.RecordNotificationResult(results))

	expected := `
# HELP notification_results_total Total number of per-recipient notification outcomes
# TYPE notification_results_total counter
notification_results_total{enqueued="true",language="en",translated="false"} 1
notification_results_total{enqueued="true",language="es",translated="true"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.notifications, strings.NewReader(expected)))
	assert.NotZero(t, testutil.CollectAndCount(sink.latency))
}

func TestPromSinkRecordAssignment(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	sink := sinkIf.(*PromSink)

	require.NoError(t, sink.RecordAssignment(coremetrics.AssignmentEvent{MissionID: "m1", ResponderID: "r1", Outcome: "assigned", Time: time.Now()}))
	require.NoError(t, sink.RecordAssignment(coremetrics.AssignmentEvent{MissionID: "m1", ResponderID: "r2", Outcome: "already_assigned", Time: time.Now()}))

	expected := `
# HELP mission_assignments_total Total number of conditional mission assignment attempts
# TYPE mission_assignments_total counter
mission_assignments_total{outcome="already_assigned"} 1
mission_assignments_total{outcome="assigned"} 1
`
	assert.NoError(t, testutil.CollectAndCompare(sink.assignments, strings.NewReader(expected)))
}

func TestPromSinkDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPromSinkWithRegistry(reg)
	require.NoError(t, err)
	_, err = NewPromSinkWithRegistry(reg)
	assert.NoError(t, err)
}
