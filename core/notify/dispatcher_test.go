package notify

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrelief/missionmatch/core/metrics"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/infra/logger"
)

type mockQueue struct {
	mu       sync.Mutex
	messages []model.OutgoingNotification
	failFor  map[string]bool
}

func newMockQueue() *mockQueue {
	return &mockQueue{failFor: make(map[string]bool)}
}

func (q *mockQueue) Enqueue(_ context.Context, n model.OutgoingNotification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.failFor[n.PhoneNumber] {
		return fmt.Errorf("queue rejected %s", n.PhoneNumber)
	}
	q.messages = append(q.messages, n)
	return nil
}

func (q *mockQueue) messageFor(phone string) (model.OutgoingNotification, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, m := range q.messages {
		if m.PhoneNumber == phone {
			return m, true
		}
	}
	return model.OutgoingNotification{}, false
}

type recordingSink struct {
	mu      sync.Mutex
	results []metrics.NotificationResult
}

func (s *recordingSink) RecordNotificationResult(res []metrics.NotificationResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, res...)
	return nil
}

func TestDispatchTranslatesPerLanguage(t *testing.T) {
	tr := newFakeTranslator()
	q := newMockQueue()
	d, err := NewDispatcher(q, tr, 4, nil, nil, logger.NopLogger{})
	require.NoError(t, err)

	recipients := []model.Participant{
		{ID: "a", PhoneNumber: "+1", Language: "es"},
		{ID: "b", PhoneNumber: "+2", Language: "es"},
		{ID: "c", PhoneNumber: "+3", Language: "en"},
		{ID: "d", PhoneNumber: "+4", Language: "fr"},
	}
	outcomes := d.Dispatch(context.Background(), "m1", recipients, "new mission near you")

	require.Len(t, outcomes, 4)
	for _, o := range outcomes {
		assert.True(t, o.OK())
	}
	// es once, fr once, never for the default language.
	assert.Equal(t, 2, tr.callCount())

	// The enqueued text is the translated text, not the source.
	msg, ok := q.messageFor("+1")
	require.True(t, ok)
	assert.Equal(t, "[es] new mission near you", msg.Message)
	msg, ok = q.messageFor("+4")
	require.True(t, ok)
	assert.Equal(t, "[fr] new mission near you", msg.Message)
	msg, ok = q.messageFor("+3")
	require.True(t, ok)
	assert.Equal(t, "new mission near you", msg.Message)
}

func TestDispatchPartialFailure(t *testing.T) {
	tr := newFakeTranslator()
	q := newMockQueue()
	q.failFor["+2"] = true
	sink := &recordingSink{}
	d, err := NewDispatcher(q, tr, 2, sink, nil, logger.NopLogger{})
	require.NoError(t, err)

	recipients := []model.Participant{
		{ID: "a", PhoneNumber: "+1", Language: "en"},
		{ID: "b", PhoneNumber: "+2", Language: "en"},
		{ID: "c", PhoneNumber: "+3", Language: "en"},
	}
	outcomes := d.Dispatch(context.Background(), "m1", recipients, "hello")

	require.Len(t, outcomes, 3)
	var failures, successes int
	for _, o := range outcomes {
		if o.OK() {
			successes++
		} else {
			failures++
		}
	}
	assert.Equal(t, 2, successes)
	assert.Equal(t, 1, failures)
	// No early abort: both other submissions went through.
	assert.Len(t, q.messages, 2)

	// Every attempt is recorded through the sink.
	require.Len(t, sink.results, 3)
	var enqueued int
	for _, r := range sink.results {
		if r.Enqueued {
			enqueued++
		}
		assert.Equal(t, "m1", r.MissionID)
	}
	assert.Equal(t, 2, enqueued)
}

func TestDispatchTranslationFailureStillEnqueues(t *testing.T) {
	tr := newFakeTranslator()
	tr.failLangs = map[string]bool{"fr": true}
	q := newMockQueue()
	d, err := NewDispatcher(q, tr, 1, nil, nil, logger.NopLogger{})
	require.NoError(t, err)

	outcomes := d.Dispatch(context.Background(), "m1", []model.Participant{
		{ID: "a", PhoneNumber: "+1", Language: "fr"},
	}, "hello")

	require.Len(t, outcomes, 1)
	assert.True(t, outcomes[0].OK())
	assert.Error(t, outcomes[0].TranslationErr)
	assert.False(t, outcomes[0].Translated)

	msg, ok := q.messageFor("+1")
	require.True(t, ok)
	assert.Equal(t, "hello", msg.Message)
}

func TestDispatchEmptyBatch(t *testing.T) {
	d, err := NewDispatcher(newMockQueue(), newFakeTranslator(), 0, nil, nil, logger.NopLogger{})
	require.NoError(t, err)
	outcomes := d.Dispatch(context.Background(), "m1", nil, "hello")
	assert.Empty(t, outcomes)
}

func TestNewDispatcherValidation(t *testing.T) {
	_, err := NewDispatcher(nil, newFakeTranslator(), 1, nil, nil, logger.NopLogger{})
	assert.Error(t, err)
	_, err = NewDispatcher(newMockQueue(), nil, 1, nil, nil, logger.NopLogger{})
	assert.Error(t, err)
}
