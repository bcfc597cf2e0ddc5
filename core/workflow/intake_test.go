package workflow

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrelief/missionmatch/core/geo"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/notify"
	"github.com/openrelief/missionmatch/core/phrase"
	"github.com/openrelief/missionmatch/core/store"
	"github.com/openrelief/missionmatch/infra/logger"
)

type stubTranslator struct{}

func (stubTranslator) Translate(_ context.Context, text, language string) (string, error) {
	return "[" + language + "] " + text, nil
}
func (stubTranslator) DefaultLanguage() string { return "en" }
func (stubTranslator) IsConfigured() bool      { return true }

type captureQueue struct {
	mu       sync.Mutex
	messages []model.OutgoingNotification
}

func (q *captureQueue) Enqueue(_ context.Context, n model.OutgoingNotification) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.messages = append(q.messages, n)
	return nil
}

func newIntakeFixture(t *testing.T, st *fakeStore) (*Intake, *captureQueue) {
	t.Helper()
	idx, err := geo.NewIndex(st, logger.NopLogger{})
	require.NoError(t, err)
	q := &captureQueue{}
	d, err := notify.NewDispatcher(q, stubTranslator{}, 2, nil, nil, logger.NopLogger{})
	require.NoError(t, err)
	w, err := NewIntake(st, idx, d, phrase.Catalog{}, 50, nil, logger.NopLogger{})
	require.NoError(t, err)
	return w, q
}

func TestIntakeCreatesAndNotifies(t *testing.T) {
	st := newFakeStore()
	center := model.Location{Latitude: 40.0, Longitude: -75.0}
	st.participants[model.Responders] = []model.Participant{
		{ID: "g1", PhoneNumber: "+11", Language: "es", Location: center},
		{ID: "g2", PhoneNumber: "+12", Language: "en", Location: center},
		// Far away, outside any 50 mile radius.
		{ID: "g3", PhoneNumber: "+13", Language: "en", Location: model.Location{Latitude: 0, Longitude: 0}},
	}
	w, q := newIntakeFixture(t, st)

	rep := &captureReplier{}
	s := &Session{
		ID:          "sess1",
		Participant: model.Participant{ID: "r1", PhoneNumber: "+10", Location: center},
		Input:       "need a generator moved",
		Replier:     rep,
	}
	err := NewRunner(logger.NopLogger{}).Run(context.Background(), w, s)
	require.NoError(t, err)

	// The mission was persisted and stays open.
	require.NotNil(t, s.Mission)
	missions, err := st.FindOpenMissions(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, missions, 1)
	assert.Equal(t, "need a generator moved", missions[0].Description)

	// Only the two nearby responders were notified, in their language.
	require.Len(t, q.messages, 2)
	byPhone := map[string]string{}
	for _, m := range q.messages {
		byPhone[m.PhoneNumber] = m.Message
	}
	assert.Contains(t, byPhone["+11"], "[es]")
	assert.NotContains(t, byPhone["+12"], "[es]")
	assert.NotContains(t, byPhone, "+13")

	// The requester got the completion message.
	require.Len(t, rep.texts, 1)
}

func TestIntakeNoNearbyResponders(t *testing.T) {
	st := newFakeStore()
	w, q := newIntakeFixture(t, st)

	rep := &captureReplier{}
	s := &Session{
		ID:          "sess1",
		Participant: model.Participant{ID: "r1", Location: model.Location{Latitude: 40, Longitude: -75}},
		Input:       "help needed",
		Replier:     rep,
	}
	require.NoError(t, NewRunner(logger.NopLogger{}).Run(context.Background(), w, s))
	assert.Empty(t, q.messages)
	assert.Len(t, rep.texts, 1)
	assert.NotNil(t, s.Mission)
}

func TestIntakeRejectsEmptyDescription(t *testing.T) {
	st := newFakeStore()
	w, _ := newIntakeFixture(t, st)
	s := &Session{
		ID:          "sess1",
		Participant: model.Participant{ID: "r1"},
		Replier:     &captureReplier{},
	}
	err := NewRunner(logger.NopLogger{}).Run(context.Background(), w, s)
	assert.Error(t, err)
}

func TestIntakeAbortsOnGeoFailure(t *testing.T) {
	st := newFakeStore()
	st.findErr = store.ErrUnavailable
	w, q := newIntakeFixture(t, st)
	s := &Session{
		ID:          "sess1",
		Participant: model.Participant{ID: "r1"},
		Input:       "help",
		Replier:     &captureReplier{},
	}
	err := NewRunner(logger.NopLogger{}).Run(context.Background(), w, s)
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrUnavailable)
	assert.Empty(t, q.messages)
}

func TestIntakeValidation(t *testing.T) {
	_, err := NewIntake(nil, nil, nil, nil, 50, nil, logger.NopLogger{})
	assert.Error(t, err)
}
