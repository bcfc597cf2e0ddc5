package memstore

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/session"
	"github.com/openrelief/missionmatch/core/store"
)

func TestFindWithinRadiusClosedBoundary(t *testing.T) {
	s := New()
	center := model.Location{Latitude: 40, Longitude: -75}

	inside := model.Participant{ID: "in", Location: center}
	// Roughly 1112 m north of center (0.01 degrees of latitude).
	near := model.Participant{ID: "near", Location: model.Location{Latitude: 40.01, Longitude: -75}}
	far := model.Participant{ID: "far", Location: model.Location{Latitude: 41, Longitude: -75}}
	s.AddParticipant(model.Responders, inside)
	s.AddParticipant(model.Responders, near)
	s.AddParticipant(model.Responders, far)

	d := model.DistanceMeters(center, near.Location)

	// Radius exactly at the participant's distance includes it.
	got, err := s.FindParticipantsWithinRadius(context.Background(), center, d, model.Responders)
	require.NoError(t, err)
	ids := idsOf(got)
	assert.Contains(t, ids, "in")
	assert.Contains(t, ids, "near")
	assert.NotContains(t, ids, "far")

	// Radius just below excludes it.
	got, err = s.FindParticipantsWithinRadius(context.Background(), center, d-1, model.Responders)
	require.NoError(t, err)
	ids = idsOf(got)
	assert.Contains(t, ids, "in")
	assert.NotContains(t, ids, "near")
}

func idsOf(ps []model.Participant) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.ID)
	}
	return out
}

func TestUpsertParticipantValidates(t *testing.T) {
	s := New()
	ctx := context.Background()

	p := model.Participant{ID: "r1", PhoneNumber: "+15550001111"}
	require.NoError(t, s.UpsertParticipant(ctx, model.Requesters, p))
	got, err := s.FindParticipantsWithinRadius(ctx, p.Location, 1, model.Requesters)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	assert.Error(t, s.UpsertParticipant(ctx, model.Requesters, model.Participant{ID: "no-phone"}))
}

func TestAssignMissionCompareAndSet(t *testing.T) {
	s := New()
	_, err := s.CreateMission(context.Background(), model.Mission{ID: "m1", CreatedByID: "r1", Description: "x"})
	require.NoError(t, err)

	out, err := s.AssignMission(context.Background(), "m1", "resp1")
	require.NoError(t, err)
	assert.Equal(t, store.Assigned, out)

	out, err = s.AssignMission(context.Background(), "m1", "resp2")
	require.NoError(t, err)
	assert.Equal(t, store.AlreadyAssigned, out)

	m, ok := s.GetMission("m1")
	require.True(t, ok)
	assert.Equal(t, "resp1", m.AssignedToID)

	out, err = s.AssignMission(context.Background(), "ghost", "resp1")
	require.NoError(t, err)
	assert.Equal(t, store.NotFound, out)
}

func TestAssignMissionConcurrentRace(t *testing.T) {
	s := New()
	_, err := s.CreateMission(context.Background(), model.Mission{ID: "m1", CreatedByID: "r1", Description: "x"})
	require.NoError(t, err)

	const racers = 8
	outcomes := make([]store.AssignOutcome, racers)
	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			out, err := s.AssignMission(context.Background(), "m1", "resp")
			assert.NoError(t, err)
			outcomes[i] = out
		}(i)
	}
	wg.Wait()

	var wins int
	for _, out := range outcomes {
		if out == store.Assigned {
			wins++
		}
	}
	assert.Equal(t, 1, wins)
}

func TestOpenMissionsExcludeAssigned(t *testing.T) {
	s := New()
	_, err := s.CreateMission(context.Background(), model.Mission{ID: "m1", CreatedByID: "r1", Description: "a"})
	require.NoError(t, err)
	_, err = s.CreateMission(context.Background(), model.Mission{ID: "m2", CreatedByID: "r1", Description: "b"})
	require.NoError(t, err)

	_, err = s.AssignMission(context.Background(), "m1", "resp1")
	require.NoError(t, err)

	open, err := s.FindOpenMissions(context.Background(), "r1")
	require.NoError(t, err)
	require.Len(t, open, 1)
	assert.Equal(t, "m2", open[0].ID)
}

func TestSessionRoundTrip(t *testing.T) {
	s := New()
	snap := session.Snapshot{SessionID: "sess1", State: "offering", Offers: []model.MatchOffer{{MissionID: "m1"}}}
	require.NoError(t, s.Save(context.Background(), snap))

	got, ok, err := s.Load(context.Background(), "sess1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, snap, got)

	require.NoError(t, s.Delete(context.Background(), "sess1"))
	_, ok, err = s.Load(context.Background(), "sess1")
	require.NoError(t, err)
	assert.False(t, ok)
}
