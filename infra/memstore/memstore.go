// Package memstore provides an in-memory data service used in tests and in
// dev mode when no redis URL is configured. Distances use the haversine
// formula with a closed radius boundary, matching the redis-backed store.
package memstore

import (
	"context"
	"sync"

	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/session"
	"github.com/openrelief/missionmatch/core/store"
)

// Store keeps participants, missions and session snapshots in memory.
type Store struct {
	mu           sync.RWMutex
	participants map[model.Population]map[string]model.Participant
	missions     map[string]model.Mission
	sessions     map[string]session.Snapshot
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		participants: map[model.Population]map[string]model.Participant{
			model.Requesters: {},
			model.Responders: {},
		},
		missions: make(map[string]model.Mission),
		sessions: make(map[string]session.Snapshot),
	}
}

// AddParticipant registers a participant in the given population.
func (s *Store) AddParticipant(population model.Population, p model.Participant) {
	s.mu.Lock()
	s.participants[population][p.ID] = p
	s.mu.Unlock()
}

// UpsertParticipant validates and registers a participant.
func (s *Store) UpsertParticipant(_ context.Context, population model.Population, p model.Participant) error {
	if err := p.Validate(); err != nil {
		return err
	}
	s.AddParticipant(population, p)
	return nil
}

// FindParticipantsWithinRadius returns participants at most meters away from
// center. The boundary is closed: exactly-at-radius participants are
// included.
func (s *Store) FindParticipantsWithinRadius(_ context.Context, center model.Location, meters float64, population model.Population) ([]model.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Participant
	for _, p := range s.participants[population] {
		if model.DistanceMeters(center, p.Location) <= meters {
			out = append(out, p)
		}
	}
	return out, nil
}

// FindOpenMissions returns the unassigned missions created by the requester.
func (s *Store) FindOpenMissions(_ context.Context, requesterID string) ([]model.Mission, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []model.Mission
	for _, m := range s.missions {
		if m.CreatedByID == requesterID && !m.IsAssigned {
			out = append(out, m)
		}
	}
	return out, nil
}

// CreateMission stores a new mission.
func (s *Store) CreateMission(_ context.Context, m model.Mission) (model.Mission, error) {
	s.mu.Lock()
	s.missions[m.ID] = m
	s.mu.Unlock()
	return m, nil
}

// GetMission returns a mission by id.
func (s *Store) GetMission(id string) (model.Mission, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.missions[id]
	return m, ok
}

// AssignMission assigns the mission to the responder only if it is still
// unassigned.
func (s *Store) AssignMission(_ context.Context, missionID, responderID string) (store.AssignOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.missions[missionID]
	if !ok {
		return store.NotFound, nil
	}
	if m.IsAssigned {
		return store.AlreadyAssigned, nil
	}
	m.IsAssigned = true
	m.AssignedToID = responderID
	s.missions[missionID] = m
	return store.Assigned, nil
}

// Load returns the snapshot for the session, if present.
func (s *Store) Load(_ context.Context, sessionID string) (session.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.sessions[sessionID]
	return snap, ok, nil
}

// Save stores the session snapshot.
func (s *Store) Save(_ context.Context, snap session.Snapshot) error {
	s.mu.Lock()
	s.sessions[snap.SessionID] = snap
	s.mu.Unlock()
	return nil
}

// Delete removes the session snapshot.
func (s *Store) Delete(_ context.Context, sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
