package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/openrelief/missionmatch/core/logger"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/session"
	"github.com/openrelief/missionmatch/core/store"
)

const (
	geoKeyPrefix         = "geo:"
	participantKeyPrefix = "participant:"
	missionKeyPrefix     = "mission:"
	openIndexPrefix      = "missions:open:"
	sessionKeyPrefix     = "session:"
)

// assignScript performs the compare-and-set assignment atomically. The
// mission is assigned only if its assigned flag is still unset; the open
// index entry is pruned on success.
var assignScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
  return 'not_found'
end
local m = cjson.decode(raw)
if m.is_assigned then
  return 'already_assigned'
end
m.is_assigned = true
m.assigned_to_id = ARGV[1]
redis.call('SET', KEYS[1], cjson.encode(m))
redis.call('SREM', ARGV[2] .. m.created_by_id, m.id)
return 'assigned'
`)

// Store implements the data-service and session-store interfaces on redis.
type Store struct {
	client     *redis.Client
	sessionTTL time.Duration
	log        logger.Logger
}

// New creates a Store over an established redis client.
func New(client *redis.Client, cfg Config, log logger.Logger) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redisstore: nil client")
	}
	cfg.SetDefaults()
	return &Store{
		client:     client,
		sessionTTL: time.Duration(cfg.SessionTTLSeconds) * time.Second,
		log:        log,
	}, nil
}

// unavailable wraps a transport-level failure into the fatal taxonomy.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %v", op, store.ErrUnavailable, err)
}

func geoKey(p model.Population) string       { return geoKeyPrefix + p.String() }
func participantKey(id string) string        { return participantKeyPrefix + id }
func missionKey(id string) string            { return missionKeyPrefix + id }
func openIndexKey(requesterID string) string { return openIndexPrefix + requesterID }
func sessionKey(sessionID string) string     { return sessionKeyPrefix + sessionID }

// UpsertParticipant stores the participant snapshot and indexes its location.
func (s *Store) UpsertParticipant(ctx context.Context, population model.Population, p model.Participant) error {
	if err := p.Validate(); err != nil {
		return err
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, participantKey(p.ID), raw, 0)
	pipe.GeoAdd(ctx, geoKey(population), &redis.GeoLocation{
		Name:      p.ID,
		Longitude: p.Location.Longitude,
		Latitude:  p.Location.Latitude,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return unavailable("upsert participant", err)
	}
	return nil
}

// FindParticipantsWithinRadius resolves nearby participants through a redis
// geo search. Redis includes members exactly at the radius, giving the
// closed-interval boundary.
func (s *Store) FindParticipantsWithinRadius(ctx context.Context, center model.Location, meters float64, population model.Population) ([]model.Participant, error) {
	ids, err := s.client.GeoSearch(ctx, geoKey(population), &redis.GeoSearchQuery{
		Longitude:  center.Longitude,
		Latitude:   center.Latitude,
		Radius:     meters,
		RadiusUnit: "m",
	}).Result()
	if err != nil {
		return nil, unavailable("geo search", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = participantKey(id)
	}
	raws, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("load participants", err)
	}
	out := make([]model.Participant, 0, len(raws))
	for i, raw := range raws {
		text, ok := raw.(string)
		if !ok {
			s.log.Warnf("participant %s indexed but missing", ids[i])
			continue
		}
		var p model.Participant
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			return nil, fmt.Errorf("decode participant %s: %w", ids[i], err)
		}
		out = append(out, p)
	}
	return out, nil
}

// CreateMission stores the mission and indexes it as open for its requester.
func (s *Store) CreateMission(ctx context.Context, m model.Mission) (model.Mission, error) {
	if err := m.Validate(); err != nil {
		return model.Mission{}, err
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return model.Mission{}, err
	}
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, missionKey(m.ID), raw, 0)
	pipe.SAdd(ctx, openIndexKey(m.CreatedByID), m.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return model.Mission{}, unavailable("create mission", err)
	}
	return m, nil
}

// FindOpenMissions returns the unassigned missions created by the requester.
func (s *Store) FindOpenMissions(ctx context.Context, requesterID string) ([]model.Mission, error) {
	ids, err := s.client.SMembers(ctx, openIndexKey(requesterID)).Result()
	if err != nil {
		return nil, unavailable("open mission index", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = missionKey(id)
	}
	raws, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, unavailable("load missions", err)
	}
	out := make([]model.Mission, 0, len(raws))
	for i, raw := range raws {
		text, ok := raw.(string)
		if !ok {
			continue
		}
		var m model.Mission
		if err := json.Unmarshal([]byte(text), &m); err != nil {
			return nil, fmt.Errorf("decode mission %s: %w", ids[i], err)
		}
		// The index is pruned on assignment, but the check is racy by
		// nature; skip anything already taken.
		if m.IsAssigned {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// AssignMission performs the conditional assignment through the Lua script.
func (s *Store) AssignMission(ctx context.Context, missionID, responderID string) (store.AssignOutcome, error) {
	res, err := assignScript.Run(ctx, s.client, []string{missionKey(missionID)}, responderID, openIndexPrefix).Text()
	if err != nil {
		return store.NotFound, unavailable("assign mission", err)
	}
	switch res {
	case "assigned":
		return store.Assigned, nil
	case "already_assigned":
		return store.AlreadyAssigned, nil
	case "not_found":
		return store.NotFound, nil
	default:
		return store.NotFound, fmt.Errorf("assign mission: unexpected result %q", res)
	}
}

// Load returns the session snapshot, if present.
func (s *Store) Load(ctx context.Context, sessionID string) (session.Snapshot, bool, error) {
	raw, err := s.client.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return session.Snapshot{}, false, nil
	}
	if err != nil {
		return session.Snapshot{}, false, unavailable("load session", err)
	}
	var snap session.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return session.Snapshot{}, false, fmt.Errorf("decode session %s: %w", sessionID, err)
	}
	return snap, true, nil
}

// Save stores the session snapshot with the configured TTL.
func (s *Store) Save(ctx context.Context, snap session.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, sessionKey(snap.SessionID), raw, s.sessionTTL).Err(); err != nil {
		return unavailable("save session", err)
	}
	return nil
}

// Delete removes the session snapshot.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return unavailable("delete session", err)
	}
	return nil
}
