// Package session defines the externally persisted conversation-session
// state: the offer queue plus the presentation state tag. Snapshots are
// loaded at session-step entry and saved at exit; the core holds no ambient
// session state.
package session

import (
	"context"

	"github.com/openrelief/missionmatch/core/model"
)

// Snapshot is the persisted shape of one responder session.
type Snapshot struct {
	SessionID   string             `json:"session_id"`
	ResponderID string             `json:"responder_id"`
	State       string             `json:"state"`
	Active      *model.MatchOffer  `json:"active,omitempty"`
	Offers      []model.MatchOffer `json:"offers"`
}

// Store persists session snapshots between conversation turns.
type Store interface {
	Load(ctx context.Context, sessionID string) (Snapshot, bool, error)
	Save(ctx context.Context, snap Snapshot) error
	Delete(ctx context.Context, sessionID string) error
}
