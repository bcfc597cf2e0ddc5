package events

import "github.com/openrelief/missionmatch/core/model"

// MissionEvent is published when a new mission enters the system.
type MissionEvent struct {
	Mission model.Mission
}
