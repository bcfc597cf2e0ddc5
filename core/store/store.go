// Package store defines the data-service capabilities the matching core
// consumes. Implementations live under infra.
package store

import (
	"context"
	"errors"

	"github.com/openrelief/missionmatch/core/model"
)

// ErrUnavailable indicates the backing data service could not be reached.
// It is fatal to the current workflow step and is not retried inline.
var ErrUnavailable = errors.New("data service unavailable")

// AssignOutcome is the result of a conditional mission assignment.
type AssignOutcome int

const (
	Assigned AssignOutcome = iota
	AlreadyAssigned
	NotFound
)

// String returns a human-readable representation of the outcome.
func (o AssignOutcome) String() string {
	switch o {
	case Assigned:
		return "assigned"
	case AlreadyAssigned:
		return "already_assigned"
	case NotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// ParticipantFinder resolves participants by proximity. Radius is in meters
// and the boundary is closed: a participant exactly at the radius is included.
type ParticipantFinder interface {
	FindParticipantsWithinRadius(ctx context.Context, center model.Location, meters float64, population model.Population) ([]model.Participant, error)
}

// MissionSource reads open missions for a requester.
type MissionSource interface {
	FindOpenMissions(ctx context.Context, requesterID string) ([]model.Mission, error)
}

// MissionWriter creates new missions.
type MissionWriter interface {
	CreateMission(ctx context.Context, m model.Mission) (model.Mission, error)
}

// ParticipantWriter registers or updates a participant in a population.
type ParticipantWriter interface {
	UpsertParticipant(ctx context.Context, population model.Population, p model.Participant) error
}

// MissionAssigner performs the compare-and-set assignment of a mission to a
// responder. The mission is assigned only if it is still unassigned; a lost
// race yields AlreadyAssigned, never an error.
type MissionAssigner interface {
	AssignMission(ctx context.Context, missionID, responderID string) (AssignOutcome, error)
}

// Store aggregates all data-service capabilities.
type Store interface {
	ParticipantFinder
	MissionSource
	MissionWriter
	MissionAssigner
}
