package match

import (
	"context"
	"fmt"

	"github.com/openrelief/missionmatch/core/events"
	"github.com/openrelief/missionmatch/core/logger"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/phrase"
	"github.com/openrelief/missionmatch/core/session"
	"github.com/openrelief/missionmatch/core/store"
	"github.com/openrelief/missionmatch/internal/eventbus"
)

// State identifies where a presentation session currently stands.
type State int

const (
	// StateIdle is the entry state before any offer has been presented.
	StateIdle State = iota
	// StateOffering means one offer is active and awaiting accept/decline.
	StateOffering
	// StateAccepted means an offer was accepted; the session loop is over.
	StateAccepted
	// StateNoMatches means the queue was empty at entry.
	StateNoMatches
	// StateNoMore means offers existed but were exhausted without acceptance.
	StateNoMore
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOffering:
		return "offering"
	case StateAccepted:
		return "accepted"
	case StateNoMatches:
		return "no_matches"
	case StateNoMore:
		return "no_more"
	default:
		return "unknown"
	}
}

// ParseState converts a persisted state tag back into a State.
func ParseState(s string) (State, error) {
	switch s {
	case "idle":
		return StateIdle, nil
	case "offering":
		return StateOffering, nil
	case "accepted":
		return StateAccepted, nil
	case "no_matches":
		return StateNoMatches, nil
	case "no_more":
		return StateNoMore, nil
	default:
		return StateIdle, fmt.Errorf("match: unknown state %q", s)
	}
}

// Replier sends text back to the session's conversational channel.
type Replier interface {
	Reply(ctx context.Context, text string) error
}

// Machine drives one responder session through its offer queue, presenting
// candidates one at a time. A machine is owned by a single session and must
// not be shared across goroutines.
type Machine struct {
	sessionID string
	responder model.Participant
	queue     *Queue
	active    *model.MatchOffer
	state     State

	assigner store.MissionAssigner
	render   phrase.Renderer
	replier  Replier
	bus      eventbus.EventBus
	log      logger.Logger
}

// NewMachine creates a presentation machine over the given offer queue.
func NewMachine(sessionID string, responder model.Participant, queue *Queue, assigner store.MissionAssigner, render phrase.Renderer, replier Replier, bus eventbus.EventBus, log logger.Logger) (*Machine, error) {
	if queue == nil || assigner == nil || render == nil || replier == nil {
		return nil, fmt.Errorf("match: nil parameter provided to NewMachine")
	}
	return &Machine{
		sessionID: sessionID,
		responder: responder,
		queue:     queue,
		state:     StateIdle,
		assigner:  assigner,
		render:    render,
		replier:   replier,
		bus:       bus,
		log:       log,
	}, nil
}

// State returns the machine's current state.
func (m *Machine) State() State { return m.state }

// Active returns the currently presented offer, if any.
func (m *Machine) Active() *model.MatchOffer { return m.active }

// Done reports whether the session's offer loop has terminated.
func (m *Machine) Done() bool {
	switch m.state {
	case StateAccepted, StateNoMatches, StateNoMore:
		return true
	}
	return false
}

// Start enters the offer loop. An empty queue at entry terminates the session
// immediately with a "no matches" notice; no data-service mutation is made.
func (m *Machine) Start(ctx context.Context) error {
	if m.state != StateIdle {
		return fmt.Errorf("match: start from state %s", m.state)
	}
	if m.queue.Len() == 0 {
		m.state = StateNoMatches
		return m.reply(ctx, phrase.MatchNone, nil)
	}
	if err := m.reply(ctx, phrase.MatchCount, phrase.Params{"count": m.queue.Len()}); err != nil {
		return err
	}
	return m.advance(ctx)
}

// Accept assigns the active mission to the responder if it is still
// unassigned. A lost race invalidates the offer and advances to the next one
// instead of failing the session.
func (m *Machine) Accept(ctx context.Context) error {
	if m.state != StateOffering || m.active == nil {
		return fmt.Errorf("match: accept from state %s", m.state)
	}
	offer := *m.active
	outcome, err := m.assigner.AssignMission(ctx, offer.MissionID, m.responder.ID)
	m.publish(events.AssignEvent{
		MissionID:   offer.MissionID,
		ResponderID: m.responder.ID,
		Outcome:     outcome.String(),
		Err:         err,
	})
	if err != nil {
		return fmt.Errorf("match: assign mission %s: %w", offer.MissionID, err)
	}
	if outcome != store.Assigned {
		// Another session won the race or the mission vanished. Treat the
		// offer as invalid and keep going.
		m.log.Warnf("mission %s no longer assignable (%s), advancing", offer.MissionID, outcome)
		m.publish(events.OfferEvent{SessionID: m.sessionID, MissionID: offer.MissionID, Action: events.OfferInvalidated})
		return m.advance(ctx)
	}
	m.active = nil
	m.state = StateAccepted
	m.publish(events.OfferEvent{SessionID: m.sessionID, MissionID: offer.MissionID, Action: events.OfferAccepted})
	m.log.Infof("mission %s assigned to %s", offer.MissionID, m.responder.ID)
	return m.reply(ctx, phrase.MatchAccepted, phrase.Params{"phone_number": offer.RequesterPhoneNumber})
}

// Decline discards the active offer and advances to the next one.
func (m *Machine) Decline(ctx context.Context) error {
	if m.state != StateOffering || m.active == nil {
		return fmt.Errorf("match: decline from state %s", m.state)
	}
	m.publish(events.OfferEvent{SessionID: m.sessionID, MissionID: m.active.MissionID, Action: events.OfferDeclined})
	return m.advance(ctx)
}

// advance pops the next offer and presents it, or terminates with the
// exhaustion notice when the queue is empty.
func (m *Machine) advance(ctx context.Context) error {
	offer, ok := m.queue.Pop()
	if !ok {
		m.active = nil
		m.state = StateNoMore
		return m.reply(ctx, phrase.MatchNoMore, nil)
	}
	m.active = &offer
	m.state = StateOffering
	m.publish(events.OfferEvent{SessionID: m.sessionID, MissionID: offer.MissionID, Action: events.OfferPresented})
	return m.reply(ctx, phrase.MatchOffer, phrase.Params{
		"description": offer.Description,
		"location":    fmt.Sprintf("%.4f,%.4f", offer.Location.Latitude, offer.Location.Longitude),
	})
}

func (m *Machine) reply(ctx context.Context, id phrase.MessageID, params phrase.Params) error {
	if err := m.replier.Reply(ctx, m.render.Render(id, params)); err != nil {
		return fmt.Errorf("match: reply %s: %w", id, err)
	}
	return nil
}

func (m *Machine) publish(e eventbus.Event) {
	if m.bus != nil {
		m.bus.Publish(e)
	}
}

// Snapshot captures the machine state for external persistence.
func (m *Machine) Snapshot() session.Snapshot {
	return session.Snapshot{
		SessionID:   m.sessionID,
		ResponderID: m.responder.ID,
		State:       m.state.String(),
		Active:      m.active,
		Offers:      m.queue.Remaining(),
	}
}

// Restore rebuilds a machine from a persisted snapshot.
func Restore(snap session.Snapshot, responder model.Participant, assigner store.MissionAssigner, render phrase.Renderer, replier Replier, bus eventbus.EventBus, log logger.Logger) (*Machine, error) {
	state, err := ParseState(snap.State)
	if err != nil {
		return nil, err
	}
	m, err := NewMachine(snap.SessionID, responder, NewQueue(snap.Offers...), assigner, render, replier, bus, log)
	if err != nil {
		return nil, err
	}
	m.state = state
	m.active = snap.Active
	return m, nil
}
