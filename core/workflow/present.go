package workflow

import (
	"context"
	"fmt"

	"github.com/openrelief/missionmatch/core/geo"
	"github.com/openrelief/missionmatch/core/logger"
	"github.com/openrelief/missionmatch/core/match"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/phrase"
	"github.com/openrelief/missionmatch/core/session"
	"github.com/openrelief/missionmatch/core/store"
	"github.com/openrelief/missionmatch/internal/eventbus"
)

// Presentation drives a responder session through nearby offers. The first
// turn populates the session's offer queue and presents the head; later
// accept/decline signals resume from the persisted snapshot.
type Presentation struct {
	geo         *geo.Index
	aggregator  *match.Aggregator
	assigner    store.MissionAssigner
	sessions    session.Store
	render      phrase.Renderer
	radiusMiles float64
	bus         eventbus.EventBus
	log         logger.Logger
}

// NewPresentation creates the match presentation workflow.
func NewPresentation(geoIndex *geo.Index, aggregator *match.Aggregator, assigner store.MissionAssigner, sessions session.Store, render phrase.Renderer, radiusMiles float64, bus eventbus.EventBus, log logger.Logger) (*Presentation, error) {
	if geoIndex == nil || aggregator == nil || assigner == nil || sessions == nil || render == nil {
		return nil, fmt.Errorf("workflow: nil parameter provided to NewPresentation")
	}
	if radiusMiles <= 0 {
		radiusMiles = 50
	}
	return &Presentation{
		geo:         geoIndex,
		aggregator:  aggregator,
		assigner:    assigner,
		sessions:    sessions,
		render:      render,
		radiusMiles: radiusMiles,
		bus:         bus,
		log:         log,
	}, nil
}

// Name identifies the workflow.
func (w *Presentation) Name() string { return "match_presentation" }

// Steps returns the entry steps: aggregate nearby offers and present the
// first one.
func (w *Presentation) Steps(_ *Session) []Step {
	return []Step{
		{Name: "populate_queue", Run: w.populateQueue},
	}
}

func (w *Presentation) populateQueue(ctx context.Context, s *Session) error {
	requesters, err := w.geo.FindWithinRadius(ctx, s.Participant.Location, w.radiusMiles, model.Requesters)
	if err != nil {
		return err
	}
	offers, err := w.aggregator.BuildOffers(ctx, requesters)
	if err != nil {
		return err
	}
	machine, err := match.NewMachine(s.ID, s.Participant, match.NewQueue(offers...), w.assigner, w.render, s.Replier, w.bus, w.log)
	if err != nil {
		return err
	}
	if err := machine.Start(ctx); err != nil {
		return err
	}
	return w.persist(ctx, machine)
}

// Accept applies the responder's accept signal to the persisted session.
func (w *Presentation) Accept(ctx context.Context, s *Session) error {
	return w.resume(ctx, s, (*match.Machine).Accept)
}

// Decline applies the responder's decline signal to the persisted session.
func (w *Presentation) Decline(ctx context.Context, s *Session) error {
	return w.resume(ctx, s, (*match.Machine).Decline)
}

// resume loads the snapshot, restores the machine, applies the signal, and
// saves (or deletes) the snapshot on exit.
func (w *Presentation) resume(ctx context.Context, s *Session, signal func(*match.Machine, context.Context) error) error {
	snap, ok, err := w.sessions.Load(ctx, s.ID)
	if err != nil {
		return fmt.Errorf("load session %s: %w", s.ID, err)
	}
	if !ok {
		return fmt.Errorf("no active presentation for session %s", s.ID)
	}
	machine, err := match.Restore(snap, s.Participant, w.assigner, w.render, s.Replier, w.bus, w.log)
	if err != nil {
		return err
	}
	if err := signal(machine, ctx); err != nil {
		return err
	}
	return w.persist(ctx, machine)
}

// persist saves the machine state, or clears it once the session terminated.
func (w *Presentation) persist(ctx context.Context, machine *match.Machine) error {
	snap := machine.Snapshot()
	if machine.Done() {
		if err := w.sessions.Delete(ctx, snap.SessionID); err != nil {
			return fmt.Errorf("delete session %s: %w", snap.SessionID, err)
		}
		return nil
	}
	if err := w.sessions.Save(ctx, snap); err != nil {
		return fmt.Errorf("save session %s: %w", snap.SessionID, err)
	}
	return nil
}
