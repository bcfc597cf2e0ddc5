package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/openrelief/missionmatch/core/events"
	"github.com/openrelief/missionmatch/core/geo"
	"github.com/openrelief/missionmatch/core/logger"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/notify"
	"github.com/openrelief/missionmatch/core/phrase"
	"github.com/openrelief/missionmatch/core/store"
	"github.com/openrelief/missionmatch/internal/eventbus"
)

// Intake orchestrates requester-side mission creation: persist the mission,
// find responders within the configured radius, and fan the notification out.
type Intake struct {
	missions    store.MissionWriter
	geo         *geo.Index
	dispatcher  *notify.Dispatcher
	render      phrase.Renderer
	radiusMiles float64
	bus         eventbus.EventBus
	log         logger.Logger
}

// NewIntake creates the mission intake workflow.
func NewIntake(missions store.MissionWriter, geoIndex *geo.Index, dispatcher *notify.Dispatcher, render phrase.Renderer, radiusMiles float64, bus eventbus.EventBus, log logger.Logger) (*Intake, error) {
	if missions == nil || geoIndex == nil || dispatcher == nil || render == nil {
		return nil, fmt.Errorf("workflow: nil parameter provided to NewIntake")
	}
	if radiusMiles <= 0 {
		radiusMiles = 50
	}
	return &Intake{
		missions:    missions,
		geo:         geoIndex,
		dispatcher:  dispatcher,
		render:      render,
		radiusMiles: radiusMiles,
		bus:         bus,
		log:         log,
	}, nil
}

// Name identifies the workflow.
func (w *Intake) Name() string { return "mission_intake" }

// Steps returns the intake steps for the session.
func (w *Intake) Steps(_ *Session) []Step {
	return []Step{
		{Name: "create_mission", Run: w.createMission},
		{Name: "notify_responders", Run: w.notifyResponders},
		{Name: "confirm", Run: w.confirm},
	}
}

func (w *Intake) createMission(ctx context.Context, s *Session) error {
	m := model.Mission{
		ID:          uuid.NewString(),
		CreatedByID: s.Participant.ID,
		Description: s.Input,
		Location:    s.Participant.Location,
		CreatedAt:   time.Now().UTC(),
	}
	if err := m.Validate(); err != nil {
		return err
	}
	created, err := w.missions.CreateMission(ctx, m)
	if err != nil {
		return fmt.Errorf("create mission: %w", err)
	}
	s.Mission = &created
	if w.bus != nil {
		w.bus.Publish(events.MissionEvent{Mission: created})
	}
	w.log.Infof("mission %s created by %s", created.ID, created.CreatedByID)
	return nil
}

func (w *Intake) notifyResponders(ctx context.Context, s *Session) error {
	responders, err := w.geo.FindWithinRadius(ctx, s.Participant.Location, w.radiusMiles, model.Responders)
	if err != nil {
		return err
	}
	if len(responders) == 0 {
		w.log.Infof("no responders within %.0f miles of mission %s", w.radiusMiles, s.Mission.ID)
		return nil
	}
	message := w.render.Render(phrase.MissionNotification, phrase.Params{
		"description": s.Mission.Description,
		"location":    fmt.Sprintf("%.4f,%.4f", s.Mission.Location.Latitude, s.Mission.Location.Longitude),
	})
	outcomes := w.dispatcher.Dispatch(ctx, s.Mission.ID, responders, message)
	var failed int
	for _, o := range outcomes {
		if !o.OK() {
			failed++
		}
	}
	if failed > 0 {
		w.log.Warnf("%d of %d notifications failed for mission %s", failed, len(outcomes), s.Mission.ID)
	}
	return nil
}

func (w *Intake) confirm(ctx context.Context, s *Session) error {
	return s.Replier.Reply(ctx, w.render.Render(phrase.IntakeComplete, nil))
}
