// Package match builds candidate mission offers for a responder session and
// drives their one-at-a-time presentation.
package match

import (
	"context"
	"fmt"

	"github.com/openrelief/missionmatch/core/logger"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/store"
)

// Aggregator collects the open missions of nearby requesters into an ordered
// list of offers. It keeps no cross-call memory: a still-unassigned mission
// is re-offered on every aggregation.
type Aggregator struct {
	missions store.MissionSource
	log      logger.Logger
}

// NewAggregator creates an Aggregator reading missions from the given source.
func NewAggregator(missions store.MissionSource, log logger.Logger) (*Aggregator, error) {
	if missions == nil {
		return nil, fmt.Errorf("match: nil mission source")
	}
	return &Aggregator{missions: missions, log: log}, nil
}

// BuildOffers returns one offer per (requester, open mission) pair, ordered
// by requester iteration then mission iteration. An empty input or a set of
// requesters without open missions yields an empty sequence.
func (a *Aggregator) BuildOffers(ctx context.Context, requesters []model.Participant) ([]model.MatchOffer, error) {
	var offers []model.MatchOffer
	for _, req := range requesters {
		missions, err := a.missions.FindOpenMissions(ctx, req.ID)
		if err != nil {
			return nil, fmt.Errorf("match: open missions for %s: %w", req.ID, err)
		}
		for _, m := range missions {
			offers = append(offers, model.MatchOffer{
				MissionID:            m.ID,
				RequesterID:          req.ID,
				RequesterPhoneNumber: req.PhoneNumber,
				Description:          m.Description,
				Location:             m.Location,
			})
		}
	}
	a.log.Debugw("offers aggregated", map[string]any{
		"requesters": len(requesters),
		"offers":     len(offers),
	})
	return offers, nil
}
