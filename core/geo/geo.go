// Package geo answers proximity queries against the backing data service.
// The index owns unit conversion; distance semantics belong to the store.
package geo

import (
	"context"
	"fmt"

	"github.com/openrelief/missionmatch/core/logger"
	"github.com/openrelief/missionmatch/core/model"
	"github.com/openrelief/missionmatch/core/store"
)

// Index resolves participants within a radius of a point.
type Index struct {
	store store.ParticipantFinder
	log   logger.Logger
}

// NewIndex creates an Index backed by the given participant finder.
func NewIndex(finder store.ParticipantFinder, log logger.Logger) (*Index, error) {
	if finder == nil {
		return nil, fmt.Errorf("geo: nil participant finder")
	}
	return &Index{store: finder, log: log}, nil
}

// FindWithinRadius returns all participants of the given population within
// radiusMiles of center. The radius boundary is closed: a participant exactly
// at the radius is included. A store failure aborts the workflow step.
func (i *Index) FindWithinRadius(ctx context.Context, center model.Location, radiusMiles float64, population model.Population) ([]model.Participant, error) {
	if radiusMiles < 0 {
		return nil, fmt.Errorf("geo: negative radius %f", radiusMiles)
	}
	meters := model.MilesToMeters(radiusMiles)
	found, err := i.store.FindParticipantsWithinRadius(ctx, center, meters, population)
	if err != nil {
		return nil, fmt.Errorf("geo: find %s within %.0fm: %w", population, meters, err)
	}
	i.log.Debugw("geo query", map[string]any{
		"population":   population.String(),
		"radius_miles": radiusMiles,
		"meters":       meters,
		"found":        len(found),
	})
	return found, nil
}
