package service

import (
	"github.com/venuenav/backend/internal/engine"
)

// MarkerPolicy decides, per POI and per active floor, whether and how it is
// annotated on the view. Floors not currently displayed are never annotated.
type MarkerPolicy struct {
	registry *Registry
	view     engine.MapView
}

// NewMarkerPolicy creates a new marker policy
func NewMarkerPolicy(registry *Registry, view engine.MapView) *MarkerPolicy {
	return &MarkerPolicy{registry: registry, view: view}
}

// Annotate clears all existing markers and re-annotates the given floor, so
// re-entry is idempotent. The policy is tri-state: with an empty highlight
// set every POI on the floor gets the default variant at standard rank; with
// a non-empty set, members get the highlighted variant at always-visible rank
// and non-members are not rendered at all.
func (m *MarkerPolicy) Annotate(currentFloorID string, highlightIDs map[string]struct{}) {
	m.view.RemoveAllMarkers()

	for _, poi := range m.registry.ForFloor(currentFloorID) {
		if len(highlightIDs) > 0 {
			if _, ok := highlightIDs[poi.ID]; !ok {
				continue
			}
			m.view.AddMarker(poi.Coordinate, poi.ID, engine.MarkerOptions{
				Variant: engine.MarkerHighlighted,
				Rank:    engine.RankAlwaysVisible,
			})
			continue
		}
		m.view.AddMarker(poi.Coordinate, poi.ID, engine.MarkerOptions{
			Variant: engine.MarkerDefault,
			Rank:    engine.RankStandard,
		})
	}
}

// LabelFloor places a text label for every POI on the given floor
func (m *MarkerPolicy) LabelFloor(floorID string) {
	for _, poi := range m.registry.ForFloor(floorID) {
		m.view.AddLabel(poi.Coordinate, poi.Name)
	}
}
