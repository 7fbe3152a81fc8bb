// Package engine defines the contract of the external indoor map engine.
// The orchestration layer only ever talks to these interfaces; rendering,
// floor geometry and the shortest-path primitive live behind them.
package engine

import (
	"github.com/venuenav/backend/internal/domain"
)

// RecordKind identifies a class of raw records in the loaded map data
type RecordKind string

const (
	KindPOI    RecordKind = "point-of-interest"
	KindFloor  RecordKind = "floor"
	KindObject RecordKind = "object"
)

// IsValid checks if the record kind is one the engine can list
func (k RecordKind) IsValid() bool {
	switch k {
	case KindPOI, KindFloor, KindObject:
		return true
	default:
		return false
	}
}

// RawRecord is one untyped record from the loaded map data. The registry
// normalizes these into domain.POI / domain.Floor values.
type RawRecord struct {
	ID          string
	Name        string
	Latitude    float64
	Longitude   float64
	FloorID     string
	FloorName   string
	Description string
	Images      []string
	Links       []string
}

// Directions is the result of a routing request. A nil *Directions means the
// engine found no path; the layer above does not distinguish unknown targets
// from unreachable ones.
type Directions struct {
	Distance float64
	Path     []domain.Coordinate
}

// MarkerVariant selects the visual style of a marker
type MarkerVariant string

const (
	MarkerDefault     MarkerVariant = "default"
	MarkerHighlighted MarkerVariant = "highlighted"
)

// MarkerRank controls marker visibility priority
type MarkerRank string

const (
	RankStandard      MarkerRank = "standard"
	RankAlwaysVisible MarkerRank = "always-visible"
)

// MarkerOptions bundles marker appearance settings
type MarkerOptions struct {
	Variant MarkerVariant
	Rank    MarkerRank
}

// BlueDotConfig configures the live position indicator
type BlueDotConfig struct {
	ShowAccuracyRing bool
}

// CameraConfig positions the engine camera
type CameraConfig struct {
	Center domain.Coordinate
	Zoom   float64
}

// MapData is the handle to loaded venue data
type MapData interface {
	// GetByType lists the raw records of one kind
	GetByType(kind RecordKind) []RawRecord

	// GetDirections computes a path between two coordinates; nil when none exists
	GetDirections(from, to domain.Coordinate) *Directions

	// GetDirectionsMultiDestination computes a combined path visiting every
	// destination in order; nil when no destination is reachable
	GetDirectionsMultiDestination(from domain.Coordinate, tos []domain.Coordinate) *Directions
}

// MapView is the handle to the rendered view
type MapView interface {
	// CreateCoordinate materializes an engine coordinate; floorID may be empty
	CreateCoordinate(lat, lng float64, floorID string) domain.Coordinate

	// DrawNavigation visualizes a computed path
	DrawNavigation(d *Directions)

	// AddMarker places a marker for a POI
	AddMarker(c domain.Coordinate, poiID string, opts MarkerOptions)

	// RemoveAllMarkers clears every marker from the view
	RemoveAllMarkers()

	// AddLabel places a text label
	AddLabel(c domain.Coordinate, text string)

	// EnableBlueDot turns on the live position indicator
	EnableBlueDot(cfg BlueDotConfig)

	// UpdateBlueDot moves the live position indicator
	UpdateBlueDot(loc domain.Location)

	// SetCamera repositions the camera
	SetCamera(cfg CameraConfig)

	// CurrentFloor returns the floor the view is displaying
	CurrentFloor() domain.Floor
}
