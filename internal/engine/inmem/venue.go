// Package inmem is an in-process implementation of the map engine contract.
// It loads a venue GeoJSON file and answers routing requests with a walk-graph
// shortest path, so the whole stack runs without the commercial map SDK.
package inmem

import (
	"fmt"
	"os"
	"sync"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/venuenav/backend/internal/domain"
	"github.com/venuenav/backend/internal/engine"
	"github.com/venuenav/backend/pkg/utils"
)

// connectorCost is the fixed penalty in meters for moving between floors
const connectorCost = 15.0

// MarkerRecord is one marker currently placed on the view
type MarkerRecord struct {
	Coordinate domain.Coordinate
	POIID      string
	Options    engine.MarkerOptions
}

// LabelRecord is one label currently placed on the view
type LabelRecord struct {
	Coordinate domain.Coordinate
	Text       string
}

// Venue implements engine.MapData and engine.MapView over a parsed venue file
type Venue struct {
	mu sync.Mutex

	records map[engine.RecordKind][]engine.RawRecord
	floors  []domain.Floor
	graph   *graph

	currentFloor domain.Floor
	markers      []MarkerRecord
	labels       []LabelRecord
	drawCount    int
	lastDrawn    *engine.Directions
	blueDotOn    bool
	blueDot      domain.Location
	camera       engine.CameraConfig
}

// LoadVenue reads and parses a venue GeoJSON file
func LoadVenue(path string) (*Venue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("inmem: failed to read venue file: %w", err)
	}
	return ParseVenue(data)
}

// ParseVenue builds a venue from raw GeoJSON bytes
func ParseVenue(data []byte) (*Venue, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("inmem: failed to parse venue geojson: %w", err)
	}

	v := &Venue{
		records: make(map[engine.RecordKind][]engine.RawRecord),
		graph:   newGraph(),
	}
	floorNames := make(map[string]string)

	// Floors first so POI records can carry floor names
	for _, f := range fc.Features {
		if f.Properties.MustString("kind", "") != "floor" {
			continue
		}
		floor := domain.Floor{
			ID:   f.Properties.MustString("id", ""),
			Name: f.Properties.MustString("name", ""),
		}
		if floor.ID == "" {
			continue
		}
		v.floors = append(v.floors, floor)
		floorNames[floor.ID] = floor.Name
		v.records[engine.KindFloor] = append(v.records[engine.KindFloor], engine.RawRecord{
			ID:   floor.ID,
			Name: floor.Name,
		})
	}

	walkwaySeq := 0
	var connectors []*geojson.Feature
	for _, f := range fc.Features {
		kind := f.Properties.MustString("kind", "")
		switch kind {
		case "point-of-interest", "object":
			point, ok := f.Geometry.(orb.Point)
			if !ok {
				continue
			}
			floorID := f.Properties.MustString("floor", "")
			rec := engine.RawRecord{
				ID:          f.Properties.MustString("id", ""),
				Name:        f.Properties.MustString("name", ""),
				Latitude:    point.Lat(),
				Longitude:   point.Lon(),
				FloorID:     floorID,
				FloorName:   floorNames[floorID],
				Description: f.Properties.MustString("description", ""),
				Images:      stringSlice(f.Properties, "images"),
				Links:       stringSlice(f.Properties, "links"),
			}
			recordKind := engine.KindPOI
			if kind == "object" {
				recordKind = engine.KindObject
			}
			v.records[recordKind] = append(v.records[recordKind], rec)

		case "walkway":
			line, ok := f.Geometry.(orb.LineString)
			if !ok {
				continue
			}
			floorID := f.Properties.MustString("floor", "")
			var prevID string
			for _, point := range line {
				walkwaySeq++
				id := fmt.Sprintf("wp-%d", walkwaySeq)
				v.graph.addNode(&node{
					ID:      id,
					Lat:     point.Lat(),
					Lng:     point.Lon(),
					FloorID: floorID,
				})
				if prevID != "" {
					v.graph.addEdge(prevID, id, 0)
				}
				prevID = id
			}

		case "connector":
			// processed after walkways so tie-in nodes exist
			connectors = append(connectors, f)
		}
	}

	for _, f := range connectors {
		point, ok := f.Geometry.(orb.Point)
		if !ok {
			continue
		}
		connID := f.Properties.MustString("id", "")
		floors := stringSlice(f.Properties, "floors")
		var prevID string
		for _, floorID := range floors {
			id := fmt.Sprintf("%s@%s", connID, floorID)
			// find the tie-in before the connector node enters the graph,
			// so the search cannot resolve to the connector itself
			nearest, dist := v.graph.nearestOn(point.Lat(), point.Lon(), floorID)
			v.graph.addNode(&node{
				ID:      id,
				Lat:     point.Lat(),
				Lng:     point.Lon(),
				FloorID: floorID,
			})
			if nearest != nil {
				v.graph.addEdge(id, nearest.ID, dist)
			}
			if prevID != "" {
				v.graph.addEdge(prevID, id, connectorCost)
			}
			prevID = id
		}
	}

	if len(v.floors) > 0 {
		v.currentFloor = v.floors[0]
	}
	return v, nil
}

// stringSlice reads a JSON array property as a string slice
func stringSlice(props geojson.Properties, key string) []string {
	raw, ok := props[key]
	if !ok {
		return nil
	}
	items, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetByType lists the raw records of one kind
func (v *Venue) GetByType(kind engine.RecordKind) []engine.RawRecord {
	if !kind.IsValid() {
		return nil
	}
	return v.records[kind]
}

// GetDirections computes a walking path between two coordinates. Both ends
// are snapped to the nearest graph node on their floor; when the venue has no
// walk graph the result is the straight-line distance. Returns nil when the
// two ends sit in disconnected parts of the graph.
func (v *Venue) GetDirections(from, to domain.Coordinate) *engine.Directions {
	if len(v.graph.nodes) == 0 {
		dist := utils.Haversine(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
		return &engine.Directions{
			Distance: utils.RoundTo(dist, 2),
			Path:     []domain.Coordinate{from, to},
		}
	}

	startNode, startSnap := v.graph.nearestNode(from.Latitude, from.Longitude, from.FloorID)
	endNode, endSnap := v.graph.nearestNode(to.Latitude, to.Longitude, to.FloorID)
	if startNode == nil || endNode == nil {
		return nil
	}

	if startNode.ID == endNode.ID {
		dist := utils.Haversine(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
		return &engine.Directions{
			Distance: utils.RoundTo(dist, 2),
			Path:     []domain.Coordinate{from, to},
		}
	}

	result := v.graph.shortestPath(startNode.ID, endNode.ID)
	if !result.Found {
		return nil
	}

	path := []domain.Coordinate{from}
	for _, id := range result.Path {
		n := v.graph.nodes[id]
		path = append(path, domain.Coordinate{
			Latitude:  n.Lat,
			Longitude: n.Lng,
			FloorID:   n.FloorID,
		})
	}
	path = append(path, to)

	return &engine.Directions{
		Distance: utils.RoundTo(startSnap+result.Distance+endSnap, 2),
		Path:     path,
	}
}

// GetDirectionsMultiDestination chains per-destination paths in order,
// skipping destinations with no path. Returns nil when nothing is reachable.
func (v *Venue) GetDirectionsMultiDestination(from domain.Coordinate, tos []domain.Coordinate) *engine.Directions {
	combined := &engine.Directions{}
	current := from
	reached := 0
	for _, to := range tos {
		leg := v.GetDirections(current, to)
		if leg == nil {
			continue
		}
		combined.Distance += leg.Distance
		combined.Path = append(combined.Path, leg.Path...)
		current = to
		reached++
	}
	if reached == 0 {
		return nil
	}
	combined.Distance = utils.RoundTo(combined.Distance, 2)
	return combined
}

// CreateCoordinate materializes an engine coordinate
func (v *Venue) CreateCoordinate(lat, lng float64, floorID string) domain.Coordinate {
	return domain.Coordinate{Latitude: lat, Longitude: lng, FloorID: floorID}
}

// DrawNavigation visualizes a computed path
func (v *Venue) DrawNavigation(d *engine.Directions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.drawCount++
	v.lastDrawn = d
}

// AddMarker places a marker for a POI
func (v *Venue) AddMarker(c domain.Coordinate, poiID string, opts engine.MarkerOptions) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers = append(v.markers, MarkerRecord{Coordinate: c, POIID: poiID, Options: opts})
}

// RemoveAllMarkers clears every marker from the view
func (v *Venue) RemoveAllMarkers() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.markers = nil
}

// AddLabel places a text label
func (v *Venue) AddLabel(c domain.Coordinate, text string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.labels = append(v.labels, LabelRecord{Coordinate: c, Text: text})
}

// EnableBlueDot turns on the live position indicator
func (v *Venue) EnableBlueDot(cfg engine.BlueDotConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.blueDotOn = true
}

// UpdateBlueDot moves the live position indicator
func (v *Venue) UpdateBlueDot(loc domain.Location) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.blueDot = loc
}

// SetCamera repositions the camera, switching the displayed floor when the
// target coordinate pins one
func (v *Venue) SetCamera(cfg engine.CameraConfig) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.camera = cfg
	if cfg.Center.FloorID != "" {
		for _, f := range v.floors {
			if f.ID == cfg.Center.FloorID {
				v.currentFloor = f
				break
			}
		}
	}
}

// CurrentFloor returns the floor the view is displaying
func (v *Venue) CurrentFloor() domain.Floor {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.currentFloor
}

// SetCurrentFloor switches the displayed floor, mirroring a user floor change
func (v *Venue) SetCurrentFloor(floorID string) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, f := range v.floors {
		if f.ID == floorID {
			v.currentFloor = f
			return
		}
	}
}

// Markers returns a snapshot of the markers currently placed
func (v *Venue) Markers() []MarkerRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]MarkerRecord, len(v.markers))
	copy(out, v.markers)
	return out
}

// Labels returns a snapshot of the labels currently placed
func (v *Venue) Labels() []LabelRecord {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]LabelRecord, len(v.labels))
	copy(out, v.labels)
	return out
}

// DrawCount returns how many times navigation has been drawn
func (v *Venue) DrawCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.drawCount
}

// LastDrawn returns the most recently drawn directions
func (v *Venue) LastDrawn() *engine.Directions {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.lastDrawn
}
