package service

import (
	"errors"
	"log"
	"strings"

	"github.com/venuenav/backend/internal/domain"
	"github.com/venuenav/backend/internal/engine"
)

// ErrNoMapData is reported when the registry is built without a raw source
var ErrNoMapData = errors.New("registry: no raw map data available")

// Registry is the flat, floor-aware catalog of points of interest. Every
// field consumed downstream is copied out of the raw engine records at build
// time, so the catalog stays valid even after the engine invalidates its own
// objects on a floor change.
type Registry struct {
	pois   []domain.POI
	byID   map[string]int
	floors []domain.Floor
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]int)}
}

// BuildFromRaw normalizes the raw POI records into the catalog and returns
// it. A nil source yields an empty catalog and ErrNoMapData.
func (r *Registry) BuildFromRaw(raw []engine.RawRecord) ([]domain.POI, error) {
	r.pois = make([]domain.POI, 0, len(raw))
	r.byID = make(map[string]int, len(raw))

	if raw == nil {
		return r.pois, ErrNoMapData
	}

	for _, rec := range raw {
		poi := domain.POI{
			ID:   rec.ID,
			Name: rec.Name,
			Coordinate: domain.Coordinate{
				Latitude:  rec.Latitude,
				Longitude: rec.Longitude,
				FloorID:   rec.FloorID,
			},
			FloorID:     rec.FloorID,
			FloorName:   rec.FloorName,
			Description: rec.Description,
			Images:      append([]string(nil), rec.Images...),
			Links:       append([]string(nil), rec.Links...),
		}
		if _, dup := r.byID[poi.ID]; !dup {
			r.byID[poi.ID] = len(r.pois)
		}
		r.pois = append(r.pois, poi)
	}
	return r.All(), nil
}

// BuildFloors normalizes the raw floor records
func (r *Registry) BuildFloors(raw []engine.RawRecord) []domain.Floor {
	r.floors = make([]domain.Floor, 0, len(raw))
	for _, rec := range raw {
		r.floors = append(r.floors, domain.Floor{ID: rec.ID, Name: rec.Name})
	}
	return r.Floors()
}

// FindByID looks up a POI by exact id after trimming incidental whitespace
func (r *Registry) FindByID(id string) (domain.POI, bool) {
	idx, ok := r.byID[strings.TrimSpace(id)]
	if !ok {
		return domain.POI{}, false
	}
	return r.pois[idx], true
}

// FindByName looks up a POI by case-insensitive exact name. Duplicate names
// resolve to the first match; this legacy path is lossy.
func (r *Registry) FindByName(name string) (domain.POI, bool) {
	for _, poi := range r.pois {
		if strings.EqualFold(poi.Name, name) {
			return poi, true
		}
	}
	log.Printf("registry: no POI named %q", name)
	return domain.POI{}, false
}

// ForFloor returns the POIs on one floor, in catalog order
func (r *Registry) ForFloor(floorID string) []domain.POI {
	var out []domain.POI
	for _, poi := range r.pois {
		if poi.FloorID == floorID {
			out = append(out, poi)
		}
	}
	return out
}

// All returns a copy of the full catalog
func (r *Registry) All() []domain.POI {
	out := make([]domain.POI, len(r.pois))
	copy(out, r.pois)
	return out
}

// Floors returns a copy of the floor list
func (r *Registry) Floors() []domain.Floor {
	out := make([]domain.Floor, len(r.floors))
	copy(out, r.floors)
	return out
}
