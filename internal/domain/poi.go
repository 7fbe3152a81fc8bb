package domain

// POI represents a normalized point of interest on one floor of the venue.
// Every field is copied out of the raw map-engine record at build time, so
// the value stays valid even after the engine invalidates its own objects.
type POI struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Coordinate  Coordinate `json:"coordinate"`
	FloorID     string     `json:"floorId"`
	FloorName   string     `json:"floorName"`
	Description string     `json:"description,omitempty"`
	Images      []string   `json:"images,omitempty"`
	Links       []string   `json:"links,omitempty"`

	// Distance is request-scoped: populated on demand, nil when not computed
	Distance *float64 `json:"distance"`
}

// Floor is one building level. POIs and locations reference floors by id
// only; the map engine owns floor lifecycle.
type Floor struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RouteLeg is one point-to-point segment of a multi-destination route
type RouteLeg struct {
	From     Coordinate `json:"from"`
	To       POI        `json:"to"`
	Distance float64    `json:"distance"`
}

// Route is the ephemeral result of a planning request, recomputed on every
// call and never persisted
type Route struct {
	Legs          []RouteLeg `json:"routes"`
	TotalDistance float64    `json:"totalDistance"`
}
