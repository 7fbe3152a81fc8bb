package domain

// FloorRefDevice is the sentinel floor reference meaning "infer from context"
const FloorRefDevice = "device"

// Location represents the most recent known device position.
// FloorRef disambiguates vertically stacked floors at the same lat/long;
// empty or FloorRefDevice means the floor is inferred by the map engine.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	FloorRef  string  `json:"floorOrFloorId,omitempty"`
}

// HasFloor reports whether the location pins an explicit floor
func (l Location) HasFloor() bool {
	return l.FloorRef != "" && l.FloorRef != FloorRefDevice
}

// Coordinate is a geographic position on one floor of the venue
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	FloorID   string  `json:"floorId,omitempty"`
}
