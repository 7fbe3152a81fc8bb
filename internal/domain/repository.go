package domain

import (
	"context"
	"time"
)

// RouteLog records one completed route-planning request
type RouteLog struct {
	RequestID     string    `json:"request_id"`
	TargetIDs     []string  `json:"target_ids"`
	LegCount      int       `json:"leg_count"`
	TotalDistance float64   `json:"total_distance"`
	Timestamp     time.Time `json:"timestamp"`
}

// LocationSample records one location update pushed into the store
type LocationSample struct {
	Location  Location  `json:"location"`
	Source    string    `json:"source"` // "host"
	Timestamp time.Time `json:"timestamp"`
}

// TelemetryRepository defines the interface for telemetry persistence
// This follows the Dependency Inversion Principle - domain defines the interface
type TelemetryRepository interface {
	// SaveRouteLog persists a completed route request
	SaveRouteLog(ctx context.Context, log RouteLog) error

	// SaveLocationSample persists a pushed location update
	SaveLocationSample(ctx context.Context, sample LocationSample) error

	// GetRecentRouteLogs retrieves the most recent route requests
	GetRecentRouteLogs(ctx context.Context, limit int) ([]RouteLog, error)

	// Health checks database connectivity
	Health(ctx context.Context) error
}
