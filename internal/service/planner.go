package service

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/venuenav/backend/internal/domain"
	"github.com/venuenav/backend/internal/engine"
)

// Planner computes point-to-point and multi-destination routes on top of the
// engine's routing primitive. It is a pure function of the location store and
// registry; every request recomputes from scratch. Concurrent requests are
// not serialized: the last draw to resolve is what stays visualized.
type Planner struct {
	registry *Registry
	store    *LocationStore
	mapData  engine.MapData
	view     engine.MapView
	repo     domain.TelemetryRepository

	wgBg sync.WaitGroup // tracks background telemetry writes for graceful shutdown
}

// NewPlanner creates a new route planner
func NewPlanner(
	registry *Registry,
	store *LocationStore,
	mapData engine.MapData,
	view engine.MapView,
	repo domain.TelemetryRepository,
) *Planner {
	return &Planner{
		registry: registry,
		store:    store,
		mapData:  mapData,
		view:     view,
		repo:     repo,
	}
}

// WaitBackground blocks until all background telemetry writes complete.
// Call during graceful shutdown to avoid dropped writes.
func (p *Planner) WaitBackground() {
	p.wgBg.Wait()
}

// RouteTo plans a route from the current location to one POI. It returns the
// total distance and true on success. Not-found and unreachable collapse into
// the same false result; no visualization happens in that case.
func (p *Planner) RouteTo(targetID string) (float64, bool) {
	start, ok := p.store.Current()
	if !ok {
		log.Printf("planner: no current location, cannot route to %q", targetID)
		return 0, false
	}

	target, ok := p.registry.FindByID(strings.TrimSpace(targetID))
	if !ok {
		log.Printf("planner: unknown POI id %q", targetID)
		return 0, false
	}

	from := p.coordinateFor(start)
	directions := p.mapData.GetDirections(from, target.Coordinate)
	if directions == nil {
		log.Printf("planner: no directions to POI %q", target.ID)
		return 0, false
	}

	p.view.DrawNavigation(directions)
	p.logRoute([]string{targetID}, 1, directions.Distance)
	return directions.Distance, true
}

// RouteToMany treats targetIDs as an ordered itinerary: start to the first
// target, then target to target, accumulating distance leg by leg. Targets
// that cannot be resolved or reached are skipped and the planner continues
// with the rest; the legs completed so far are always returned.
func (p *Planner) RouteToMany(targetIDs []string) domain.Route {
	route := domain.Route{Legs: []domain.RouteLeg{}}

	start, ok := p.store.Current()
	if !ok {
		log.Printf("planner: no current location, cannot route to %d targets", len(targetIDs))
		return route
	}

	from := p.coordinateFor(start)
	for _, id := range targetIDs {
		target, ok := p.registry.FindByID(strings.TrimSpace(id))
		if !ok {
			log.Printf("planner: skipping unknown POI id %q", id)
			continue
		}

		directions := p.mapData.GetDirections(from, target.Coordinate)
		if directions == nil {
			log.Printf("planner: skipping unreachable POI %q", target.ID)
			continue
		}

		p.view.DrawNavigation(directions)
		route.Legs = append(route.Legs, domain.RouteLeg{
			From:     from,
			To:       target,
			Distance: directions.Distance,
		})
		route.TotalDistance += directions.Distance
		from = target.Coordinate
	}

	if len(route.Legs) > 0 {
		p.logRoute(targetIDs, len(route.Legs), route.TotalDistance)
	}
	return route
}

// WithDistances returns the full catalog with the request-scoped distance
// field populated from the current location. With compute false, or when no
// location is set, distances stay at the registry default.
func (p *Planner) WithDistances(compute bool) []domain.POI {
	pois := p.registry.All()
	if !compute {
		return pois
	}

	start, ok := p.store.Current()
	if !ok {
		return pois
	}

	from := p.coordinateFor(start)
	for i := range pois {
		directions := p.mapData.GetDirections(from, pois[i].Coordinate)
		if directions == nil {
			continue
		}
		dist := directions.Distance
		pois[i].Distance = &dist
	}
	return pois
}

// coordinateFor materializes an engine coordinate from a location, attaching
// the floor reference when it pins an explicit floor
func (p *Planner) coordinateFor(loc domain.Location) domain.Coordinate {
	floorID := ""
	if loc.HasFloor() {
		floorID = loc.FloorRef
	}
	return p.view.CreateCoordinate(loc.Latitude, loc.Longitude, floorID)
}

// logRoute persists a route log asynchronously; planning never waits on the
// database
func (p *Planner) logRoute(targetIDs []string, legCount int, totalDistance float64) {
	if p.repo == nil {
		return
	}
	entry := domain.RouteLog{
		RequestID:     uuid.NewString(),
		TargetIDs:     append([]string(nil), targetIDs...),
		LegCount:      legCount,
		TotalDistance: totalDistance,
		Timestamp:     time.Now(),
	}
	p.wgBg.Add(1)
	go func() {
		defer p.wgBg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.repo.SaveRouteLog(ctx, entry); err != nil {
			log.Printf("planner: failed to save route log: %v", err)
		}
	}()
}
