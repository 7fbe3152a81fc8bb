// Package bridge is the protocol surface between the web layer and the
// native host. It owns no data; it translates inbound host calls into
// orchestration operations and returns plain serializable values. Nothing
// ever throws past this boundary: faults degrade to nil or empty results
// plus a diagnostic log, because the native caller cannot catch errors.
package bridge

import (
	"context"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/venuenav/backend/internal/domain"
	"github.com/venuenav/backend/internal/engine"
	"github.com/venuenav/backend/internal/service"
)

// Bridge is the registry of host-facing operations. It is handed to the
// embedding shell after initialization instead of being assigned onto a
// shared global namespace, so the "only valid after async init" hazard is
// explicit: calls arriving before MarkReady are dropped with a log.
type Bridge struct {
	store    *service.LocationStore
	registry *service.Registry
	planner  *service.Planner
	markers  *service.MarkerPolicy
	view     engine.MapView
	repo     domain.TelemetryRepository
	notifier Notifier

	ready atomic.Bool
	wgBg  sync.WaitGroup
}

// WaitBackground blocks until in-flight telemetry writes finish. Called
// during shutdown so samples are not dropped.
func (b *Bridge) WaitBackground() {
	b.wgBg.Wait()
}

// New creates the bridge. The bridge stays closed until MarkReady.
func New(
	store *service.LocationStore,
	registry *service.Registry,
	planner *service.Planner,
	markers *service.MarkerPolicy,
	view engine.MapView,
	repo domain.TelemetryRepository,
	notifier Notifier,
) *Bridge {
	return &Bridge{
		store:    store,
		registry: registry,
		planner:  planner,
		markers:  markers,
		view:     view,
		repo:     repo,
		notifier: notifier,
	}
}

// MarkReady opens the bridge and fires the map-initialized signal. The
// signal fires exactly once no matter how often MarkReady is called.
func (b *Bridge) MarkReady() {
	if !b.ready.CompareAndSwap(false, true) {
		return
	}
	log.Println("bridge: map initialized, bridge open")
	if b.notifier == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.notifier.NotifyMapReady(ctx); err != nil {
			log.Printf("bridge: %v", err)
		}
	}()
}

// Ready reports whether the map finished initializing
func (b *Bridge) Ready() bool {
	return b.ready.Load()
}

// SendLocation pushes a location from the host into the store, moves the
// BlueDot and optionally centers the camera on it
func (b *Bridge) SendLocation(loc domain.Location, center bool) {
	if !b.ready.Load() {
		log.Println("bridge: dropped location update, map not ready")
		return
	}

	b.store.Update(loc)
	b.view.UpdateBlueDot(loc)
	if center {
		floorID := ""
		if loc.HasFloor() {
			floorID = loc.FloorRef
		}
		b.view.SetCamera(engine.CameraConfig{
			Center: b.view.CreateCoordinate(loc.Latitude, loc.Longitude, floorID),
		})
	}

	if b.repo != nil {
		sample := domain.LocationSample{Location: loc, Source: "host", Timestamp: time.Now()}
		b.wgBg.Add(1)
		go func() {
			defer b.wgBg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := b.repo.SaveLocationSample(ctx, sample); err != nil {
				log.Printf("bridge: failed to save location sample: %v", err)
			}
		}()
	}
}

// NavigateToPOI plans and draws a route to one POI. Returns the total
// distance, or nil when the id is unknown, the target is unreachable, no
// location is set yet, or the map is not ready.
func (b *Bridge) NavigateToPOI(poiID string) *float64 {
	if !b.ready.Load() {
		log.Printf("bridge: dropped navigate to %q, map not ready", poiID)
		return nil
	}
	distance, ok := b.planner.RouteTo(poiID)
	if !ok {
		return nil
	}
	return &distance
}

// NavigateToMultiplePOIs plans an ordered itinerary. Unknown or unreachable
// targets are omitted; the result covers the resolvable legs only.
func (b *Bridge) NavigateToMultiplePOIs(poiIDs []string) domain.Route {
	if !b.ready.Load() {
		log.Printf("bridge: dropped navigate to %d targets, map not ready", len(poiIDs))
		return domain.Route{Legs: []domain.RouteLeg{}}
	}
	return b.planner.RouteToMany(poiIDs)
}

// AllPOIs returns the full catalog across all floors. With withDistance the
// request-scoped distance field is computed from the current location.
func (b *Bridge) AllPOIs(withDistance bool) []domain.POI {
	if !b.ready.Load() {
		log.Println("bridge: dropped POI listing, map not ready")
		return []domain.POI{}
	}
	return b.planner.WithDistances(withDistance)
}

// AllFloors returns the floor list
func (b *Bridge) AllFloors() []domain.Floor {
	if !b.ready.Load() {
		log.Println("bridge: dropped floor listing, map not ready")
		return []domain.Floor{}
	}
	return b.registry.Floors()
}

// CurrentFloorID returns the id of the displayed floor, nil before readiness
func (b *Bridge) CurrentFloorID() *string {
	if !b.ready.Load() {
		return nil
	}
	id := b.view.CurrentFloor().ID
	return &id
}

// HighlightPOIs re-annotates the displayed floor highlighting only the given
// ids. An empty list restores the default annotation for the floor.
func (b *Bridge) HighlightPOIs(poiIDs []string) {
	if !b.ready.Load() {
		log.Println("bridge: dropped highlight request, map not ready")
		return
	}
	highlight := make(map[string]struct{}, len(poiIDs))
	for _, id := range poiIDs {
		highlight[id] = struct{}{}
	}
	b.markers.Annotate(b.view.CurrentFloor().ID, highlight)
}
