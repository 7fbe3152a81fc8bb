package service

import (
	"context"
	"testing"
	"time"

	"github.com/venuenav/backend/internal/domain"
	"github.com/venuenav/backend/internal/engine"
	"github.com/venuenav/backend/internal/repository/postgres"
	"github.com/venuenav/backend/pkg/utils"
)

// fakeView records view calls; shared by the planner and marker policy tests
type fakeView struct {
	draws    int
	markers  []fakeMarker
	removals int
	labels   []string
	blueDots []domain.Location
	cameras  []engine.CameraConfig
	floor    domain.Floor
}

type fakeMarker struct {
	poiID string
	opts  engine.MarkerOptions
}

func (v *fakeView) CreateCoordinate(lat, lng float64, floorID string) domain.Coordinate {
	return domain.Coordinate{Latitude: lat, Longitude: lng, FloorID: floorID}
}

func (v *fakeView) DrawNavigation(d *engine.Directions) { v.draws++ }

func (v *fakeView) AddMarker(c domain.Coordinate, poiID string, opts engine.MarkerOptions) {
	v.markers = append(v.markers, fakeMarker{poiID: poiID, opts: opts})
}

func (v *fakeView) RemoveAllMarkers() {
	v.removals++
	v.markers = nil
}

func (v *fakeView) AddLabel(c domain.Coordinate, text string) {
	v.labels = append(v.labels, text)
}

func (v *fakeView) EnableBlueDot(cfg engine.BlueDotConfig) {}

func (v *fakeView) UpdateBlueDot(loc domain.Location) {
	v.blueDots = append(v.blueDots, loc)
}

func (v *fakeView) SetCamera(cfg engine.CameraConfig) {
	v.cameras = append(v.cameras, cfg)
}

func (v *fakeView) CurrentFloor() domain.Floor { return v.floor }

// fakeMapData answers directions with the straight-line distance, except for
// destinations marked unreachable
type fakeMapData struct {
	unreachable map[domain.Coordinate]bool
	lastFrom    domain.Coordinate
}

func (m *fakeMapData) GetByType(kind engine.RecordKind) []engine.RawRecord { return nil }

func (m *fakeMapData) GetDirections(from, to domain.Coordinate) *engine.Directions {
	m.lastFrom = from
	if m.unreachable[to] {
		return nil
	}
	dist := utils.Haversine(from.Latitude, from.Longitude, to.Latitude, to.Longitude)
	return &engine.Directions{Distance: dist, Path: []domain.Coordinate{from, to}}
}

func (m *fakeMapData) GetDirectionsMultiDestination(from domain.Coordinate, tos []domain.Coordinate) *engine.Directions {
	combined := &engine.Directions{}
	for _, to := range tos {
		leg := m.GetDirections(from, to)
		if leg == nil {
			continue
		}
		combined.Distance += leg.Distance
		combined.Path = append(combined.Path, leg.Path...)
		from = to
	}
	if len(combined.Path) == 0 {
		return nil
	}
	return combined
}

func plannerFixture() (*Planner, *LocationStore, *fakeView, *fakeMapData) {
	registry := NewRegistry()
	registry.BuildFromRaw([]engine.RawRecord{
		{ID: "gate-3", Name: "Gate 3", Latitude: 50.1050, Longitude: 8.5720, FloorID: "f1"},
		{ID: "valid-1", Name: "Info Desk", Latitude: 50.1055, Longitude: 8.6713, FloorID: "f1"},
		{ID: "valid-2", Name: "Pharmacy", Latitude: 50.1058, Longitude: 8.6720, FloorID: "f2"},
		{ID: "blocked-1", Name: "Closed Wing", Latitude: 50.1060, Longitude: 8.6730, FloorID: "f2"},
	})

	store := NewLocationStore()
	view := &fakeView{floor: domain.Floor{ID: "f1", Name: "Ground Floor"}}
	mapData := &fakeMapData{unreachable: map[domain.Coordinate]bool{
		{Latitude: 50.1060, Longitude: 8.6730, FloorID: "f2"}: true,
	}}
	planner := NewPlanner(registry, store, mapData, view, nil)
	return planner, store, view, mapData
}

func TestRouteTo_NoCurrentLocation(t *testing.T) {
	planner, _, view, _ := plannerFixture()

	if _, ok := planner.RouteTo("gate-3"); ok {
		t.Fatal("expected routing without a location to fail fast")
	}
	if view.draws != 0 {
		t.Fatalf("expected no visualization, got %d draws", view.draws)
	}
}

func TestRouteTo_UnknownTargetIsNotFound(t *testing.T) {
	planner, store, view, _ := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})

	if _, ok := planner.RouteTo("gate-99"); ok {
		t.Fatal("expected unknown target to report not-found")
	}
	if view.draws != 0 {
		t.Fatalf("expected no visualization side effect, got %d draws", view.draws)
	}
}

func TestRouteTo_FrankfurtGateScenario(t *testing.T) {
	planner, store, view, _ := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})

	distance, ok := planner.RouteTo("gate-3")
	if !ok {
		t.Fatal("expected route to gate-3 to succeed")
	}
	if distance < 0 {
		t.Fatalf("expected non-negative distance, got %f", distance)
	}
	if view.draws != 1 {
		t.Fatalf("expected exactly one visualization call, got %d", view.draws)
	}
}

func TestRouteTo_TrimsTargetWhitespace(t *testing.T) {
	planner, store, _, _ := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})

	if _, ok := planner.RouteTo("  gate-3  "); !ok {
		t.Fatal("expected whitespace around the target id to be ignored")
	}
}

func TestRouteTo_UnreachableMergesWithNotFound(t *testing.T) {
	planner, store, view, _ := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})

	if _, ok := planner.RouteTo("blocked-1"); ok {
		t.Fatal("expected unreachable target to report the not-found signal")
	}
	if view.draws != 0 {
		t.Fatalf("expected no visualization for unreachable target, got %d draws", view.draws)
	}
}

func TestRouteTo_AttachesFloorReference(t *testing.T) {
	planner, store, _, mapData := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5, FloorRef: "f1"})

	planner.RouteTo("gate-3")
	if mapData.lastFrom.FloorID != "f1" {
		t.Fatalf("expected the start floor reference to reach the engine, got %q", mapData.lastFrom.FloorID)
	}

	// The "device" sentinel means infer from context: no floor is attached
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5, FloorRef: domain.FloorRefDevice})
	planner.RouteTo("gate-3")
	if mapData.lastFrom.FloorID != "" {
		t.Fatalf("expected no floor for the device sentinel, got %q", mapData.lastFrom.FloorID)
	}
}

func TestRouteToMany_SkipsUnresolvableTargets(t *testing.T) {
	planner, store, _, _ := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})

	route := planner.RouteToMany([]string{"valid-1", "missing-1"})
	if len(route.Legs) != 1 {
		t.Fatalf("expected 1 leg, got %d", len(route.Legs))
	}
	if route.Legs[0].To.ID != "valid-1" {
		t.Fatalf("expected the resolvable leg, got %q", route.Legs[0].To.ID)
	}
	if route.TotalDistance != route.Legs[0].Distance {
		t.Fatalf("total %f does not match single leg %f", route.TotalDistance, route.Legs[0].Distance)
	}
}

func TestRouteToMany_LegsChainInOrder(t *testing.T) {
	planner, store, view, _ := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})

	route := planner.RouteToMany([]string{"valid-1", "valid-2"})
	if len(route.Legs) != 2 {
		t.Fatalf("expected 2 legs, got %d", len(route.Legs))
	}
	if route.Legs[0].To.ID != "valid-1" || route.Legs[1].To.ID != "valid-2" {
		t.Fatalf("legs out of order: %q then %q", route.Legs[0].To.ID, route.Legs[1].To.ID)
	}
	if route.Legs[1].From != route.Legs[0].To.Coordinate {
		t.Fatal("second leg must start where the first leg ended")
	}
	want := route.Legs[0].Distance + route.Legs[1].Distance
	if route.TotalDistance != want {
		t.Fatalf("expected total %f, got %f", want, route.TotalDistance)
	}
	if view.draws != 2 {
		t.Fatalf("expected one draw per leg, got %d", view.draws)
	}
}

func TestRouteToMany_UnreachableLegIsSkippedNotFatal(t *testing.T) {
	planner, store, _, _ := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})

	route := planner.RouteToMany([]string{"blocked-1", "valid-1"})
	if len(route.Legs) != 1 {
		t.Fatalf("expected the unreachable leg to be skipped, got %d legs", len(route.Legs))
	}
	if route.Legs[0].To.ID != "valid-1" {
		t.Fatalf("expected planner to continue past the blocked target, got %q", route.Legs[0].To.ID)
	}
}

func TestRouteToMany_NoLocationReturnsEmptyRoute(t *testing.T) {
	planner, _, _, _ := plannerFixture()

	route := planner.RouteToMany([]string{"valid-1"})
	if len(route.Legs) != 0 || route.TotalDistance != 0 {
		t.Fatalf("expected empty route, got %+v", route)
	}
}

func TestWithDistances_DefaultWhenNotComputed(t *testing.T) {
	planner, store, _, _ := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})

	for _, poi := range planner.WithDistances(false) {
		if poi.Distance != nil {
			t.Fatalf("expected registry default distance for %q", poi.ID)
		}
	}
}

func TestWithDistances_ComputedForReachablePOIs(t *testing.T) {
	planner, store, _, _ := plannerFixture()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})

	for _, poi := range planner.WithDistances(true) {
		if poi.ID == "blocked-1" {
			if poi.Distance != nil {
				t.Fatal("unreachable POI must keep the default distance")
			}
			continue
		}
		if poi.Distance == nil {
			t.Fatalf("expected computed distance for %q", poi.ID)
		}
		if *poi.Distance < 0 {
			t.Fatalf("expected non-negative distance for %q, got %f", poi.ID, *poi.Distance)
		}
	}
}

func TestWithDistances_NoLocationLeavesDefaults(t *testing.T) {
	planner, _, _, _ := plannerFixture()

	for _, poi := range planner.WithDistances(true) {
		if poi.Distance != nil {
			t.Fatalf("expected default distance without a location for %q", poi.ID)
		}
	}
}

func TestPlanner_LogsRouteTelemetry(t *testing.T) {
	registry := NewRegistry()
	registry.BuildFromRaw([]engine.RawRecord{
		{ID: "gate-3", Name: "Gate 3", Latitude: 50.1050, Longitude: 8.5720, FloorID: "f1"},
	})
	store := NewLocationStore()
	store.Update(domain.Location{Latitude: 50.1057, Longitude: 8.6713, Accuracy: 5})
	repo := postgres.NewMockRepository()
	planner := NewPlanner(registry, store, &fakeMapData{}, &fakeView{}, repo)

	if _, ok := planner.RouteTo("gate-3"); !ok {
		t.Fatal("expected route to succeed")
	}
	planner.WaitBackground()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	logs, err := repo.GetRecentRouteLogs(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 route log, got %d", len(logs))
	}
	if logs[0].RequestID == "" || logs[0].LegCount != 1 {
		t.Fatalf("unexpected route log: %+v", logs[0])
	}
}
