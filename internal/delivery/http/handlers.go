package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venuenav/backend/internal/bridge"
	"github.com/venuenav/backend/internal/domain"
)

// Handler contains all HTTP handlers
type Handler struct {
	bridge *bridge.Bridge
	repo   domain.TelemetryRepository
}

// NewHandler creates a new handler
func NewHandler(b *bridge.Bridge, repo domain.TelemetryRepository) *Handler {
	return &Handler{bridge: b, repo: repo}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "ok",
		"service":  "venuenav-backend",
		"version":  "1.0.0",
		"mapReady": h.bridge.Ready(),
	})
}

// locationRequest is the inbound location push payload
type locationRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Accuracy  float64 `json:"accuracy"`
	FloorRef  string  `json:"floorOrFloorId"`
	Center    bool    `json:"center"`
}

// SendLocation pushes a host location update into the store
func (h *Handler) SendLocation(c *fiber.Ctx) error {
	var req locationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	h.bridge.SendLocation(domain.Location{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Accuracy:  req.Accuracy,
		FloorRef:  req.FloorRef,
	}, req.Center)

	return c.JSON(fiber.Map{
		"success": h.bridge.Ready(),
	})
}

// navigateRequest is the single-destination navigation payload
type navigateRequest struct {
	POIID string `json:"poiId"`
}

// NavigateToPOI plans a route to one POI and returns its distance, or null
func (h *Handler) NavigateToPOI(c *fiber.Ctx) error {
	var req navigateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	distance := h.bridge.NavigateToPOI(req.POIID)
	return c.JSON(fiber.Map{
		"success":  distance != nil,
		"distance": distance,
	})
}

// navigateMultiRequest is the multi-destination navigation payload
type navigateMultiRequest struct {
	POIIDs []string `json:"poiIds"`
}

// NavigateToMultiplePOIs plans an ordered itinerary across several POIs
func (h *Handler) NavigateToMultiplePOIs(c *fiber.Ctx) error {
	var req navigateMultiRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	route := h.bridge.NavigateToMultiplePOIs(req.POIIDs)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    route,
	})
}

// GetAllPOIs returns the POI catalog across all floors
func (h *Handler) GetAllPOIs(c *fiber.Ctx) error {
	withDistance := c.QueryBool("withDistance", false)
	pois := h.bridge.AllPOIs(withDistance)
	return c.JSON(fiber.Map{
		"success": true,
		"data":    pois,
		"count":   len(pois),
	})
}

// GetAllFloors returns the floor list
func (h *Handler) GetAllFloors(c *fiber.Ctx) error {
	floors := h.bridge.AllFloors()
	return c.JSON(fiber.Map{
		"success": true,
		"data":    floors,
		"count":   len(floors),
	})
}

// GetCurrentFloor returns the id of the displayed floor, or null
func (h *Handler) GetCurrentFloor(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"floorId": h.bridge.CurrentFloorID(),
	})
}

// highlightRequest is the marker highlight payload
type highlightRequest struct {
	POIIDs []string `json:"poiIds"`
}

// HighlightPOIs re-annotates the displayed floor with the given highlights
func (h *Handler) HighlightPOIs(c *fiber.Ctx) error {
	var req highlightRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	h.bridge.HighlightPOIs(req.POIIDs)
	return c.JSON(fiber.Map{
		"success": h.bridge.Ready(),
	})
}

// GetRouteLogs returns recent route-planning telemetry
func (h *Handler) GetRouteLogs(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	logs, err := h.repo.GetRecentRouteLogs(c.Context(), limit)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch route logs")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    logs,
		"count":   len(logs),
	})
}
