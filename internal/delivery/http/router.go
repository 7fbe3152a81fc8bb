package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/venuenav/backend/internal/bridge"
	"github.com/venuenav/backend/internal/domain"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, b *bridge.Bridge, repo domain.TelemetryRepository) {
	handler := NewHandler(b, repo)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// API v1 routes — the host bridge protocol over REST
	api := app.Group("/api/v1")
	{
		// Inbound host calls
		api.Post("/location", handler.SendLocation)
		api.Post("/navigate", handler.NavigateToPOI)
		api.Post("/navigate/multi", handler.NavigateToMultiplePOIs)
		api.Get("/pois", handler.GetAllPOIs)
		api.Post("/pois/highlight", handler.HighlightPOIs)
		api.Get("/floors", handler.GetAllFloors)
		api.Get("/floors/current", handler.GetCurrentFloor)

		// Telemetry
		api.Get("/telemetry/routes", handler.GetRouteLogs)
	}
}
