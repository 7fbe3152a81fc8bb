package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/venuenav/backend/internal/bridge"
	httpdelivery "github.com/venuenav/backend/internal/delivery/http"
	"github.com/venuenav/backend/internal/domain"
	"github.com/venuenav/backend/internal/engine"
	"github.com/venuenav/backend/internal/engine/inmem"
	"github.com/venuenav/backend/internal/repository/postgres"
	"github.com/venuenav/backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Configuration
	cfg := loadConfig()

	// Database connection
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Dependency Injection: Repositories
	repo, pool := newTelemetryRepository(ctx, cfg.DatabaseURL)
	if pool != nil {
		defer pool.Close()
	}

	// Map engine: a failed load is fatal to this render attempt only — the
	// server still comes up, but the bridge never opens and every bridge
	// call degrades to a null/empty result.
	venue, err := inmem.LoadVenue(cfg.VenueFile)
	if err != nil {
		log.Printf("Warning: Could not load venue %q: %v", cfg.VenueFile, err)
		log.Println("Bridge will stay closed")
	}

	// Dependency Injection: Services
	store := service.NewLocationStore()
	registry := service.NewRegistry()
	planner := service.NewPlanner(registry, store, venue, venue, repo)
	markers := service.NewMarkerPolicy(registry, venue)
	notifier := bridge.NewHostNotifier(cfg.HostCallbackURL)
	b := bridge.New(store, registry, planner, markers, venue, repo, notifier)

	feed := service.NewFeed(store, venue, time.Duration(cfg.FeedIntervalMS)*time.Millisecond)

	if venue != nil {
		if _, err := registry.BuildFromRaw(venue.GetByType(engine.KindPOI)); err != nil {
			log.Printf("Warning: %v", err)
		}
		registry.BuildFloors(venue.GetByType(engine.KindFloor))
		log.Printf("Venue loaded: %d POIs on %d floors",
			len(registry.All()), len(registry.Floors()))

		venue.EnableBlueDot(engine.BlueDotConfig{ShowAccuracyRing: true})
		markers.Annotate(venue.CurrentFloor().ID, nil)
		markers.LabelFloor(venue.CurrentFloor().ID)

		b.MarkReady()

		if cfg.FeedMode == "sim" {
			feed.Start(context.Background())
		}
	}

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "VenueNav API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	// Routes
	httpdelivery.SetupRoutes(app, b, repo)

	// Graceful shutdown
	go func() {
		port := cfg.Port
		if port == "" {
			port = "8080"
		}
		log.Printf("Server starting on :%s", port)
		if err := app.Listen(":" + port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if cfg.FeedMode == "sim" && venue != nil {
		feed.Stop()
	}
	planner.WaitBackground()
	b.WaitBackground()
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited gracefully")
}

// newTelemetryRepository selects the postgres repository only when a database
// is configured and reachable; pgxpool.New alone just parses the DSN and
// connects lazily, so the pool is pinged before it is trusted
func newTelemetryRepository(ctx context.Context, databaseURL string) (domain.TelemetryRepository, *pgxpool.Pool) {
	if databaseURL == "" {
		log.Println("No DATABASE_URL set, running with in-memory telemetry only")
		return postgres.NewMockRepository(), nil
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err == nil {
		err = pool.Ping(ctx)
	}
	if err != nil {
		log.Printf("Warning: Could not connect to database: %v", err)
		log.Println("Running with in-memory telemetry only")
		if pool != nil {
			pool.Close()
		}
		return postgres.NewMockRepository(), nil
	}

	log.Println("Connected to PostgreSQL")
	return postgres.NewPostgresRepository(pool), pool
}

type Config struct {
	DatabaseURL     string
	VenueFile       string
	HostCallbackURL string
	FeedMode        string
	FeedIntervalMS  int
	Port            string
	Env             string
}

func loadConfig() *Config {
	interval, err := strconv.Atoi(getEnv("FEED_INTERVAL_MS", "2000"))
	if err != nil {
		interval = 2000
	}
	return &Config{
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		VenueFile:       getEnv("VENUE_FILE", "venue.geojson"),
		HostCallbackURL: getEnv("HOST_CALLBACK_URL", ""),
		FeedMode:        getEnv("FEED_MODE", "host"),
		FeedIntervalMS:  interval,
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("GO_ENV", "development"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
