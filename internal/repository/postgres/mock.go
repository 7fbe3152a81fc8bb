package postgres

import (
	"context"
	"sync"

	"github.com/venuenav/backend/internal/domain"
)

// MockRepository implements domain.TelemetryRepository for testing/demo mode,
// keeping telemetry in memory
type MockRepository struct {
	mu        sync.Mutex
	routeLogs []domain.RouteLog
	samples   []domain.LocationSample
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SaveRouteLog stores a route log in memory
func (r *MockRepository) SaveRouteLog(ctx context.Context, entry domain.RouteLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routeLogs = append(r.routeLogs, entry)
	return nil
}

// SaveLocationSample stores a location sample in memory
func (r *MockRepository) SaveLocationSample(ctx context.Context, sample domain.LocationSample) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, sample)
	return nil
}

// GetRecentRouteLogs returns the most recent route logs, newest first
func (r *MockRepository) GetRecentRouteLogs(ctx context.Context, limit int) ([]domain.RouteLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []domain.RouteLog
	for i := len(r.routeLogs) - 1; i >= 0 && len(results) < limit; i-- {
		results = append(results, r.routeLogs[i])
	}
	return results, nil
}

// Health is always healthy in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
