package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venuenav/backend/internal/domain"
)

// PostgresRepository implements domain.TelemetryRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SaveRouteLog persists a route request to PostgreSQL
func (r *PostgresRepository) SaveRouteLog(ctx context.Context, entry domain.RouteLog) error {
	query := `
		INSERT INTO route_logs (
			request_id, target_ids, leg_count, total_distance, created_at
		) VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.RequestID, entry.TargetIDs, entry.LegCount, entry.TotalDistance, entry.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save route log: %w", err)
	}

	return nil
}

// SaveLocationSample persists a pushed location update to PostgreSQL
func (r *PostgresRepository) SaveLocationSample(ctx context.Context, sample domain.LocationSample) error {
	query := `
		INSERT INTO location_samples (
			latitude, longitude, accuracy, floor_ref, source, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.pool.Exec(ctx, query,
		sample.Location.Latitude, sample.Location.Longitude, sample.Location.Accuracy,
		sample.Location.FloorRef, sample.Source, sample.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save location sample: %w", err)
	}

	return nil
}

// GetRecentRouteLogs retrieves the most recent route requests from PostgreSQL
func (r *PostgresRepository) GetRecentRouteLogs(ctx context.Context, limit int) ([]domain.RouteLog, error) {
	query := `
		SELECT request_id, target_ids, leg_count, total_distance, created_at
		FROM route_logs
		ORDER BY created_at DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query route logs: %w", err)
	}
	defer rows.Close()

	var results []domain.RouteLog
	for rows.Next() {
		var entry domain.RouteLog
		err := rows.Scan(
			&entry.RequestID, &entry.TargetIDs, &entry.LegCount, &entry.TotalDistance, &entry.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan route log row: %w", err)
		}
		results = append(results, entry)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}
