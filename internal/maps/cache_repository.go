package maps

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/theweekendworld-engg/trip-gennie/pkg/db"
)

// CachedDistance is one row of the distance matrix cache, kept in raw meters
// and seconds so rounding happens in exactly one place.
type CachedDistance struct {
	Origin          Coordinates
	Destination     Coordinates
	Mode            string
	DistanceMeters  int
	DurationSeconds int
	DistanceText    string
	DurationText    string
}

// CacheRepository persists the two paid-lookup caches. Both are pure
// memoization layers: append-only, never invalidated. A (nil, nil) return
// means cache miss.
type CacheRepository interface {
	GetDistance(ctx context.Context, origin, destination Coordinates, mode string) (*CachedDistance, error)
	SaveDistance(ctx context.Context, entry CachedDistance) error
	GetPlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error)
	SavePlaceDetails(ctx context.Context, details PlaceDetails) error
}

var _ CacheRepository = (*PostgresCacheRepository)(nil)

// PostgresCacheRepository stores the lookup caches in Postgres.
type PostgresCacheRepository struct {
	logger *slog.Logger
	pool   db.Querier
}

func NewPostgresCacheRepository(pool db.Querier, logger *slog.Logger) *PostgresCacheRepository {
	return &PostgresCacheRepository{
		logger: logger,
		pool:   pool,
	}
}

func (r *PostgresCacheRepository) GetDistance(ctx context.Context, origin, destination Coordinates, mode string) (*CachedDistance, error) {
	query := `
        SELECT distance_meters, duration_seconds,
               COALESCE(distance_text, ''), COALESCE(duration_text, '')
        FROM distance_matrix_cache
        WHERE origin_lat = $1 AND origin_lng = $2
          AND destination_lat = $3 AND destination_lng = $4
          AND transport_mode = $5
    `

	entry := CachedDistance{Origin: origin, Destination: destination, Mode: mode}
	err := r.pool.QueryRow(ctx, query,
		origin.Lat, origin.Lng, destination.Lat, destination.Lng, mode,
	).Scan(&entry.DistanceMeters, &entry.DurationSeconds, &entry.DistanceText, &entry.DurationText)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read distance cache: %w", err)
	}

	return &entry, nil
}

func (r *PostgresCacheRepository) SaveDistance(ctx context.Context, entry CachedDistance) error {
	query := `
        INSERT INTO distance_matrix_cache (
            origin_lat, origin_lng, destination_lat, destination_lng,
            transport_mode, distance_meters, duration_seconds, distance_text, duration_text
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (origin_lat, origin_lng, destination_lat, destination_lng, transport_mode)
        DO NOTHING
    `

	_, err := r.pool.Exec(ctx, query,
		entry.Origin.Lat, entry.Origin.Lng,
		entry.Destination.Lat, entry.Destination.Lng,
		entry.Mode, entry.DistanceMeters, entry.DurationSeconds,
		NewNullString(entry.DistanceText), NewNullString(entry.DurationText),
	)
	if err != nil {
		return fmt.Errorf("failed to write distance cache: %w", err)
	}
	return nil
}

func (r *PostgresCacheRepository) GetPlaceDetails(ctx context.Context, placeID string) (json.RawMessage, error) {
	query := `SELECT full_response FROM places_cache WHERE place_id = $1`

	var raw json.RawMessage
	err := r.pool.QueryRow(ctx, query, placeID).Scan(&raw)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read places cache: %w", err)
	}

	return raw, nil
}

func (r *PostgresCacheRepository) SavePlaceDetails(ctx context.Context, details PlaceDetails) error {
	query := `
        INSERT INTO places_cache (
            place_id, name, formatted_address, rating, user_ratings_total, full_response
        ) VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (place_id) DO NOTHING
    `

	var rating sql.NullFloat64
	if details.Rating != 0 {
		rating = sql.NullFloat64{Float64: details.Rating, Valid: true}
	}

	_, err := r.pool.Exec(ctx, query,
		details.PlaceID, details.Name,
		NewNullString(details.FormattedAddress),
		rating, details.UserRatingsTotal, details.Raw,
	)
	if err != nil {
		return fmt.Errorf("failed to write places cache: %w", err)
	}
	return nil
}

// NewNullString converts empty strings to NULL for database insertion.
func NewNullString(s string) sql.NullString {
	if len(s) == 0 {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
