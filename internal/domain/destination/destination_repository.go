package destination

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
	"github.com/theweekendworld-engg/trip-gennie/pkg/db"
)

var _ Repository = (*RepositoryImpl)(nil)

// Repository covers destinations, their photos, and the city-destination
// transport links, which always change together during seeding.
type Repository interface {
	// FindBySlug returns (nil, nil) when no destination has the slug.
	FindBySlug(ctx context.Context, slug string) (*types.Destination, error)
	GetBySlug(ctx context.Context, slug string) (*types.Destination, error)
	GetAllActive(ctx context.Context) ([]types.Destination, error)
	Create(ctx context.Context, params types.CreateDestinationParams) (*types.Destination, error)
	UpdateLiveInfo(ctx context.Context, id uuid.UUID, weather *types.WeatherInfo, aqi *types.AirQuality, best *types.BestVisitTime) error

	SavePhoto(ctx context.Context, photo types.DestinationPhoto) error
	GetPhotos(ctx context.Context, destinationID uuid.UUID) ([]types.DestinationPhoto, error)

	HasLink(ctx context.Context, cityID, destinationID uuid.UUID) (bool, error)
	UpsertLink(ctx context.Context, params types.UpsertLinkParams) error
	GetLinks(ctx context.Context, destinationID uuid.UUID) ([]types.CityDestinationLink, error)

	SearchTrips(ctx context.Context, filters types.TripSearchFilters) ([]types.TripResult, int, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pool   db.Querier
}

func NewRepository(pool db.Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pool:   pool,
	}
}

const destinationColumns = `id, name, slug, category, short_summary,
    COALESCE(ai_enhanced_summary, ''), latitude, longitude, COALESCE(image_url, ''),
    weather_info, air_quality, best_visit_time, is_active, created_at, updated_at`

func scanDestination(row pgx.Row) (*types.Destination, error) {
	var d types.Destination
	var weather, aqi, best []byte

	err := row.Scan(&d.ID, &d.Name, &d.Slug, &d.Category, &d.ShortSummary,
		&d.AiEnhancedSummary, &d.Latitude, &d.Longitude, &d.ImageURL,
		&weather, &aqi, &best, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if len(weather) > 0 {
		if err := json.Unmarshal(weather, &d.WeatherInfo); err != nil {
			return nil, fmt.Errorf("failed to decode weather snapshot: %w", err)
		}
	}
	if len(aqi) > 0 {
		if err := json.Unmarshal(aqi, &d.AirQuality); err != nil {
			return nil, fmt.Errorf("failed to decode air quality snapshot: %w", err)
		}
	}
	if len(best) > 0 {
		if err := json.Unmarshal(best, &d.BestVisitTime); err != nil {
			return nil, fmt.Errorf("failed to decode best visit time: %w", err)
		}
	}

	return &d, nil
}

func (r *RepositoryImpl) FindBySlug(ctx context.Context, slug string) (*types.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE slug = $1`

	d, err := scanDestination(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find destination '%s': %w", slug, err)
	}

	return d, nil
}

func (r *RepositoryImpl) GetBySlug(ctx context.Context, slug string) (*types.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE slug = $1 AND is_active = TRUE`

	d, err := scanDestination(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("destination '%s': %w", slug, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get destination '%s': %w", slug, err)
	}

	return d, nil
}

func (r *RepositoryImpl) GetAllActive(ctx context.Context) ([]types.Destination, error) {
	query := `SELECT ` + destinationColumns + ` FROM destinations WHERE is_active = TRUE ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query destinations: %w", err)
	}
	defer rows.Close()

	var destinations []types.Destination
	for rows.Next() {
		d, err := scanDestination(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan destination row: %w", err)
		}
		destinations = append(destinations, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating destination rows: %w", err)
	}

	return destinations, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, params types.CreateDestinationParams) (*types.Destination, error) {
	l := r.logger.With(slog.String("method", "Create"))

	query := `
        INSERT INTO destinations (
            name, slug, category, short_summary, ai_enhanced_summary,
            latitude, longitude, image_url, is_active
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE)
        RETURNING ` + destinationColumns + `
    `

	d, err := scanDestination(r.pool.QueryRow(ctx, query,
		params.Name, params.Slug, params.Category, params.ShortSummary,
		NewNullString(params.AiEnhancedSummary),
		params.Latitude, params.Longitude, NewNullString(params.ImageURL),
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("destination '%s': %w", params.Slug, types.ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert destination '%s': %w", params.Name, err)
	}

	l.InfoContext(ctx, "destination created",
		slog.String("destination_id", d.ID.String()),
		slog.String("slug", d.Slug))
	return d, nil
}

func (r *RepositoryImpl) UpdateLiveInfo(ctx context.Context, id uuid.UUID, weather *types.WeatherInfo, aqi *types.AirQuality, best *types.BestVisitTime) error {
	query := `
        UPDATE destinations
        SET weather_info = COALESCE($2::jsonb, weather_info),
            air_quality = COALESCE($3::jsonb, air_quality),
            best_visit_time = COALESCE($4::jsonb, best_visit_time),
            updated_at = NOW()
        WHERE id = $1
    `

	var weatherJSON, aqiJSON, bestJSON any
	if weather != nil {
		data, err := json.Marshal(weather)
		if err != nil {
			return fmt.Errorf("failed to marshal weather snapshot: %w", err)
		}
		weatherJSON = string(data)
	}
	if aqi != nil {
		data, err := json.Marshal(aqi)
		if err != nil {
			return fmt.Errorf("failed to marshal air quality snapshot: %w", err)
		}
		aqiJSON = string(data)
	}
	if best != nil {
		data, err := json.Marshal(best)
		if err != nil {
			return fmt.Errorf("failed to marshal best visit time: %w", err)
		}
		bestJSON = string(data)
	}

	result, err := r.pool.Exec(ctx, query, id, weatherJSON, aqiJSON, bestJSON)
	if err != nil {
		return fmt.Errorf("failed to update destination live info: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("destination %s: %w", id, types.ErrNotFound)
	}

	return nil
}

func (r *RepositoryImpl) SavePhoto(ctx context.Context, photo types.DestinationPhoto) error {
	query := `
        INSERT INTO destination_photos (
            destination_id, photo_url, photo_reference, width, height, attribution, is_primary
        ) VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.pool.Exec(ctx, query,
		photo.DestinationID, photo.PhotoURL, NewNullString(photo.PhotoReference),
		photo.Width, photo.Height, NewNullString(photo.Attribution), photo.IsPrimary)
	if err != nil {
		return fmt.Errorf("failed to insert destination photo: %w", err)
	}

	return nil
}

func (r *RepositoryImpl) GetPhotos(ctx context.Context, destinationID uuid.UUID) ([]types.DestinationPhoto, error) {
	query := `
        SELECT id, destination_id, photo_url, COALESCE(photo_reference, ''),
               width, height, COALESCE(attribution, ''), is_primary
        FROM destination_photos
        WHERE destination_id = $1
        ORDER BY is_primary DESC, id
    `

	rows, err := r.pool.Query(ctx, query, destinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query destination photos: %w", err)
	}
	defer rows.Close()

	var photos []types.DestinationPhoto
	for rows.Next() {
		var p types.DestinationPhoto
		if err := rows.Scan(&p.ID, &p.DestinationID, &p.PhotoURL, &p.PhotoReference,
			&p.Width, &p.Height, &p.Attribution, &p.IsPrimary); err != nil {
			return nil, fmt.Errorf("failed to scan photo row: %w", err)
		}
		photos = append(photos, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photo rows: %w", err)
	}

	return photos, nil
}

// NewNullString converts empty strings to NULL for database insertion.
func NewNullString(s string) any {
	if len(s) == 0 {
		return nil
	}
	return s
}
