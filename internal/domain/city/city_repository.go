package city

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
	"github.com/theweekendworld-engg/trip-gennie/pkg/db"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	// FindByNameOrSlug matches case-insensitively on name or on the derived
	// slug. Returns (nil, nil) when no city matches.
	FindByNameOrSlug(ctx context.Context, name string) (*types.City, error)
	// GetBySlug returns an active city by its unique slug.
	GetBySlug(ctx context.Context, slug string) (*types.City, error)
	GetAllActive(ctx context.Context) ([]types.City, error)
	Create(ctx context.Context, name, slug, state string, lat, lng float64) (*types.City, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pool   db.Querier
}

func NewCityRepository(pool db.Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pool:   pool,
	}
}

const cityColumns = `id, name, slug, state, latitude, longitude, is_active, created_at, updated_at`

func scanCity(row pgx.Row) (*types.City, error) {
	var c types.City
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.State, &c.Latitude, &c.Longitude,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *RepositoryImpl) FindByNameOrSlug(ctx context.Context, name string) (*types.City, error) {
	query := `
        SELECT ` + cityColumns + `
        FROM cities
        WHERE LOWER(name) = LOWER($1) OR LOWER(slug) = LOWER($2)
        LIMIT 1
    `

	c, err := scanCity(r.pool.QueryRow(ctx, query, name, types.CitySlug(name)))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find city '%s': %w", name, err)
	}

	return c, nil
}

func (r *RepositoryImpl) GetBySlug(ctx context.Context, slug string) (*types.City, error) {
	query := `
        SELECT ` + cityColumns + `
        FROM cities
        WHERE slug = $1 AND is_active = TRUE
    `

	c, err := scanCity(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("city '%s': %w", slug, types.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get city by slug '%s': %w", slug, err)
	}

	return c, nil
}

func (r *RepositoryImpl) GetAllActive(ctx context.Context) ([]types.City, error) {
	query := `
        SELECT ` + cityColumns + `
        FROM cities
        WHERE is_active = TRUE
        ORDER BY name ASC
    `

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cities: %w", err)
	}
	defer rows.Close()

	var cities []types.City
	for rows.Next() {
		var c types.City
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.State, &c.Latitude, &c.Longitude,
			&c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan city row: %w", err)
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating city rows: %w", err)
	}

	return cities, nil
}

func (r *RepositoryImpl) Create(ctx context.Context, name, slug, state string, lat, lng float64) (*types.City, error) {
	l := r.logger.With(slog.String("method", "Create"))

	query := `
        INSERT INTO cities (name, slug, state, latitude, longitude, is_active)
        VALUES ($1, $2, $3, $4, $5, TRUE)
        RETURNING ` + cityColumns + `
    `

	c, err := scanCity(r.pool.QueryRow(ctx, query, name, slug, state, lat, lng))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, fmt.Errorf("city '%s': %w", slug, types.ErrConflict)
		}
		return nil, fmt.Errorf("failed to insert city '%s': %w", name, err)
	}

	l.InfoContext(ctx, "city created",
		slog.String("city_id", c.ID.String()),
		slog.String("slug", c.Slug))
	return c, nil
}
