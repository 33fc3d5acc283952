package city

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	GetAllCities(ctx context.Context) ([]types.City, error)
	GetCityBySlug(ctx context.Context, slug string) (*types.City, error)
	CreateCity(ctx context.Context, params types.CreateCityParams) (*types.City, error)
}

const allCitiesCacheKey = "cities:all"

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
	cache  *cache.Cache
}

func NewCityService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
		cache:  cache.New(5*time.Minute, 10*time.Minute),
	}
}

// GetAllCities returns all active cities, cached briefly since the list only
// changes on admin action.
func (s *ServiceImpl) GetAllCities(ctx context.Context) ([]types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetAllCities")
	defer span.End()

	if cached, found := s.cache.Get(allCitiesCacheKey); found {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached.([]types.City), nil
	}

	l := s.logger.With(slog.String("method", "GetAllCities"))

	cities, err := s.repo.GetAllActive(ctx)
	if err != nil {
		l.ErrorContext(ctx, "failed to retrieve cities", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, fmt.Errorf("failed to retrieve cities: %w", err)
	}

	s.cache.Set(allCitiesCacheKey, cities, cache.DefaultExpiration)
	span.SetAttributes(attribute.Int("cities.count", len(cities)))
	span.SetStatus(codes.Ok, "cities retrieved")

	return cities, nil
}

func (s *ServiceImpl) GetCityBySlug(ctx context.Context, slug string) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "GetCityBySlug")
	defer span.End()
	span.SetAttributes(attribute.String("city.slug", slug))

	c, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, err
	}

	span.SetStatus(codes.Ok, "city retrieved")
	return c, nil
}

// CreateCity handles manual admin entry. The slug is derived from the name; a
// duplicate surfaces as ErrConflict for the route layer to map to HTTP 409.
func (s *ServiceImpl) CreateCity(ctx context.Context, params types.CreateCityParams) (*types.City, error) {
	ctx, span := otel.Tracer("CityService").Start(ctx, "CreateCity")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateCity"))

	if params.Name == "" {
		return nil, fmt.Errorf("city name is required: %w", types.ErrBadRequest)
	}
	state := params.State
	if state == "" {
		state = "Unknown"
	}

	c, err := s.repo.Create(ctx, params.Name, types.CitySlug(params.Name), state,
		params.Latitude, params.Longitude)
	if err != nil {
		l.ErrorContext(ctx, "failed to create city",
			slog.Any("error", err),
			slog.String("name", params.Name))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, err
	}

	s.cache.Delete(allCitiesCacheKey)
	span.SetAttributes(attribute.String("city.id", c.ID.String()))
	span.SetStatus(codes.Ok, "city created")

	return c, nil
}
