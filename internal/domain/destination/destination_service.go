package destination

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

var _ Service = (*ServiceImpl)(nil)

// Detail is a destination together with its gallery and transport links, the
// shape the destination page renders from.
type Detail struct {
	types.Destination
	Photos []types.DestinationPhoto    `json:"photos"`
	Links  []types.CityDestinationLink `json:"links"`
}

// NearbyResult is one destination within a radius search, annotated with the
// great-circle distance from the query point.
type NearbyResult struct {
	types.Destination
	DistanceKm float64 `json:"distance_km"`
}

// SearchPage is one page of trip search results.
type SearchPage struct {
	Results  []types.TripResult `json:"results"`
	Total    int                `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
}

type Service interface {
	GetAllDestinations(ctx context.Context) ([]types.Destination, error)
	GetDestinationDetail(ctx context.Context, slug string) (*Detail, error)
	CreateDestination(ctx context.Context, params types.CreateDestinationParams) (*types.Destination, error)
	SearchTrips(ctx context.Context, filters types.TripSearchFilters) (*SearchPage, error)
	NearbyDestinations(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbyResult, error)
}

type ServiceImpl struct {
	logger *slog.Logger
	repo   Repository
}

func NewDestinationService(repo Repository, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ServiceImpl) GetAllDestinations(ctx context.Context) ([]types.Destination, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "GetAllDestinations")
	defer span.End()

	destinations, err := s.repo.GetAllActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to retrieve destinations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, fmt.Errorf("failed to retrieve destinations: %w", err)
	}

	span.SetStatus(codes.Ok, "destinations retrieved")
	return destinations, nil
}

func (s *ServiceImpl) GetDestinationDetail(ctx context.Context, slug string) (*Detail, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "GetDestinationDetail",
		trace.WithAttributes(attribute.String("destination.slug", slug)))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetDestinationDetail"), slog.String("slug", slug))

	dest, err := s.repo.GetBySlug(ctx, slug)
	if err != nil {
		l.ErrorContext(ctx, "failed to retrieve destination", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, err
	}

	photos, err := s.repo.GetPhotos(ctx, dest.ID)
	if err != nil {
		l.ErrorContext(ctx, "failed to retrieve photos", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, fmt.Errorf("failed to retrieve photos: %w", err)
	}

	links, err := s.repo.GetLinks(ctx, dest.ID)
	if err != nil {
		l.ErrorContext(ctx, "failed to retrieve links", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, fmt.Errorf("failed to retrieve links: %w", err)
	}

	span.SetStatus(codes.Ok, "destination detail retrieved")
	return &Detail{Destination: *dest, Photos: photos, Links: links}, nil
}

func (s *ServiceImpl) CreateDestination(ctx context.Context, params types.CreateDestinationParams) (*types.Destination, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "CreateDestination")
	defer span.End()

	l := s.logger.With(slog.String("method", "CreateDestination"))

	params.Name = strings.TrimSpace(params.Name)
	if params.Name == "" {
		return nil, fmt.Errorf("%w: destination name is required", types.ErrBadRequest)
	}
	if params.Category == "" {
		return nil, fmt.Errorf("%w: destination category is required", types.ErrBadRequest)
	}
	if params.Slug == "" {
		params.Slug = types.Slugify(params.Name)
	}

	dest, err := s.repo.Create(ctx, params)
	if err != nil {
		l.ErrorContext(ctx, "failed to create destination", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, err
	}

	l.InfoContext(ctx, "destination created",
		slog.String("destination_id", dest.ID.String()),
		slog.String("slug", dest.Slug))
	span.SetStatus(codes.Ok, "destination created")
	return dest, nil
}

func (s *ServiceImpl) SearchTrips(ctx context.Context, filters types.TripSearchFilters) (*SearchPage, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "SearchTrips")
	defer span.End()

	if filters.CityID == uuid.Nil {
		return nil, fmt.Errorf("%w: city_id is required", types.ErrBadRequest)
	}
	if filters.MaxBudget < 0 || filters.MaxTravelTime < 0 {
		return nil, fmt.Errorf("%w: filters must be non-negative", types.ErrBadRequest)
	}
	for _, mode := range filters.TransportModes {
		if mode != types.ModeDriving && mode != types.ModeTransit {
			return nil, fmt.Errorf("%w: unknown transport mode %q", types.ErrBadRequest, mode)
		}
	}
	if filters.Page < 1 {
		filters.Page = 1
	}
	if filters.PageSize < 1 || filters.PageSize > 50 {
		filters.PageSize = 20
	}

	results, total, err := s.repo.SearchTrips(ctx, filters)
	if err != nil {
		s.logger.ErrorContext(ctx, "trip search failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, fmt.Errorf("trip search failed: %w", err)
	}

	span.SetAttributes(attribute.Int("search.total", total))
	span.SetStatus(codes.Ok, "trip search completed")
	return &SearchPage{
		Results:  results,
		Total:    total,
		Page:     filters.Page,
		PageSize: filters.PageSize,
	}, nil
}

// NearbyDestinations filters the active set by great-circle distance. The
// catalog is small enough that an in-memory scan beats maintaining a PostGIS
// dependency for one endpoint.
func (s *ServiceImpl) NearbyDestinations(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbyResult, error) {
	ctx, span := otel.Tracer("DestinationService").Start(ctx, "NearbyDestinations")
	defer span.End()

	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, fmt.Errorf("%w: coordinates out of range", types.ErrBadRequest)
	}
	if radiusKm <= 0 || radiusKm > 1000 {
		radiusKm = 100
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	destinations, err := s.repo.GetAllActive(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to retrieve destinations", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, fmt.Errorf("failed to retrieve destinations: %w", err)
	}

	origin := orb.Point{lng, lat}
	var results []NearbyResult
	for _, d := range destinations {
		km := geo.DistanceHaversine(origin, orb.Point{d.Longitude, d.Latitude}) / 1000
		if km <= radiusKm {
			results = append(results, NearbyResult{
				Destination: d,
				DistanceKm:  math.Round(km*10) / 10,
			})
		}
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DistanceKm < results[j].DistanceKm
	})
	if len(results) > limit {
		results = results[:limit]
	}

	span.SetAttributes(attribute.Int("nearby.count", len(results)))
	span.SetStatus(codes.Ok, "nearby search completed")
	return results, nil
}
