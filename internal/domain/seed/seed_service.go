// Package seed implements the destination seeding pipeline: given a city name
// it discovers nearby weekend getaways through the Places API, persists them as
// destinations, and computes transport links and enrichment data for each.
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/theweekendworld-engg/trip-gennie/internal/domain/city"
	"github.com/theweekendworld-engg/trip-gennie/internal/domain/destination"
	"github.com/theweekendworld-engg/trip-gennie/internal/enrich"
	"github.com/theweekendworld-engg/trip-gennie/internal/llm"
	"github.com/theweekendworld-engg/trip-gennie/internal/maps"
	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

// MapsAPI is the slice of the maps client the orchestrator needs.
type MapsAPI interface {
	SearchPlaces(ctx context.Context, query string) ([]maps.PlaceSummary, error)
	GetPlaceDetails(ctx context.Context, placeID string) (*maps.PlaceDetails, error)
	GetDistanceMatrixBatch(ctx context.Context, origins, destinations []maps.Coordinates, mode string) ([]maps.BatchDistance, error)
	GetDirections(ctx context.Context, origin, destination maps.Coordinates, mode string) (*maps.DirectionsResult, error)
	PhotoURL(photoReference string) string
}

var _ MapsAPI = (*maps.Client)(nil)

// WeatherAPI reports current weather and air quality for a coordinate.
// (nil, nil) means the data is unavailable and enrichment should be skipped.
type WeatherAPI interface {
	Current(ctx context.Context, lat, lng float64) (*enrich.WeatherAQI, error)
}

var _ WeatherAPI = (*enrich.MeteoClient)(nil)

type searchCategory struct {
	Term     string
	Category string
}

// The fixed category sweep. Order is part of the run log contract shown to
// admins, so it stays stable.
var searchCategories = []searchCategory{
	{Term: "Hill Stations", Category: types.CategoryHillStation},
	{Term: "Beaches", Category: types.CategoryBeach},
	{Term: "Forts", Category: types.CategoryHistorical},
	{Term: "Waterfalls", Category: types.CategoryNature},
	{Term: "Temples", Category: types.CategorySpiritual},
	{Term: "Wildlife Sanctuaries", Category: types.CategoryWildlife},
	{Term: "Trekking Points", Category: types.CategoryAdventure},
	{Term: "Lakes", Category: types.CategoryNature},
}

// Each category query takes at most this many search results. A deliberate
// cost cap, not exhaustive discovery.
const maxPlacesPerCategory = 5

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	SeedCityNearby(ctx context.Context, cityName string) (*types.SeedRunResult, error)
}

type ServiceImpl struct {
	logger       *slog.Logger
	cities       city.Repository
	destinations destination.Repository
	maps         MapsAPI
	weather      WeatherAPI
	enhancer     llm.SummaryEnhancer
}

func NewSeedService(
	cities city.Repository,
	destinations destination.Repository,
	mapsAPI MapsAPI,
	weather WeatherAPI,
	enhancer llm.SummaryEnhancer,
	logger *slog.Logger,
) *ServiceImpl {
	if enhancer == nil {
		enhancer = llm.NoopEnhancer{}
	}
	return &ServiceImpl{
		logger:       logger,
		cities:       cities,
		destinations: destinations,
		maps:         mapsAPI,
		weather:      weather,
		enhancer:     enhancer,
	}
}

// runLog accumulates the ordered human-readable log returned to the caller.
// It is the only record of why individual places were or were not promoted.
type runLog struct {
	logger *slog.Logger
	lines  []string
}

func (r *runLog) logf(format string, args ...any) {
	line := fmt.Sprintf(format, args...)
	r.logger.Info(line)
	r.lines = append(r.lines, line)
}

func (r *runLog) errorf(err error, format string, args ...any) {
	line := fmt.Sprintf("ERROR: "+format, args...)
	if err != nil {
		line = fmt.Sprintf("%s: %v", line, err)
	}
	r.logger.Error(line, slog.Any("error", err))
	r.lines = append(r.lines, line)
}

// SeedCityNearby runs the full pipeline for one city. Failures resolving the
// city abort the run; every later per-place or per-enrichment failure is
// absorbed into the run log and processing continues.
func (s *ServiceImpl) SeedCityNearby(ctx context.Context, cityName string) (*types.SeedRunResult, error) {
	ctx, span := otel.Tracer("SeedService").Start(ctx, "SeedCityNearby",
		trace.WithAttributes(attribute.String("seed.city_name", cityName)))
	defer span.End()

	l := s.logger.With(slog.String("method", "SeedCityNearby"), slog.String("city", cityName))
	run := &runLog{logger: l}

	run.logf("🌱 Seeding nearby weekend getaways for: %s", cityName)

	c, err := s.resolveCity(ctx, run, cityName)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "city resolution failed")
		return nil, err
	}

	cityCenter := maps.Coordinates{Lat: c.Latitude, Lng: c.Longitude}
	totalCreated := 0

	for _, cat := range searchCategories {
		created, err := s.seedCategory(ctx, run, c, cityCenter, cat)
		if err != nil {
			run.errorf(err, "Seeding failed")
			span.RecordError(err)
			span.SetStatus(codes.Error, "category sweep failed")
			return nil, err
		}
		totalCreated += created
	}

	run.logf("✅ Nearby seeding complete!")

	span.SetAttributes(attribute.Int("seed.destinations_created", totalCreated))
	span.SetStatus(codes.Ok, "seeding complete")

	return &types.SeedRunResult{
		CityID:              c.ID,
		CityName:            c.Name,
		DestinationsCreated: totalCreated,
		Logs:                run.lines,
	}, nil
}

// resolveCity finds the city by name or derived slug, falling back to a remote
// place search that creates the city record. A city that cannot be resolved
// makes the whole run meaningless, so failure here propagates.
func (s *ServiceImpl) resolveCity(ctx context.Context, run *runLog, cityName string) (*types.City, error) {
	c, err := s.cities.FindByNameOrSlug(ctx, cityName)
	if err != nil {
		return nil, fmt.Errorf("failed to look up city: %w", err)
	}
	if c != nil {
		run.logf("✅ Found existing city: %s", c.Name)
		return c, nil
	}

	run.logf("City %s not found in DB. Searching Google Maps...", cityName)

	results, err := s.maps.SearchPlaces(ctx, cityName)
	if err != nil {
		return nil, fmt.Errorf("city search failed: %w", err)
	}
	if len(results) == 0 {
		run.errorf(nil, "❌ Could not find city: %s", cityName)
		return nil, fmt.Errorf("could not find city: %s", cityName)
	}

	found := results[0]
	c, err = s.cities.Create(ctx, found.Name, types.CitySlug(found.Name), "Unknown",
		found.Location.Lat, found.Location.Lng)
	if err != nil {
		return nil, fmt.Errorf("failed to create city: %w", err)
	}

	run.logf("✅ Created city: %s", c.Name)
	return c, nil
}

// seedCategory runs one category sweep: discovery, dedup, creation, batch
// distances, and per-destination enrichment. Returns the number of new
// destinations created.
func (s *ServiceImpl) seedCategory(ctx context.Context, run *runLog, c *types.City, cityCenter maps.Coordinates, cat searchCategory) (int, error) {
	query := fmt.Sprintf("%s near %s", cat.Term, c.Name)
	run.logf("🔍 Searching for: %s", query)

	places, err := s.maps.SearchPlaces(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("search for %q failed: %w", query, err)
	}
	run.logf("   -> Found %d potential places", len(places))

	if len(places) > maxPlacesPerCategory {
		places = places[:maxPlacesPerCategory]
	}

	created := 0
	var batch []*types.Destination

	for _, place := range places {
		if isSelfMatch(place.Name, c.Name) {
			continue
		}

		slug := types.Slugify(place.Name)
		existing, err := s.destinations.FindBySlug(ctx, slug)
		if err != nil {
			return created, fmt.Errorf("failed to check destination slug: %w", err)
		}

		if existing != nil {
			run.logf("   -> Skipping %s (already exists)", place.Name)

			// Previously seeded elsewhere: still link it to this city.
			linked, err := s.destinations.HasLink(ctx, c.ID, existing.ID)
			if err != nil {
				return created, fmt.Errorf("failed to check city link: %w", err)
			}
			if !linked {
				batch = append(batch, existing)
			}
			continue
		}

		dest, err := s.createDestination(ctx, c, cat, place, slug)
		if err != nil {
			run.errorf(err, "   -> Failed to process %s", place.Name)
			continue
		}

		run.logf("   -> Created destination: %s", dest.Name)
		batch = append(batch, dest)
		created++
	}

	if len(batch) == 0 {
		return created, nil
	}

	run.logf("   -> Calculating travel times for %d places...", len(batch))

	coords := make([]maps.Coordinates, len(batch))
	for i, d := range batch {
		coords[i] = maps.Coordinates{Lat: d.Latitude, Lng: d.Longitude}
	}

	driving, err := s.maps.GetDistanceMatrixBatch(ctx, []maps.Coordinates{cityCenter}, coords, types.ModeDriving)
	if err != nil {
		return created, fmt.Errorf("driving distance batch failed: %w", err)
	}
	transit, err := s.maps.GetDistanceMatrixBatch(ctx, []maps.Coordinates{cityCenter}, coords, types.ModeTransit)
	if err != nil {
		return created, fmt.Errorf("transit distance batch failed: %w", err)
	}

	for i, dest := range batch {
		if err := s.enrichAndLink(ctx, run, c, cityCenter, dest, elementAt(driving, i), elementAt(transit, i)); err != nil {
			return created, err
		}
	}

	return created, nil
}

// isSelfMatch reports whether a candidate is the city itself. Names containing
// "beach" are kept even when they also contain the city name, since beaches
// are routinely named after the nearest town.
func isSelfMatch(placeName, cityName string) bool {
	name := strings.ToLower(placeName)
	return strings.Contains(name, strings.ToLower(cityName)) && !strings.Contains(name, "beach")
}

// createDestination fetches details and persists a new destination with up to
// three photos. One bad place must never abort the category, so the caller
// treats any error here as a logged skip.
func (s *ServiceImpl) createDestination(ctx context.Context, c *types.City, cat searchCategory, place maps.PlaceSummary, slug string) (*types.Destination, error) {
	details, err := s.maps.GetPlaceDetails(ctx, place.PlaceID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch place details: %w", err)
	}

	term := strings.ToLower(cat.Term)
	summary := details.EditorialSummary
	if summary == "" {
		summary = fmt.Sprintf("A beautiful %s near %s.", term, c.Name)
	}
	if s.enhancer.Enabled() {
		if enhanced, err := s.enhancer.EnhanceSummary(ctx, place.Name, c.Name, details.EditorialSummary); err == nil && enhanced != "" {
			summary = enhanced
		}
	}

	var imageURL string
	if len(details.Photos) > 0 {
		imageURL = s.maps.PhotoURL(details.Photos[0].PhotoReference)
	}

	dest, err := s.destinations.Create(ctx, types.CreateDestinationParams{
		Name:              place.Name,
		Slug:              slug,
		Category:          cat.Category,
		ShortSummary:      fmt.Sprintf("Famous %s known for its scenic beauty.", term),
		AiEnhancedSummary: summary,
		Latitude:          place.Location.Lat,
		Longitude:         place.Location.Lng,
		ImageURL:          imageURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create destination: %w", err)
	}

	photos := details.Photos
	if len(photos) > 3 {
		photos = photos[:3]
	}
	for i, photo := range photos {
		var attribution string
		if len(photo.HTMLAttributions) > 0 {
			attribution = photo.HTMLAttributions[0]
		}
		if err := s.destinations.SavePhoto(ctx, types.DestinationPhoto{
			DestinationID:  dest.ID,
			PhotoURL:       s.maps.PhotoURL(photo.PhotoReference),
			PhotoReference: photo.PhotoReference,
			Width:          photo.Width,
			Height:         photo.Height,
			Attribution:    attribution,
			IsPrimary:      i == 0,
		}); err != nil {
			return nil, fmt.Errorf("failed to save photo: %w", err)
		}
	}

	return dest, nil
}

// enrichAndLink updates one destination's live data and upserts its transport
// links. Links are only written for positive distances; a destination with no
// usable distance in either mode silently ends up unlinked for this city.
func (s *ServiceImpl) enrichAndLink(ctx context.Context, run *runLog, c *types.City, cityCenter maps.Coordinates, dest *types.Destination, driving, transit maps.BatchDistance) error {
	var weatherInfo *types.WeatherInfo
	var airQuality *types.AirQuality

	realData, err := s.weather.Current(ctx, dest.Latitude, dest.Longitude)
	if err != nil || realData == nil {
		run.logf("Failed to fetch OpenMeteo data, using fallback")
	} else {
		weatherInfo = &realData.Weather
		airQuality = &realData.AQI
	}

	best := enrich.BestVisitTime(dest.Category)

	if err := s.destinations.UpdateLiveInfo(ctx, dest.ID, weatherInfo, airQuality, &best); err != nil {
		return fmt.Errorf("failed to update destination live info: %w", err)
	}

	if driving.OK && driving.DistanceKm > 0 {
		var route *maps.DirectionsResult
		route, err = s.maps.GetDirections(ctx, cityCenter,
			maps.Coordinates{Lat: dest.Latitude, Lng: dest.Longitude}, types.ModeDriving)
		if err != nil {
			run.logf("Failed to get directions")
			route = nil
		}

		fare := enrich.EstimateFare(types.ModeDriving, driving.DistanceKm, nil)
		params := types.UpsertLinkParams{
			CityID:                 c.ID,
			DestinationID:          dest.ID,
			TransportMode:          types.ModeDriving,
			DistanceKm:             driving.DistanceKm,
			TravelTimeMinutes:      driving.DurationMinutes,
			EstimatedFuelCost:      fare.Fare["total"],
			EstimatedTransportCost: fare.Fare["taxi"],
			FareDetails:            fare.Fare,
			BookingLinks:           fare.Links,
		}
		if route != nil {
			params.RoutePolyline = route.Polyline
			params.MajorWaypoints = route.Waypoints
		}
		if err := s.destinations.UpsertLink(ctx, params); err != nil {
			return fmt.Errorf("failed to upsert driving link: %w", err)
		}
	}

	if transit.OK && transit.DistanceKm > 0 {
		var transitFare *enrich.TransitFare
		if transit.Fare != nil {
			transitFare = &enrich.TransitFare{Value: transit.Fare.Value}
		}

		fare := enrich.EstimateFare(types.ModeTransit, transit.DistanceKm, transitFare)
		cost := fare.Fare["train"]
		if cost == 0 {
			cost = fare.Fare["bus"]
		}

		if err := s.destinations.UpsertLink(ctx, types.UpsertLinkParams{
			CityID:                 c.ID,
			DestinationID:          dest.ID,
			TransportMode:          types.ModeTransit,
			DistanceKm:             transit.DistanceKm,
			TravelTimeMinutes:      transit.DurationMinutes,
			EstimatedTransportCost: cost,
			FareDetails:            fare.Fare,
			BookingLinks:           fare.Links,
		}); err != nil {
			return fmt.Errorf("failed to upsert transit link: %w", err)
		}
	}

	return nil
}

func elementAt(results []maps.BatchDistance, i int) maps.BatchDistance {
	if i < len(results) {
		return results[i]
	}
	return maps.BatchDistance{}
}
