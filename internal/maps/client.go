// Package maps mediates all Google Maps Platform calls: text search, place
// details, pairwise and batch distance lookups, directions, and geocoding.
// Paid lookups with stable cache keys go through a persistent cache so repeat
// seeding runs do not bill the same lookup twice.
package maps

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

const (
	defaultBaseURL = "https://maps.googleapis.com"

	// Field list requested from the place details endpoint. Fixed so the
	// cached payload shape is stable.
	placeDetailsFields = "name,formatted_address,rating,user_ratings_total,types," +
		"opening_hours,website,formatted_phone_number,reviews,photos,editorial_summary,geometry"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"
)

// Client is the Geo/Places client. All remote access in the application goes
// through it.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	cacheRepo  CacheRepository
	hot        *gocache.Cache
	logger     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL overrides the remote endpoint, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.httpClient = httpClient }
}

// NewClient creates a maps client. A missing API key is tolerated here;
// operations that need a remote call fail with ErrMissingAPIKey when invoked.
func NewClient(apiKey string, cacheRepo CacheRepository, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cacheRepo:  cacheRepo,
		hot:        gocache.New(30*time.Minute, time.Hour),
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if apiKey == "" {
		logger.Warn("GOOGLE_MAPS_API_KEY not set; uncached lookups will fail")
	}
	return c
}

// PhotoURL builds the public photo URL for a place photo reference.
func (c *Client) PhotoURL(photoReference string) string {
	return fmt.Sprintf("%s/maps/api/place/photo?maxwidth=800&photoreference=%s&key=%s",
		c.baseURL, url.QueryEscape(photoReference), c.apiKey)
}

// --- raw response shapes -----------------------------------------------------

type rawLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type rawGeometry struct {
	Location rawLocation `json:"location"`
}

type rawValueText struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

type searchResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID          string      `json:"place_id"`
		Name             string      `json:"name"`
		FormattedAddress string      `json:"formatted_address"`
		Geometry         rawGeometry `json:"geometry"`
		Rating           float64     `json:"rating"`
		Types            []string    `json:"types"`
	} `json:"results"`
}

type detailsResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
}

type matrixResponse struct {
	Status string `json:"status"`
	Rows   []struct {
		Elements []struct {
			Status   string       `json:"status"`
			Distance rawValueText `json:"distance"`
			Duration rawValueText `json:"duration"`
			Fare     *FareValue   `json:"fare,omitempty"`
		} `json:"elements"`
	} `json:"rows"`
}

type directionsResponse struct {
	Status string `json:"status"`
	Routes []struct {
		OverviewPolyline struct {
			Points string `json:"points"`
		} `json:"overview_polyline"`
		Legs []struct {
			Distance      rawValueText `json:"distance"`
			Duration      rawValueText `json:"duration"`
			StartLocation rawLocation  `json:"start_location"`
			EndLocation   rawLocation  `json:"end_location"`
			Steps         []struct {
				HTMLInstructions string      `json:"html_instructions"`
				EndLocation      rawLocation `json:"end_location"`
			} `json:"steps"`
		} `json:"legs"`
	} `json:"routes"`
}

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		Geometry rawGeometry `json:"geometry"`
	} `json:"results"`
}

// --- operations --------------------------------------------------------------

// SearchPlaces runs a free-text search. Queries are high-cardinality so no
// cache sits in front of this call. ZERO_RESULTS is an empty, valid outcome.
func (c *Client) SearchPlaces(ctx context.Context, query string) ([]PlaceSummary, error) {
	ctx, span := otel.Tracer("MapsClient").Start(ctx, "SearchPlaces")
	defer span.End()
	span.SetAttributes(attribute.String("maps.query", query))

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("key", c.apiKey)

	var resp searchResponse
	if err := c.getJSON(ctx, "/maps/api/place/textsearch/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "search request failed")
		return nil, err
	}

	if resp.Status != statusOK && resp.Status != statusZeroResults {
		err := &RemoteError{API: "places search", Status: resp.Status}
		span.RecordError(err)
		span.SetStatus(codes.Error, "remote status not ok")
		return nil, err
	}

	summaries := make([]PlaceSummary, 0, len(resp.Results))
	for _, r := range resp.Results {
		summaries = append(summaries, PlaceSummary{
			PlaceID:          r.PlaceID,
			Name:             r.Name,
			FormattedAddress: r.FormattedAddress,
			Location:         Coordinates{Lat: r.Geometry.Location.Lat, Lng: r.Geometry.Location.Lng},
			Rating:           r.Rating,
			Types:            r.Types,
		})
	}

	span.SetAttributes(attribute.Int("maps.results", len(summaries)))
	return summaries, nil
}

// GetPlaceDetails returns the narrowed details for a place, serving from the
// permanent cache when possible. Place metadata changes slowly relative to
// this system's lifetime, so cached entries never expire.
func (c *Client) GetPlaceDetails(ctx context.Context, placeID string) (*PlaceDetails, error) {
	ctx, span := otel.Tracer("MapsClient").Start(ctx, "GetPlaceDetails")
	defer span.End()
	span.SetAttributes(attribute.String("maps.place_id", placeID))

	hotKey := "place:" + placeID
	if cached, found := c.hot.Get(hotKey); found {
		span.SetAttributes(attribute.Bool("maps.cached", true))
		return cached.(*PlaceDetails), nil
	}

	raw, err := c.cacheRepo.GetPlaceDetails(ctx, placeID)
	if err != nil {
		c.logger.WarnContext(ctx, "place cache read failed, falling back to remote",
			slog.Any("error", err))
	}
	if raw != nil {
		details, err := parsePlaceDetails(placeID, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse cached place details: %w", err)
		}
		c.hot.Set(hotKey, details, gocache.DefaultExpiration)
		span.SetAttributes(attribute.Bool("maps.cached", true))
		return details, nil
	}

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", placeDetailsFields)
	params.Set("key", c.apiKey)

	var resp detailsResponse
	if err := c.getJSON(ctx, "/maps/api/place/details/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "details request failed")
		return nil, err
	}

	if resp.Status != statusOK {
		err := &RemoteError{API: "places details", Status: resp.Status}
		span.RecordError(err)
		span.SetStatus(codes.Error, "remote status not ok")
		return nil, err
	}

	details, err := parsePlaceDetails(placeID, resp.Result)
	if err != nil {
		return nil, fmt.Errorf("failed to parse place details: %w", err)
	}

	if err := c.cacheRepo.SavePlaceDetails(ctx, *details); err != nil {
		// A cache write failure costs a repeat lookup later, nothing more.
		c.logger.WarnContext(ctx, "failed to persist place details cache", slog.Any("error", err))
	}
	c.hot.Set(hotKey, details, gocache.DefaultExpiration)

	return details, nil
}

// GetDistanceMatrix looks up distance and duration for a single pair, serving
// from the persistent cache keyed by exact coordinates and mode.
func (c *Client) GetDistanceMatrix(ctx context.Context, origin, destination Coordinates, mode string) (*DistanceResult, error) {
	ctx, span := otel.Tracer("MapsClient").Start(ctx, "GetDistanceMatrix")
	defer span.End()
	span.SetAttributes(attribute.String("maps.mode", mode))

	cached, err := c.cacheRepo.GetDistance(ctx, origin, destination, mode)
	if err != nil {
		c.logger.WarnContext(ctx, "distance cache read failed, falling back to remote",
			slog.Any("error", err))
	}
	if cached != nil {
		span.SetAttributes(attribute.Bool("maps.cached", true))
		return &DistanceResult{
			DistanceKm:      roundMetersToKm(cached.DistanceMeters),
			DurationMinutes: roundSecondsToMinutes(cached.DurationSeconds),
			Cached:          true,
		}, nil
	}

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("origins", origin.String())
	params.Set("destinations", destination.String())
	params.Set("mode", mode)
	params.Set("key", c.apiKey)

	var resp matrixResponse
	if err := c.getJSON(ctx, "/maps/api/distancematrix/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "distance matrix request failed")
		return nil, err
	}

	if resp.Status != statusOK {
		err := &RemoteError{API: "distance matrix", Status: resp.Status}
		span.RecordError(err)
		span.SetStatus(codes.Error, "remote status not ok")
		return nil, err
	}

	if len(resp.Rows) == 0 || len(resp.Rows[0].Elements) == 0 {
		return nil, ErrNoRoute
	}
	element := resp.Rows[0].Elements[0]
	if element.Status != statusOK {
		return nil, ErrNoRoute
	}

	entry := CachedDistance{
		Origin:          origin,
		Destination:     destination,
		Mode:            mode,
		DistanceMeters:  element.Distance.Value,
		DurationSeconds: element.Duration.Value,
		DistanceText:    element.Distance.Text,
		DurationText:    element.Duration.Text,
	}
	if err := c.cacheRepo.SaveDistance(ctx, entry); err != nil {
		c.logger.WarnContext(ctx, "failed to persist distance cache", slog.Any("error", err))
	}

	return &DistanceResult{
		DistanceKm:      roundMetersToKm(element.Distance.Value),
		DurationMinutes: roundSecondsToMinutes(element.Duration.Value),
		Cached:          false,
	}, nil
}

// GetDistanceMatrixBatch resolves one origin against many destinations in a
// single remote call. It deliberately bypasses the pairwise cache: seeding
// always wants current data for freshly discovered places, and the batch call
// is the cost-control mechanism, not the cache. Elements the remote could not
// route get OK=false with zero placeholders; the batch never aborts on them.
func (c *Client) GetDistanceMatrixBatch(ctx context.Context, origins, destinations []Coordinates, mode string) ([]BatchDistance, error) {
	ctx, span := otel.Tracer("MapsClient").Start(ctx, "GetDistanceMatrixBatch")
	defer span.End()
	span.SetAttributes(
		attribute.String("maps.mode", mode),
		attribute.Int("maps.destinations", len(destinations)),
	)

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("origins", joinCoordinates(origins))
	params.Set("destinations", joinCoordinates(destinations))
	params.Set("mode", mode)
	params.Set("key", c.apiKey)

	var resp matrixResponse
	if err := c.getJSON(ctx, "/maps/api/distancematrix/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "batch distance matrix request failed")
		return nil, err
	}

	if resp.Status != statusOK {
		err := &RemoteError{API: "distance matrix", Status: resp.Status}
		span.RecordError(err)
		span.SetStatus(codes.Error, "remote status not ok")
		return nil, err
	}

	var results []BatchDistance
	if len(resp.Rows) > 0 {
		for _, element := range resp.Rows[0].Elements {
			if element.Status == statusOK {
				results = append(results, BatchDistance{
					DistanceKm:      roundMetersToKm(element.Distance.Value),
					DurationMinutes: roundSecondsToMinutes(element.Duration.Value),
					Fare:            element.Fare,
					OK:              true,
				})
			} else {
				results = append(results, BatchDistance{OK: false})
			}
		}
	}

	return results, nil
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// GetDirections fetches a route and extracts the overview polyline plus a
// down-sampled waypoint list: start, every fifth step, end. Route data is nice
// to have, so a non-success remote status yields (nil, nil), never an error.
func (c *Client) GetDirections(ctx context.Context, origin, destination Coordinates, mode string) (*DirectionsResult, error) {
	ctx, span := otel.Tracer("MapsClient").Start(ctx, "GetDirections")
	defer span.End()
	span.SetAttributes(attribute.String("maps.mode", mode))

	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("origin", origin.String())
	params.Set("destination", destination.String())
	params.Set("mode", mode)
	params.Set("key", c.apiKey)

	var resp directionsResponse
	if err := c.getJSON(ctx, "/maps/api/directions/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "directions request failed")
		return nil, err
	}

	if resp.Status != statusOK || len(resp.Routes) == 0 {
		c.logger.WarnContext(ctx, "directions unavailable", slog.String("status", resp.Status))
		return nil, nil
	}

	route := resp.Routes[0]
	if len(route.Legs) == 0 {
		return nil, nil
	}
	leg := route.Legs[0]

	waypoints := []types.RouteWaypoint{
		{Name: "Start", Lat: leg.StartLocation.Lat, Lng: leg.StartLocation.Lng},
	}
	for i, step := range leg.Steps {
		if i%5 != 0 {
			continue
		}
		waypoints = append(waypoints, types.RouteWaypoint{
			Name: strings.TrimSpace(htmlTagPattern.ReplaceAllString(step.HTMLInstructions, "")),
			Lat:  step.EndLocation.Lat,
			Lng:  step.EndLocation.Lng,
		})
	}
	waypoints = append(waypoints, types.RouteWaypoint{
		Name: "End", Lat: leg.EndLocation.Lat, Lng: leg.EndLocation.Lng,
	})

	return &DirectionsResult{
		Polyline:     route.OverviewPolyline.Points,
		Waypoints:    waypoints,
		DistanceText: leg.Distance.Text,
		DurationText: leg.Duration.Text,
	}, nil
}

// Geocode forward-geocodes an address.
func (c *Client) Geocode(ctx context.Context, address string) (Coordinates, error) {
	ctx, span := otel.Tracer("MapsClient").Start(ctx, "Geocode")
	defer span.End()

	if c.apiKey == "" {
		return Coordinates{}, ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("address", address)
	params.Set("key", c.apiKey)

	var resp geocodeResponse
	if err := c.getJSON(ctx, "/maps/api/geocode/json", params, &resp); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "geocode request failed")
		return Coordinates{}, err
	}

	if resp.Status != statusOK || len(resp.Results) == 0 {
		err := &RemoteError{API: "geocoding", Status: resp.Status}
		span.RecordError(err)
		span.SetStatus(codes.Error, "remote status not ok")
		return Coordinates{}, err
	}

	location := resp.Results[0].Geometry.Location
	return Coordinates{Lat: location.Lat, Lng: location.Lng}, nil
}

// --- helpers -----------------------------------------------------------------

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func parsePlaceDetails(placeID string, raw json.RawMessage) (*PlaceDetails, error) {
	var parsed struct {
		Name             string       `json:"name"`
		FormattedAddress string       `json:"formatted_address"`
		Rating           float64      `json:"rating"`
		UserRatingsTotal int          `json:"user_ratings_total"`
		Website          string       `json:"website"`
		PhoneNumber      string       `json:"formatted_phone_number"`
		Geometry         rawGeometry  `json:"geometry"`
		Photos           []PlacePhoto `json:"photos"`
		EditorialSummary struct {
			Overview string `json:"overview"`
		} `json:"editorial_summary"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, err
	}

	return &PlaceDetails{
		PlaceID:          placeID,
		Name:             parsed.Name,
		FormattedAddress: parsed.FormattedAddress,
		Rating:           parsed.Rating,
		UserRatingsTotal: parsed.UserRatingsTotal,
		Website:          parsed.Website,
		PhoneNumber:      parsed.PhoneNumber,
		EditorialSummary: parsed.EditorialSummary.Overview,
		Location:         Coordinates{Lat: parsed.Geometry.Location.Lat, Lng: parsed.Geometry.Location.Lng},
		Photos:           parsed.Photos,
		Raw:              raw,
	}, nil
}

func joinCoordinates(coords []Coordinates) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = c.String()
	}
	return strings.Join(parts, "|")
}

func roundMetersToKm(meters int) int {
	return int(math.Round(float64(meters) / 1000))
}

func roundSecondsToMinutes(seconds int) int {
	return int(math.Round(float64(seconds) / 60))
}
