package maps

import (
	"encoding/json"
	"fmt"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (c Coordinates) String() string {
	return fmt.Sprintf("%f,%f", c.Lat, c.Lng)
}

// PlaceSummary is one hit from the text search endpoint, narrowed from the raw
// payload at the client boundary so callers never touch untyped JSON.
type PlaceSummary struct {
	PlaceID          string      `json:"place_id"`
	Name             string      `json:"name"`
	FormattedAddress string      `json:"formatted_address,omitempty"`
	Location         Coordinates `json:"location"`
	Rating           float64     `json:"rating,omitempty"`
	Types            []string    `json:"types,omitempty"`
}

// PlacePhoto is one photo reference from a place details payload.
type PlacePhoto struct {
	PhotoReference   string   `json:"photo_reference"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	HTMLAttributions []string `json:"html_attributions,omitempty"`
}

// PlaceDetails is the narrowed place details payload. Raw retains the full
// remote response for the permanent cache.
type PlaceDetails struct {
	PlaceID          string          `json:"place_id"`
	Name             string          `json:"name"`
	FormattedAddress string          `json:"formatted_address,omitempty"`
	Rating           float64         `json:"rating,omitempty"`
	UserRatingsTotal int             `json:"user_ratings_total,omitempty"`
	Website          string          `json:"website,omitempty"`
	PhoneNumber      string          `json:"formatted_phone_number,omitempty"`
	EditorialSummary string          `json:"editorial_summary,omitempty"`
	Location         Coordinates     `json:"location"`
	Photos           []PlacePhoto    `json:"photos,omitempty"`
	Raw              json.RawMessage `json:"-"`
}

// DistanceResult is the outcome of a single pairwise distance lookup. Cached
// reports whether it was served from the persistent cache.
type DistanceResult struct {
	DistanceKm      int  `json:"distance_km"`
	DurationMinutes int  `json:"duration_minutes"`
	Cached          bool `json:"cached"`
}

// FareValue is a transit fare reported by the distance matrix, when present.
type FareValue struct {
	Value int `json:"value"`
}

// BatchDistance is one element of a batch distance lookup. OK is false when
// the remote reported no route for that element; the zero distance and
// duration are placeholders, not measurements.
type BatchDistance struct {
	DistanceKm      int        `json:"distance_km"`
	DurationMinutes int        `json:"duration_minutes"`
	Fare            *FareValue `json:"fare,omitempty"`
	OK              bool       `json:"ok"`
}

// DirectionsResult is a narrowed route: encoded polyline plus a down-sampled
// waypoint list.
type DirectionsResult struct {
	Polyline     string                `json:"polyline"`
	Waypoints    []types.RouteWaypoint `json:"waypoints"`
	DistanceText string                `json:"distance_text"`
	DurationText string                `json:"duration_text"`
}
