package types

import (
	"time"

	"github.com/google/uuid"
)

// Transport modes supported for a city-destination pair.
const (
	ModeDriving = "driving"
	ModeTransit = "transit"
)

// RouteWaypoint is one named point along a stored route.
type RouteWaypoint struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

// CityDestinationLink is the transport-mode specific relationship between one
// city and one destination. At most one row exists per
// (city, destination, transport mode) triple; writes are upserts on that key.
type CityDestinationLink struct {
	ID                     uuid.UUID         `json:"id"`
	CityID                 uuid.UUID         `json:"city_id"`
	DestinationID          uuid.UUID         `json:"destination_id"`
	TransportMode          string            `json:"transport_mode"`
	DistanceKm             int               `json:"distance_km"`
	TravelTimeMinutes      int               `json:"travel_time_minutes"`
	EstimatedFuelCost      int               `json:"estimated_fuel_cost,omitempty"`
	EstimatedTransportCost int               `json:"estimated_transport_cost,omitempty"`
	RoutePolyline          string            `json:"route_polyline,omitempty"`
	MajorWaypoints         []RouteWaypoint   `json:"major_waypoints,omitempty"`
	FareDetails            map[string]int    `json:"fare_details,omitempty"`
	BookingLinks           map[string]string `json:"booking_links,omitempty"`
	CreatedAt              time.Time         `json:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at"`
}

// UpsertLinkParams carries everything needed to create or refresh a link.
type UpsertLinkParams struct {
	CityID                 uuid.UUID
	DestinationID          uuid.UUID
	TransportMode          string
	DistanceKm             int
	TravelTimeMinutes      int
	EstimatedFuelCost      int
	EstimatedTransportCost int
	RoutePolyline          string
	MajorWaypoints         []RouteWaypoint
	FareDetails            map[string]int
	BookingLinks           map[string]string
}

// TripResult is one row of the public trip search: a destination joined with
// the transport link that satisfied the filters.
type TripResult struct {
	DestinationID     uuid.UUID `json:"destination_id"`
	Name              string    `json:"name"`
	Slug              string    `json:"slug"`
	Category          string    `json:"category"`
	Summary           string    `json:"summary"`
	ImageURL          string    `json:"image_url,omitempty"`
	DistanceKm        int       `json:"distance_km"`
	TravelTimeMinutes int       `json:"travel_time_minutes"`
	EstimatedCost     int       `json:"estimated_cost"`
	TransportMode     string    `json:"transport_mode"`
}

// TripSearchFilters are the validated public search filters.
type TripSearchFilters struct {
	CityID         uuid.UUID `json:"city_id"`
	MaxBudget      int       `json:"max_budget,omitempty"`
	MaxTravelTime  int       `json:"max_travel_time,omitempty"`
	Categories     []string  `json:"categories,omitempty"`
	TransportModes []string  `json:"transport_modes,omitempty"`
	Page           int       `json:"page,omitempty"`
	PageSize       int       `json:"page_size,omitempty"`
}
