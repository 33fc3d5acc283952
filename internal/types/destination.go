package types

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Destination categories discovered by the seeding pipeline. Manual entries may
// use free-form categories beyond this set.
const (
	CategoryHillStation = "hill_station"
	CategoryBeach       = "beach"
	CategoryHistorical  = "historical"
	CategoryNature      = "nature"
	CategorySpiritual   = "spiritual"
	CategoryWildlife    = "wildlife"
	CategoryAdventure   = "adventure"
)

// WeatherInfo is the live weather snapshot stored on a destination.
type WeatherInfo struct {
	Temp      int    `json:"temp"`
	Condition string `json:"condition"`
	Humidity  int    `json:"humidity"`
}

// AirQuality is the live air quality snapshot stored on a destination.
type AirQuality struct {
	AQI    int    `json:"aqi"`
	Status string `json:"status"`
}

// BestVisitTime lists the recommended months for a destination category.
type BestVisitTime struct {
	BestMonths []string `json:"best_months"`
}

// Destination matches the destinations table structure.
type Destination struct {
	ID                uuid.UUID      `json:"id"`
	Name              string         `json:"name"`
	Slug              string         `json:"slug"`
	Category          string         `json:"category"`
	ShortSummary      string         `json:"short_summary"`
	AiEnhancedSummary string         `json:"ai_enhanced_summary,omitempty"`
	Latitude          float64        `json:"latitude"`
	Longitude         float64        `json:"longitude"`
	ImageURL          string         `json:"image_url,omitempty"`
	WeatherInfo       *WeatherInfo   `json:"weather_info,omitempty"`
	AirQuality        *AirQuality    `json:"air_quality,omitempty"`
	BestVisitTime     *BestVisitTime `json:"best_visit_time,omitempty"`
	IsActive          bool           `json:"is_active"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// DestinationPhoto matches the destination_photos table structure.
type DestinationPhoto struct {
	ID             uuid.UUID `json:"id"`
	DestinationID  uuid.UUID `json:"destination_id"`
	PhotoURL       string    `json:"photo_url"`
	PhotoReference string    `json:"photo_reference,omitempty"`
	Width          int       `json:"width"`
	Height         int       `json:"height"`
	Attribution    string    `json:"attribution,omitempty"`
	IsPrimary      bool      `json:"is_primary"`
}

// CreateDestinationParams carries the fields for destination creation, both
// from the seeding pipeline and from manual admin entry.
type CreateDestinationParams struct {
	Name              string  `json:"name"`
	Slug              string  `json:"slug"`
	Category          string  `json:"category"`
	ShortSummary      string  `json:"short_summary"`
	AiEnhancedSummary string  `json:"ai_enhanced_summary,omitempty"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	ImageURL          string  `json:"image_url,omitempty"`
}

var slugCleaner = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the unique destination slug used for Deduplication: lowercase,
// runs of non-alphanumerics collapsed to a single hyphen, outer hyphens trimmed.
func Slugify(name string) string {
	s := slugCleaner.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}
