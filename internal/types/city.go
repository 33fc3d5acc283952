package types

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// City matches the cities table structure.
type City struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	State     string    `json:"state"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateCityParams carries the admin-supplied fields for manual city creation.
type CreateCityParams struct {
	Name      string  `json:"name"`
	State     string  `json:"state"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CitySlug derives the URL slug for a city name: lowercase, spaces to hyphens.
// Destination slugs use the stricter Slugify; city names keep their punctuation.
func CitySlug(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}
