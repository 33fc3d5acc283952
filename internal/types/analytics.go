package types

import (
	"time"

	"github.com/google/uuid"
)

// AnalyticsEvent is one anonymous usage event from the public site.
type AnalyticsEvent struct {
	ID            uuid.UUID      `json:"id"`
	EventType     string         `json:"event_type"`
	Page          string         `json:"page,omitempty"`
	CityID        *uuid.UUID     `json:"city_id,omitempty"`
	DestinationID *uuid.UUID     `json:"destination_id,omitempty"`
	UserAgent     string         `json:"user_agent,omitempty"`
	IPHash        string         `json:"ip_hash,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	Timestamp     time.Time      `json:"timestamp"`
}

// TrackEventParams is the payload accepted by the public tracking endpoint.
type TrackEventParams struct {
	EventType     string         `json:"event_type"`
	Page          string         `json:"page,omitempty"`
	CityID        *uuid.UUID     `json:"city_id,omitempty"`
	DestinationID *uuid.UUID     `json:"destination_id,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}

// DashboardStats are the headline numbers on the admin dashboard.
type DashboardStats struct {
	TotalCities       int64 `json:"total_cities"`
	TotalDestinations int64 `json:"total_destinations"`
	TotalVisits       int64 `json:"total_visits"`
	TodayVisits       int64 `json:"today_visits"`
}

// AuditLog records one admin action. Audit writes are best effort and must
// never fail the operation they describe.
type AuditLog struct {
	ID         uuid.UUID      `json:"id"`
	AdminEmail string         `json:"admin_email"`
	Action     string         `json:"action"`
	EntityType string         `json:"entity_type"`
	EntityID   *uuid.UUID     `json:"entity_id,omitempty"`
	Changes    map[string]any `json:"changes,omitempty"`
	IPAddress  string         `json:"ip_address,omitempty"`
	UserAgent  string         `json:"user_agent,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
