package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
	"github.com/theweekendworld-engg/trip-gennie/pkg/db"
)

var _ Repository = (*RepositoryImpl)(nil)

type Repository interface {
	InsertEvent(ctx context.Context, event types.AnalyticsEvent) error
	CountCities(ctx context.Context) (int64, error)
	CountDestinations(ctx context.Context) (int64, error)
	CountEvents(ctx context.Context, eventType string) (int64, error)
	CountEventsSince(ctx context.Context, eventType string, since time.Time) (int64, error)

	InsertAuditLog(ctx context.Context, entry types.AuditLog) error
	ListAuditLogs(ctx context.Context, limit, offset int) ([]types.AuditLog, error)
}

type RepositoryImpl struct {
	logger *slog.Logger
	pool   db.Querier
}

func NewRepository(pool db.Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{
		logger: logger,
		pool:   pool,
	}
}

func (r *RepositoryImpl) InsertEvent(ctx context.Context, event types.AnalyticsEvent) error {
	query := `
        INSERT INTO analytics_events (event_type, page, city_id, destination_id, user_agent, ip_hash, metadata)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	var metadata any
	if len(event.Metadata) > 0 {
		data, err := json.Marshal(event.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal event metadata: %w", err)
		}
		metadata = string(data)
	}

	_, err := r.pool.Exec(ctx, query,
		event.EventType, nullString(event.Page), event.CityID, event.DestinationID,
		nullString(event.UserAgent), nullString(event.IPHash), metadata)
	if err != nil {
		return fmt.Errorf("failed to insert analytics event: %w", err)
	}

	return nil
}

func (r *RepositoryImpl) CountCities(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM cities WHERE is_active = TRUE`)
}

func (r *RepositoryImpl) CountDestinations(ctx context.Context) (int64, error) {
	return r.count(ctx, `SELECT COUNT(*) FROM destinations WHERE is_active = TRUE`)
}

func (r *RepositoryImpl) CountEvents(ctx context.Context, eventType string) (int64, error) {
	query := `SELECT COUNT(*) FROM analytics_events WHERE event_type = $1`

	var n int64
	if err := r.pool.QueryRow(ctx, query, eventType).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events: %w", err)
	}
	return n, nil
}

func (r *RepositoryImpl) CountEventsSince(ctx context.Context, eventType string, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM analytics_events WHERE event_type = $1 AND timestamp >= $2`

	var n int64
	if err := r.pool.QueryRow(ctx, query, eventType, since).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count events since: %w", err)
	}
	return n, nil
}

func (r *RepositoryImpl) count(ctx context.Context, query string) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, query).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to run count query: %w", err)
	}
	return n, nil
}

func (r *RepositoryImpl) InsertAuditLog(ctx context.Context, entry types.AuditLog) error {
	query := `
        INSERT INTO audit_logs (admin_email, action, entity_type, entity_id, changes, ip_address, user_agent)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	var changes any
	if len(entry.Changes) > 0 {
		data, err := json.Marshal(entry.Changes)
		if err != nil {
			return fmt.Errorf("failed to marshal audit changes: %w", err)
		}
		changes = string(data)
	}

	_, err := r.pool.Exec(ctx, query,
		entry.AdminEmail, entry.Action, entry.EntityType, entry.EntityID,
		changes, nullString(entry.IPAddress), nullString(entry.UserAgent))
	if err != nil {
		return fmt.Errorf("failed to insert audit log: %w", err)
	}

	return nil
}

func (r *RepositoryImpl) ListAuditLogs(ctx context.Context, limit, offset int) ([]types.AuditLog, error) {
	query := `
        SELECT id, admin_email, action, entity_type, entity_id, changes,
               COALESCE(ip_address, ''), COALESCE(user_agent, ''), created_at
        FROM audit_logs
        ORDER BY created_at DESC
        LIMIT $1 OFFSET $2
    `

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query audit logs: %w", err)
	}
	defer rows.Close()

	var entries []types.AuditLog
	for rows.Next() {
		var entry types.AuditLog
		var entityID *uuid.UUID
		var changes []byte

		if err := rows.Scan(&entry.ID, &entry.AdminEmail, &entry.Action, &entry.EntityType,
			&entityID, &changes, &entry.IPAddress, &entry.UserAgent, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan audit log row: %w", err)
		}

		entry.EntityID = entityID
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &entry.Changes); err != nil {
				return nil, fmt.Errorf("failed to decode audit changes: %w", err)
			}
		}

		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating audit log rows: %w", err)
	}

	return entries, nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
