package destination

import (
	"context"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

func (r *RepositoryImpl) HasLink(ctx context.Context, cityID, destinationID uuid.UUID) (bool, error) {
	query := `
        SELECT EXISTS (
            SELECT 1 FROM city_destinations
            WHERE city_id = $1 AND destination_id = $2
        )
    `

	var exists bool
	if err := r.pool.QueryRow(ctx, query, cityID, destinationID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check city destination link: %w", err)
	}

	return exists, nil
}

// UpsertLink creates or refreshes the link for one (city, destination, mode)
// triple. The unique constraint on the triple makes this race-tolerant: two
// concurrent runs converge on the last write.
func (r *RepositoryImpl) UpsertLink(ctx context.Context, params types.UpsertLinkParams) error {
	query := `
        INSERT INTO city_destinations (
            city_id, destination_id, transport_mode, distance_km, travel_time_minutes,
            estimated_fuel_cost, estimated_transport_cost, route_polyline,
            major_waypoints, fare_details, booking_links
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (city_id, destination_id, transport_mode) DO UPDATE SET
            distance_km = EXCLUDED.distance_km,
            travel_time_minutes = EXCLUDED.travel_time_minutes,
            estimated_fuel_cost = EXCLUDED.estimated_fuel_cost,
            estimated_transport_cost = EXCLUDED.estimated_transport_cost,
            route_polyline = EXCLUDED.route_polyline,
            major_waypoints = EXCLUDED.major_waypoints,
            fare_details = EXCLUDED.fare_details,
            booking_links = EXCLUDED.booking_links,
            updated_at = NOW()
    `

	waypoints := params.MajorWaypoints
	if waypoints == nil {
		waypoints = []types.RouteWaypoint{}
	}
	waypointsJSON, err := json.Marshal(waypoints)
	if err != nil {
		return fmt.Errorf("failed to marshal waypoints: %w", err)
	}
	fareJSON, err := json.Marshal(params.FareDetails)
	if err != nil {
		return fmt.Errorf("failed to marshal fare details: %w", err)
	}
	linksJSON, err := json.Marshal(params.BookingLinks)
	if err != nil {
		return fmt.Errorf("failed to marshal booking links: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		params.CityID, params.DestinationID, params.TransportMode,
		params.DistanceKm, params.TravelTimeMinutes,
		nullableInt(params.EstimatedFuelCost), nullableInt(params.EstimatedTransportCost),
		NewNullString(params.RoutePolyline),
		string(waypointsJSON), string(fareJSON), string(linksJSON))
	if err != nil {
		return fmt.Errorf("failed to upsert city destination link: %w", err)
	}

	return nil
}

func (r *RepositoryImpl) GetLinks(ctx context.Context, destinationID uuid.UUID) ([]types.CityDestinationLink, error) {
	query := `
        SELECT id, city_id, destination_id, transport_mode, distance_km, travel_time_minutes,
               COALESCE(estimated_fuel_cost, 0), COALESCE(estimated_transport_cost, 0),
               COALESCE(route_polyline, ''), major_waypoints, fare_details, booking_links,
               created_at, updated_at
        FROM city_destinations
        WHERE destination_id = $1
        ORDER BY transport_mode
    `

	rows, err := r.pool.Query(ctx, query, destinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query destination links: %w", err)
	}
	defer rows.Close()

	var links []types.CityDestinationLink
	for rows.Next() {
		var link types.CityDestinationLink
		var waypoints, fares, booking []byte

		if err := rows.Scan(&link.ID, &link.CityID, &link.DestinationID, &link.TransportMode,
			&link.DistanceKm, &link.TravelTimeMinutes,
			&link.EstimatedFuelCost, &link.EstimatedTransportCost,
			&link.RoutePolyline, &waypoints, &fares, &booking,
			&link.CreatedAt, &link.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan link row: %w", err)
		}

		if err := json.Unmarshal(waypoints, &link.MajorWaypoints); err != nil {
			return nil, fmt.Errorf("failed to decode waypoints: %w", err)
		}
		if err := json.Unmarshal(fares, &link.FareDetails); err != nil {
			return nil, fmt.Errorf("failed to decode fare details: %w", err)
		}
		if err := json.Unmarshal(booking, &link.BookingLinks); err != nil {
			return nil, fmt.Errorf("failed to decode booking links: %w", err)
		}

		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating link rows: %w", err)
	}

	return links, nil
}

// SearchTrips runs the public trip search. The filter combination is dynamic,
// so the query is built with squirrel. NULL costs pass the budget filter to
// match how the front end displays a missing estimate as zero.
func (r *RepositoryImpl) SearchTrips(ctx context.Context, filters types.TripSearchFilters) ([]types.TripResult, int, error) {
	base := sq.Select().
		From("city_destinations cd").
		Join("destinations d ON d.id = cd.destination_id").
		Where(sq.Eq{"cd.city_id": filters.CityID}).
		Where(sq.Eq{"d.is_active": true}).
		PlaceholderFormat(sq.Dollar)

	if filters.MaxBudget > 0 {
		base = base.Where(sq.Or{
			sq.LtOrEq{"cd.estimated_fuel_cost": filters.MaxBudget},
			sq.LtOrEq{"cd.estimated_transport_cost": filters.MaxBudget},
			sq.Eq{"cd.estimated_fuel_cost": nil},
			sq.Eq{"cd.estimated_transport_cost": nil},
		})
	}
	if filters.MaxTravelTime > 0 {
		base = base.Where(sq.LtOrEq{"cd.travel_time_minutes": filters.MaxTravelTime})
	}
	if len(filters.Categories) > 0 {
		base = base.Where(sq.Eq{"d.category": filters.Categories})
	}
	if len(filters.TransportModes) > 0 {
		base = base.Where(sq.Eq{"cd.transport_mode": filters.TransportModes})
	}

	countSQL, countArgs, err := base.Column("COUNT(*)").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count trip results: %w", err)
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 || pageSize > 50 {
		pageSize = 20
	}

	querySQL, queryArgs, err := base.
		Columns(
			"d.id", "d.name", "d.slug", "d.category",
			"COALESCE(NULLIF(d.ai_enhanced_summary, ''), d.short_summary)",
			"COALESCE(d.image_url, '')",
			"cd.distance_km", "cd.travel_time_minutes",
			"COALESCE(CASE WHEN cd.transport_mode = 'driving' THEN cd.estimated_fuel_cost ELSE cd.estimated_transport_cost END, 0)",
			"cd.transport_mode",
		).
		OrderBy("cd.travel_time_minutes ASC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build search query: %w", err)
	}

	rows, err := r.pool.Query(ctx, querySQL, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search trips: %w", err)
	}
	defer rows.Close()

	var results []types.TripResult
	for rows.Next() {
		var t types.TripResult
		if err := rows.Scan(&t.DestinationID, &t.Name, &t.Slug, &t.Category, &t.Summary,
			&t.ImageURL, &t.DistanceKm, &t.TravelTimeMinutes, &t.EstimatedCost,
			&t.TransportMode); err != nil {
			return nil, 0, fmt.Errorf("failed to scan trip row: %w", err)
		}
		results = append(results, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating trip rows: %w", err)
	}

	return results, total, nil
}

func nullableInt(v int) any {
	if v == 0 {
		return nil
	}
	return v
}
