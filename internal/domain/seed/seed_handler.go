package seed

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/theweekendworld-engg/trip-gennie/internal/domain/analytics"
	"github.com/theweekendworld-engg/trip-gennie/internal/ratelimit"
	"github.com/theweekendworld-engg/trip-gennie/internal/types"
	"github.com/theweekendworld-engg/trip-gennie/pkg/httpx"
	"github.com/theweekendworld-engg/trip-gennie/pkg/middleware"
	"github.com/theweekendworld-engg/trip-gennie/pkg/observability"
)

// Handler exposes the admin seeding route.
type Handler struct {
	service Service
	audit   analytics.Service
	limiter ratelimit.Store
	logger  *slog.Logger
}

// NewHandler wires the orchestrator with the per-admin rate limiter and the
// audit trail.
func NewHandler(service Service, audit analytics.Service, limiter ratelimit.Store, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		audit:   audit,
		limiter: limiter,
		logger:  logger,
	}
}

type seedRequest struct {
	CityName string `json:"city_name"`
}

// Seed handles POST /api/v1/admin/seed. One run per admin per window; the
// run log is returned verbatim for the admin UI.
func (h *Handler) Seed(w http.ResponseWriter, r *http.Request) {
	adminEmail, ok := middleware.AdminEmailFromContext(r.Context())
	if !ok {
		httpx.Error(w, types.ErrUnauthenticated)
		return
	}

	if decision := h.limiter.Check(adminEmail); !decision.Allowed {
		waitMinutes := int(math.Ceil(time.Until(decision.ResetTime).Minutes()))
		httpx.JSON(w, http.StatusTooManyRequests, map[string]any{
			"success":      false,
			"error":        "Rate limit exceeded. Please wait before seeding again.",
			"reset_time":   decision.ResetTime.UTC().Format(time.RFC3339),
			"wait_minutes": waitMinutes,
		})
		return
	}

	var req seedRequest
	if err := httpx.Decode(r, &req); err != nil {
		httpx.Error(w, err)
		return
	}
	req.CityName = strings.TrimSpace(req.CityName)
	if req.CityName == "" {
		httpx.Error(w, fmt.Errorf("%w: city name is required", types.ErrBadRequest))
		return
	}

	result, err := h.service.SeedCityNearby(r.Context(), req.CityName)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "seeding run failed",
			slog.String("city", req.CityName),
			slog.String("admin", adminEmail),
			slog.Any("error", err))
		observability.RecordSeedRun("failure", 0)
		h.audit.CreateAuditLog(r.Context(), types.AuditLog{
			AdminEmail: adminEmail,
			Action:     "seed_city_failed",
			EntityType: "city",
			Changes:    map[string]any{"city_name": req.CityName, "error": err.Error()},
			IPAddress:  httpx.ClientIP(r),
			UserAgent:  r.UserAgent(),
		})
		httpx.JSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	observability.RecordSeedRun("success", result.DestinationsCreated)
	h.audit.CreateAuditLog(r.Context(), types.AuditLog{
		AdminEmail: adminEmail,
		Action:     "seed_city",
		EntityType: "city",
		EntityID:   &result.CityID,
		Changes: map[string]any{
			"city_name":            result.CityName,
			"destinations_created": result.DestinationsCreated,
		},
		IPAddress: httpx.ClientIP(r),
		UserAgent: r.UserAgent(),
	})

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":              true,
		"message":              fmt.Sprintf("Successfully seeded %s", result.CityName),
		"city_id":              result.CityID,
		"city_name":            result.CityName,
		"destinations_created": result.DestinationsCreated,
		"logs":                 result.Logs,
	})
}
