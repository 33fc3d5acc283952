package analytics

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
	"github.com/theweekendworld-engg/trip-gennie/pkg/httpx"
)

// Handler exposes the tracking and admin analytics routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Track handles POST /api/v1/track.
func (h *Handler) Track(w http.ResponseWriter, r *http.Request) {
	var params types.TrackEventParams
	if err := httpx.Decode(r, &params); err != nil {
		httpx.Error(w, err)
		return
	}

	err := h.service.TrackEvent(r.Context(), params, httpx.ClientIP(r), r.UserAgent())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusAccepted, map[string]any{"success": true})
}

// Stats handles GET /api/v1/admin/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats":   stats,
	})
}

// AuditLogs handles GET /api/v1/admin/audit-logs?page=&page_size=.
func (h *Handler) AuditLogs(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	entries, err := h.service.ListAuditLogs(r.Context(), page, pageSize)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"audit_logs": entries,
	})
}
