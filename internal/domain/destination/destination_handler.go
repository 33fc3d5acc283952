package destination

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
	"github.com/theweekendworld-engg/trip-gennie/pkg/httpx"
)

// Handler exposes the destination and trip search routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// List handles GET /api/v1/destinations.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.service.GetAllDestinations(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"destinations": destinations,
	})
}

// GetBySlug handles GET /api/v1/destinations/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	detail, err := h.service.GetDestinationDetail(r.Context(), r.PathValue("slug"))
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"destination": detail,
	})
}

// Create handles POST /api/v1/admin/destinations.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var params types.CreateDestinationParams
	if err := httpx.Decode(r, &params); err != nil {
		httpx.Error(w, err)
		return
	}

	dest, err := h.service.CreateDestination(r.Context(), params)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success":     true,
		"destination": dest,
	})
}

// Search handles POST /api/v1/search.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var filters types.TripSearchFilters
	if err := httpx.Decode(r, &filters); err != nil {
		httpx.Error(w, err)
		return
	}

	page, err := h.service.SearchTrips(r.Context(), filters)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"results":   page.Results,
		"total":     page.Total,
		"page":      page.Page,
		"page_size": page.PageSize,
	})
}

// Nearby handles GET /api/v1/destinations/nearby?lat=&lng=&radius_km=&limit=.
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	lat, err := strconv.ParseFloat(q.Get("lat"), 64)
	if err != nil {
		httpx.Error(w, fmt.Errorf("%w: lat is required", types.ErrBadRequest))
		return
	}
	lng, err := strconv.ParseFloat(q.Get("lng"), 64)
	if err != nil {
		httpx.Error(w, fmt.Errorf("%w: lng is required", types.ErrBadRequest))
		return
	}
	radiusKm, _ := strconv.ParseFloat(q.Get("radius_km"), 64)
	limit, _ := strconv.Atoi(q.Get("limit"))

	results, err := h.service.NearbyDestinations(r.Context(), lat, lng, radiusKm, limit)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"destinations": results,
	})
}
