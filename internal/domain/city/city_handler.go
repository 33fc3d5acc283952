package city

import (
	"log/slog"
	"net/http"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
	"github.com/theweekendworld-engg/trip-gennie/pkg/httpx"
)

// Handler exposes the city routes.
type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// List handles GET /api/v1/cities.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cities, err := h.service.GetAllCities(r.Context())
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"cities":  cities,
	})
}

// GetBySlug handles GET /api/v1/cities/{slug}.
func (h *Handler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.service.GetCityBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"city":    c,
	})
}

// Create handles POST /api/v1/admin/cities.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var params types.CreateCityParams
	if err := httpx.Decode(r, &params); err != nil {
		httpx.Error(w, err)
		return
	}

	c, err := h.service.CreateCity(r.Context(), params)
	if err != nil {
		httpx.Error(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"city":    c,
	})
}
