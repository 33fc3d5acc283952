// Package httpx holds the small JSON request/response helpers shared by all
// HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error response, mapping domain sentinel errors to HTTP
// status codes. Unknown errors become 500 with a generic message so internals
// never leak to clients.
func Error(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, types.ErrNotFound):
		JSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrConflict):
		JSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrBadRequest):
		JSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrUnauthenticated):
		JSON(w, http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, types.ErrRateLimited):
		JSON(w, http.StatusTooManyRequests, ErrorResponse{Error: err.Error()})
	default:
		JSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return types.ErrBadRequest
	}
	return nil
}

// ClientIP extracts the caller address, preferring proxy headers.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}
