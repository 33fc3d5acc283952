package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"github.com/theweekendworld-engg/trip-gennie/pkg/middleware"
	"github.com/theweekendworld-engg/trip-gennie/pkg/observability"
)

// SetupRouter configures all routes and returns the HTTP service
func SetupRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	jwtSecret := []byte(deps.Config.Auth.JWTSecret)
	if len(jwtSecret) == 0 {
		deps.Logger.Warn("JWT secret is empty; admin routes will reject requests")
	}
	adminAuth := middleware.AdminAuth(jwtSecret)

	registerPublicRoutes(mux, deps)
	registerAdminRoutes(mux, deps, adminAuth)
	registerUtilityRoutes(mux, deps)

	chain := []func(http.Handler) http.Handler{
		middleware.RequestID,
		middleware.Recovery(deps.Logger),
		middleware.Logging(deps.Logger),
	}
	if deps.Config.Server.RateLimitPerSecond > 0 && deps.Config.Server.RateLimitBurst > 0 {
		limiter := rate.NewLimiter(
			rate.Limit(float64(deps.Config.Server.RateLimitPerSecond)),
			deps.Config.Server.RateLimitBurst,
		)
		chain = append(chain, middleware.RateLimit(limiter))
	}
	if deps.Config.Observability.MetricsEnabled {
		chain = append(chain, observability.Metrics(mux))
	}

	handler := middleware.Chain(mux, chain...)

	// Enable CORS for the browser front end
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-ID",
		},
		AllowCredentials: true,
	})

	return corsHandler.Handler(handler)
}

func registerPublicRoutes(mux *http.ServeMux, deps *Dependencies) {
	mux.HandleFunc("GET /api/v1/cities", deps.CityHandler.List)
	mux.HandleFunc("GET /api/v1/cities/{slug}", deps.CityHandler.GetBySlug)

	mux.HandleFunc("GET /api/v1/destinations", deps.DestinationHandler.List)
	mux.HandleFunc("GET /api/v1/destinations/nearby", deps.DestinationHandler.Nearby)
	mux.HandleFunc("GET /api/v1/destinations/{slug}", deps.DestinationHandler.GetBySlug)

	mux.HandleFunc("POST /api/v1/search", deps.DestinationHandler.Search)
	mux.HandleFunc("POST /api/v1/track", deps.AnalyticsHandler.Track)

	deps.Logger.Info("public routes configured")
}

func registerAdminRoutes(mux *http.ServeMux, deps *Dependencies, auth func(http.Handler) http.Handler) {
	admin := func(h http.HandlerFunc) http.Handler {
		return auth(h)
	}

	mux.Handle("POST /api/v1/admin/cities", admin(deps.CityHandler.Create))
	mux.Handle("POST /api/v1/admin/destinations", admin(deps.DestinationHandler.Create))
	mux.Handle("POST /api/v1/admin/seed", admin(deps.SeedHandler.Seed))
	mux.Handle("GET /api/v1/admin/stats", admin(deps.AnalyticsHandler.Stats))
	mux.Handle("GET /api/v1/admin/audit-logs", admin(deps.AnalyticsHandler.AuditLogs))

	deps.Logger.Info("admin routes configured")
}

// registerUtilityRoutes registers health check, metrics, and other utility routes
func registerUtilityRoutes(mux *http.ServeMux, deps *Dependencies) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.DB.Health(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unhealthy"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("GET /ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	if deps.Config.Observability.MetricsEnabled {
		mux.Handle("GET /metrics", promhttp.Handler())
	}

	deps.Logger.Info("utility routes configured")
}
