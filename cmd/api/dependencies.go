package api

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/theweekendworld-engg/trip-gennie/internal/domain/analytics"
	"github.com/theweekendworld-engg/trip-gennie/internal/domain/city"
	"github.com/theweekendworld-engg/trip-gennie/internal/domain/destination"
	"github.com/theweekendworld-engg/trip-gennie/internal/domain/seed"
	"github.com/theweekendworld-engg/trip-gennie/internal/enrich"
	"github.com/theweekendworld-engg/trip-gennie/internal/llm"
	"github.com/theweekendworld-engg/trip-gennie/internal/maps"
	"github.com/theweekendworld-engg/trip-gennie/internal/ratelimit"
	"github.com/theweekendworld-engg/trip-gennie/pkg/config"
	"github.com/theweekendworld-engg/trip-gennie/pkg/db"
)

// Tracking events are throttled per hashed client address.
const (
	trackRateLimitWindow = time.Minute
	trackRateLimitMax    = 60
)

// Dependencies holds all application dependencies
type Dependencies struct {
	Config *config.Config
	DB     *db.DB
	Logger *slog.Logger

	// Repositories
	CityRepo        city.Repository
	DestinationRepo destination.Repository
	AnalyticsRepo   analytics.Repository

	// External clients
	MapsClient   *maps.Client
	MeteoClient  *enrich.MeteoClient
	Enhancer     llm.SummaryEnhancer
	SeedLimiter  ratelimit.Store
	TrackLimiter ratelimit.Store

	// Services
	CityService        city.Service
	DestinationService destination.Service
	AnalyticsService   analytics.Service
	SeedService        seed.Service

	// Handlers
	CityHandler        *city.Handler
	DestinationHandler *destination.Handler
	AnalyticsHandler   *analytics.Handler
	SeedHandler        *seed.Handler
}

// InitDependencies initializes all application dependencies
func InitDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Config: cfg,
		Logger: logger,
	}

	if err := deps.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to init database: %w", err)
	}

	deps.initRepositories()
	deps.initClients(ctx)
	deps.initServices()
	deps.initHandlers()

	logger.Info("all dependencies initialized successfully")

	return deps, nil
}

// initDatabase initializes the database connection and runs migrations
func (d *Dependencies) initDatabase() error {
	database, err := db.New(db.Config{
		DSN:             d.Config.Database.DSN(),
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: 5 * time.Minute,
		MaxConnIdleTime: 10 * time.Minute,
	}, d.Logger)
	if err != nil {
		return err
	}

	d.DB = database

	if err := d.DB.RunMigrations(); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	d.Logger.Info("database connected and migrations completed successfully")
	return nil
}

func (d *Dependencies) initRepositories() {
	d.CityRepo = city.NewCityRepository(d.DB.Pool, d.Logger)
	d.DestinationRepo = destination.NewRepository(d.DB.Pool, d.Logger)
	d.AnalyticsRepo = analytics.NewRepository(d.DB.Pool, d.Logger)
}

func (d *Dependencies) initClients(ctx context.Context) {
	cacheRepo := maps.NewPostgresCacheRepository(d.DB.Pool, d.Logger)
	d.MapsClient = maps.NewClient(d.Config.Maps.APIKey, cacheRepo, d.Logger)
	d.MeteoClient = enrich.NewMeteoClient(d.Logger)

	d.Enhancer = llm.NoopEnhancer{}
	if d.Config.Gemini.APIKey != "" {
		enhancer, err := llm.NewGeminiEnhancer(ctx, d.Config.Gemini.APIKey, d.Logger)
		if err != nil {
			d.Logger.Warn("gemini enhancer unavailable, using template summaries", "error", err)
		} else {
			d.Enhancer = enhancer
		}
	}

	d.SeedLimiter = ratelimit.NewMemoryStore(d.Config.Seed.RateLimitWindow, d.Config.Seed.RateLimitMax)
	d.TrackLimiter = ratelimit.NewMemoryStore(trackRateLimitWindow, trackRateLimitMax)
}

func (d *Dependencies) initServices() {
	d.CityService = city.NewCityService(d.CityRepo, d.Logger)
	d.DestinationService = destination.NewDestinationService(d.DestinationRepo, d.Logger)
	d.AnalyticsService = analytics.NewAnalyticsService(d.AnalyticsRepo, d.TrackLimiter, d.Logger)
	d.SeedService = seed.NewSeedService(d.CityRepo, d.DestinationRepo, d.MapsClient,
		d.MeteoClient, d.Enhancer, d.Logger)
}

func (d *Dependencies) initHandlers() {
	d.CityHandler = city.NewHandler(d.CityService, d.Logger)
	d.DestinationHandler = destination.NewHandler(d.DestinationService, d.Logger)
	d.AnalyticsHandler = analytics.NewHandler(d.AnalyticsService, d.Logger)
	d.SeedHandler = seed.NewHandler(d.SeedService, d.AnalyticsService, d.SeedLimiter, d.Logger)
}

// Close releases held resources.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
