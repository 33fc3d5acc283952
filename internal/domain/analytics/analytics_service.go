package analytics

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/theweekendworld-engg/trip-gennie/internal/ratelimit"
	"github.com/theweekendworld-engg/trip-gennie/internal/types"
)

const pageViewEvent = "page_view"

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	TrackEvent(ctx context.Context, params types.TrackEventParams, clientIP, userAgent string) error
	GetDashboardStats(ctx context.Context) (*types.DashboardStats, error)
	CreateAuditLog(ctx context.Context, entry types.AuditLog)
	ListAuditLogs(ctx context.Context, page, pageSize int) ([]types.AuditLog, error)
}

type ServiceImpl struct {
	logger  *slog.Logger
	repo    Repository
	limiter ratelimit.Store
}

// NewAnalyticsService wires the repository with the per-client tracking
// limiter, typically 60 events per minute per hashed address.
func NewAnalyticsService(repo Repository, limiter ratelimit.Store, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		logger:  logger,
		repo:    repo,
		limiter: limiter,
	}
}

// hashIP anonymizes a client address before storage. Raw addresses are never
// persisted.
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

func (s *ServiceImpl) TrackEvent(ctx context.Context, params types.TrackEventParams, clientIP, userAgent string) error {
	ctx, span := otel.Tracer("AnalyticsService").Start(ctx, "TrackEvent")
	defer span.End()

	if params.EventType == "" {
		return fmt.Errorf("%w: event_type is required", types.ErrBadRequest)
	}

	ipHash := hashIP(clientIP)
	if decision := s.limiter.Check(ipHash); !decision.Allowed {
		span.SetAttributes(attribute.Bool("ratelimit.denied", true))
		return fmt.Errorf("%w: too many events", types.ErrRateLimited)
	}

	event := types.AnalyticsEvent{
		EventType:     params.EventType,
		Page:          params.Page,
		CityID:        params.CityID,
		DestinationID: params.DestinationID,
		UserAgent:     userAgent,
		IPHash:        ipHash,
		Metadata:      params.Metadata,
	}

	if err := s.repo.InsertEvent(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "failed to record analytics event", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return fmt.Errorf("failed to record event: %w", err)
	}

	span.SetStatus(codes.Ok, "event recorded")
	return nil
}

// GetDashboardStats gathers the four headline counts concurrently.
func (s *ServiceImpl) GetDashboardStats(ctx context.Context) (*types.DashboardStats, error) {
	ctx, span := otel.Tracer("AnalyticsService").Start(ctx, "GetDashboardStats")
	defer span.End()

	var stats types.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.repo.CountCities(gctx)
		stats.TotalCities = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountDestinations(gctx)
		stats.TotalDestinations = n
		return err
	})
	g.Go(func() error {
		n, err := s.repo.CountEvents(gctx, pageViewEvent)
		stats.TotalVisits = n
		return err
	})
	g.Go(func() error {
		midnight := time.Now().Truncate(24 * time.Hour)
		n, err := s.repo.CountEventsSince(gctx, pageViewEvent, midnight)
		stats.TodayVisits = n
		return err
	})

	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "failed to gather dashboard stats", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, fmt.Errorf("failed to gather dashboard stats: %w", err)
	}

	span.SetStatus(codes.Ok, "stats gathered")
	return &stats, nil
}

// CreateAuditLog records an admin action. Audit writes are best effort: a
// failure is logged and swallowed so it never breaks the audited operation.
func (s *ServiceImpl) CreateAuditLog(ctx context.Context, entry types.AuditLog) {
	if err := s.repo.InsertAuditLog(ctx, entry); err != nil {
		s.logger.ErrorContext(ctx, "failed to write audit log",
			slog.String("action", entry.Action),
			slog.Any("error", err))
	}
}

func (s *ServiceImpl) ListAuditLogs(ctx context.Context, page, pageSize int) ([]types.AuditLog, error) {
	ctx, span := otel.Tracer("AnalyticsService").Start(ctx, "ListAuditLogs")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 50
	}

	entries, err := s.repo.ListAuditLogs(ctx, pageSize, (page-1)*pageSize)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to list audit logs", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository operation failed")
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}

	span.SetStatus(codes.Ok, "audit logs listed")
	return entries, nil
}
