package seed

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theweekendworld-engg/trip-gennie/internal/ratelimit"
	"github.com/theweekendworld-engg/trip-gennie/internal/types"
	"github.com/theweekendworld-engg/trip-gennie/pkg/middleware"
)

type fakeSeedService struct {
	result *types.SeedRunResult
	err    error
	calls  int
}

func (f *fakeSeedService) SeedCityNearby(ctx context.Context, cityName string) (*types.SeedRunResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeAudit struct {
	entries []types.AuditLog
}

func (f *fakeAudit) TrackEvent(ctx context.Context, params types.TrackEventParams, clientIP, userAgent string) error {
	return nil
}

func (f *fakeAudit) GetDashboardStats(ctx context.Context) (*types.DashboardStats, error) {
	return nil, nil
}

func (f *fakeAudit) CreateAuditLog(ctx context.Context, entry types.AuditLog) {
	f.entries = append(f.entries, entry)
}

func (f *fakeAudit) ListAuditLogs(ctx context.Context, page, pageSize int) ([]types.AuditLog, error) {
	return f.entries, nil
}

func seedRequestFor(t *testing.T, email, cityName string) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/seed",
		strings.NewReader(`{"city_name":"`+cityName+`"}`))
	if email != "" {
		req = req.WithContext(middleware.WithAdminEmail(req.Context(), email))
	}
	return req
}

func TestSeedHandler_ReturnsRunResult(t *testing.T) {
	cityID := uuid.New()
	svc := &fakeSeedService{result: &types.SeedRunResult{
		CityID:              cityID,
		CityName:            "Pune",
		DestinationsCreated: 7,
		Logs:                []string{"✅ Nearby seeding complete!"},
	}}
	audit := &fakeAudit{}
	h := NewHandler(svc, audit, ratelimit.NewMemoryStore(5*time.Minute, 1), slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Seed(rec, seedRequestFor(t, "admin@example.com", "Pune"))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Successfully seeded Pune", body["message"])
	assert.Equal(t, float64(7), body["destinations_created"])

	require.Len(t, audit.entries, 1)
	assert.Equal(t, "seed_city", audit.entries[0].Action)
	assert.Equal(t, "admin@example.com", audit.entries[0].AdminEmail)
}

func TestSeedHandler_RateLimitsPerAdmin(t *testing.T) {
	svc := &fakeSeedService{result: &types.SeedRunResult{CityName: "Pune"}}
	h := NewHandler(svc, &fakeAudit{}, ratelimit.NewMemoryStore(5*time.Minute, 1), slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Seed(rec, seedRequestFor(t, "admin@example.com", "Pune"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.Seed(rec, seedRequestFor(t, "admin@example.com", "Pune"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Contains(t, body, "wait_minutes")
	assert.Equal(t, 1, svc.calls)

	// A different admin is not throttled by the first one's window.
	rec = httptest.NewRecorder()
	h.Seed(rec, seedRequestFor(t, "other@example.com", "Pune"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSeedHandler_RequiresPrincipal(t *testing.T) {
	h := NewHandler(&fakeSeedService{}, &fakeAudit{},
		ratelimit.NewMemoryStore(5*time.Minute, 1), slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Seed(rec, seedRequestFor(t, "", "Pune"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSeedHandler_RequiresCityName(t *testing.T) {
	svc := &fakeSeedService{}
	h := NewHandler(svc, &fakeAudit{},
		ratelimit.NewMemoryStore(5*time.Minute, 1), slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Seed(rec, seedRequestFor(t, "admin@example.com", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, svc.calls)
}

func TestSeedHandler_AuditsFailedRun(t *testing.T) {
	svc := &fakeSeedService{err: errors.New("could not find city: Atlantis")}
	audit := &fakeAudit{}
	h := NewHandler(svc, audit, ratelimit.NewMemoryStore(5*time.Minute, 1), slog.New(slog.DiscardHandler))

	rec := httptest.NewRecorder()
	h.Seed(rec, seedRequestFor(t, "admin@example.com", "Atlantis"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, "seed_city_failed", audit.entries[0].Action)
}
