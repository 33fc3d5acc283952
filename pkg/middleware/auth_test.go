package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, email string, expiresAt time.Time) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func protectedHandler(t *testing.T, wantEmail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		email, ok := AdminEmailFromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantEmail, email)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAdminAuth_AcceptsValidToken(t *testing.T) {
	handler := AdminAuth(testSecret)(protectedHandler(t, "admin@example.com"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/seed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "admin@example.com", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAdminAuth_RejectsMissingToken(t *testing.T) {
	handler := AdminAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/seed", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuth_RejectsExpiredToken(t *testing.T) {
	handler := AdminAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/seed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, "admin@example.com", time.Now().Add(-time.Hour)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuth_RejectsWrongSecret(t *testing.T) {
	handler := AdminAuth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/seed", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other-secret"), "admin@example.com", time.Now().Add(time.Hour)))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequestID_GeneratesAndPropagates(t *testing.T) {
	var seen string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := RequestIDFromContext(r.Context())
		require.True(t, ok)
		seen = id
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cities", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
}

func TestRequestID_HonorsCallerID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := RequestIDFromContext(r.Context())
		assert.Equal(t, "caller-id", id)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cities", nil)
	req.Header.Set("X-Request-ID", "caller-id")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, "caller-id", rec.Header().Get("X-Request-ID"))
}
