package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/theweekendworld-engg/trip-gennie/pkg/httpx"
)

const adminEmailKey contextKey = "admin_email"

// AdminEmailFromContext returns the authenticated admin principal set by
// AdminAuth.
func AdminEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(adminEmailKey).(string)
	return email, ok
}

// WithAdminEmail returns a context carrying the admin principal.
func WithAdminEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, adminEmailKey, email)
}

type adminClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// AdminAuth verifies the bearer token on admin routes and stashes the admin
// email in the request context. Tokens are HMAC signed with the shared secret.
func AdminAuth(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			email, err := verifyBearer(r.Header.Get("Authorization"), secret)
			if err != nil {
				httpx.JSON(w, http.StatusUnauthorized,
					httpx.ErrorResponse{Error: "unauthorized"})
				return
			}

			ctx := context.WithValue(r.Context(), adminEmailKey, email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func verifyBearer(header string, secret []byte) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", fmt.Errorf("missing bearer token")
	}

	claims := &adminClaims{}
	token, err := jwt.ParseWithClaims(strings.TrimPrefix(header, prefix), claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return secret, nil
		})
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid || claims.Email == "" {
		return "", fmt.Errorf("invalid token claims")
	}

	return claims.Email, nil
}
