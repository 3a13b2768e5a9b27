package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/ndavydov/loan-service/internal/config"
	"github.com/ndavydov/loan-service/internal/models"
	"github.com/ndavydov/loan-service/internal/scope"
)

type contextKey struct{}

var callerKey contextKey

// AuthMiddleware rejects requests without a valid bearer token and attaches
// the resolved caller to the request context.
func AuthMiddleware(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			caller, err := ResolveCaller(r, cfg)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
		})
	}
}

// OptionalAuth attaches a caller to the context when a valid bearer token is
// present, but never rejects the request. Used for routes that accept either
// a session or an out-of-band credential, such as the scan trigger.
func OptionalAuth(cfg *config.Config) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if caller, err := ResolveCaller(r, cfg); err == nil {
				r = r.WithContext(WithCaller(r.Context(), caller))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ResolveCaller parses the Authorization bearer token into a caller identity.
func ResolveCaller(r *http.Request, cfg *config.Config) (scope.Caller, error) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return scope.Caller{}, fmt.Errorf("missing bearer token")
	}
	tokenString := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return scope.Caller{}, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return scope.Caller{}, fmt.Errorf("invalid claims")
	}
	sub, _ := claims["sub"].(string)
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil {
		return scope.Caller{}, fmt.Errorf("invalid subject: %w", err)
	}
	username, _ := claims["username"].(string)
	role, _ := claims["role"].(string)

	return scope.Caller{
		ID:       id,
		Username: username,
		Role:     models.ParseRole(role),
	}, nil
}

// WithCaller attaches a caller to the context.
func WithCaller(ctx context.Context, caller scope.Caller) context.Context {
	return context.WithValue(ctx, callerKey, caller)
}

// CallerFromContext extracts the caller set by AuthMiddleware.
func CallerFromContext(ctx context.Context) (scope.Caller, bool) {
	caller, ok := ctx.Value(callerKey).(scope.Caller)
	return caller, ok
}
