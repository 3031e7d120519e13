// Package middleware provides HTTP middleware for admin authentication.
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// adminIDKey is the context key for storing the authenticated admin ID.
const adminIDKey ContextKey = "adminID"

// TokenValidator is an interface for validating JWT tokens.
// This allows the middleware to work with any JWT service implementation.
type TokenValidator interface {
	ValidateToken(tokenString string) (AdminIDGetter, error)
}

// AdminIDGetter is an interface for extracting the admin ID from token claims.
type AdminIDGetter interface {
	GetAdminID() uuid.UUID
}

// AuthMiddleware creates middleware that validates JWT tokens and adds the
// admin ID to the request context.
func AuthMiddleware(jwtService TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			// Parse Bearer token, case-insensitive prefix
			parts := strings.Fields(authHeader)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			claims, err := jwtService.ValidateToken(tokenString)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, claims.GetAdminID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetAdminID extracts the authenticated admin ID from the request context.
func GetAdminID(r *http.Request) (uuid.UUID, error) {
	adminID, ok := r.Context().Value(adminIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fmt.Errorf("admin ID not found in request context")
	}
	return adminID, nil
}

// AdminIDKey returns the context key for the admin ID (for testing purposes).
func AdminIDKey() ContextKey {
	return adminIDKey
}
