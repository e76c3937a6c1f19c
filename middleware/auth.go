package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"mlb-streak-go/models"
	"mlb-streak-go/services"
)

// ProfileContextKey is the key type used to store the profile in request context
type ProfileContextKey string

const ProfileKey ProfileContextKey = "profile"

// AuthMiddleware handles JWT authentication for the API
type AuthMiddleware struct {
	authService *services.AuthService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{
		authService: authService,
	}
}

// RequireAuth rejects requests without a valid Bearer token
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		profile, err := m.getProfileFromRequest(r)
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":"unauthorized"}`))
			return
		}

		ctx := context.WithValue(r.Context(), ProfileKey, profile)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getProfileFromRequest extracts and validates the profile from the request
func (m *AuthMiddleware) getProfileFromRequest(r *http.Request) (*models.UserProfile, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, errors.New("missing authorization header")
	}

	// Expected format: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, errors.New("malformed authorization header")
	}

	return m.authService.GetProfileFromToken(r.Context(), parts[1])
}

// GetProfileFromContext retrieves the authenticated profile from request context
func GetProfileFromContext(r *http.Request) (*models.UserProfile, bool) {
	profile, ok := r.Context().Value(ProfileKey).(*models.UserProfile)
	return profile, ok
}
