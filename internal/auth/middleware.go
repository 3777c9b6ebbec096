package auth

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
)

type contextKey struct{}

var userIDKey contextKey

// UserIDFromContext returns the authenticated user ID set by Middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}

// Middleware rejects requests without a valid Bearer token and stores
// the token's user ID on the request context.
func Middleware(tokens *TokenManager, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, found := strings.CutPrefix(header, "Bearer ")
			if !found || tokenString == "" {
				unauthorized(w, "Missing bearer token")
				return
			}

			userID, err := tokens.Verify(tokenString)
			if err != nil {
				logger.Warn("Token verification failed",
					slog.String("path", r.URL.Path),
					slog.String("error", err.Error()))
				unauthorized(w, "Invalid or expired token")
				return
			}

			next(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		}
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
