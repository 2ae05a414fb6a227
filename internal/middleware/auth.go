package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/AnshRaj112/codinglearn-backend/internal/services"
)

type contextKey string

const userIDKey contextKey = "userID"

// TokenVerifier resolves a session token to its subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

var _ TokenVerifier = (*services.TokenService)(nil)

// RequireAuth rejects requests without a valid bearer token with 401 and
// stores the token subject in the request context otherwise. Whether the
// subject still exists is up to the handler.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				unauthorized(w, "Authentication required")
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				slog.DebugContext(r.Context(), "token rejected", "error", err)
				unauthorized(w, "Session expired. Please sign in again.")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
		})
	}
}

// UserIDFromContext returns the subject set by RequireAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// ExtractBearerToken returns the token of a "Bearer <token>" header value.
func ExtractBearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
