package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/mzielinski/habitloop/internal/auth"
)

// RequireAuth validates the Authorization bearer token and puts the user id
// on the request context. Requests without a valid token get 401 JSON.
func RequireAuth(tokens *auth.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := bearerToken(r)
			if tokenStr == "" {
				unauthorized(w, "missing authorization token")
				return
			}

			userID, err := tokens.Validate(tokenStr)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := auth.WithUserID(r.Context(), userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
