package middleware

import (
	"encoding/json"
	"net/http"
	"strings"

	"fasms/internal/auth"
	"fasms/internal/store"
)

// RequireAuth validates the Authorization bearer token, checks that the
// administrator it names still exists and is active, and populates the
// request context with the Principal.
func RequireAuth(tokens *auth.TokenManager, admins *store.AdministratorStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenString, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenString == "" {
				unauthorized(w, "missing or malformed Authorization header")
				return
			}

			username, err := tokens.Verify(tokenString)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			admin, err := admins.GetByUsername(username)
			if err != nil || admin == nil || !admin.IsActive {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := auth.WithPrincipal(r.Context(), auth.Principal{
				AdminID:  admin.ID,
				Username: admin.Username,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
