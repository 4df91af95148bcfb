package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/djibril1212/EasyBooking/pkg/auth"
	"github.com/djibril1212/EasyBooking/pkg/logger"
)

const UserIDKey contextKey = "user_id"

// Authentication verifies the bearer token and stores the authenticated
// user id in the request context. Handlers never trust a
// client-supplied user id; they always read it from the context.
//
// Paths listed in skip are reachable without a token (register, login).
func Authentication(issuer *auth.TokenIssuer, log *logger.Logger, skip ...string) func(http.Handler) http.Handler {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := skipped[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			token := bearerToken(r)
			if token == "" {
				writeUnauthorized(w, "Missing bearer token")
				return
			}

			claims, err := issuer.Verify(token)
			if err != nil {
				log.Warn("Token verification failed",
					"request_id", RequestIDFromContext(r.Context()),
					"path", r.URL.Path,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserIDFromContext returns the authenticated user id, or an empty
// string when the request was not authenticated.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(UserIDKey).(string); ok {
		return id
	}
	return ""
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeUnauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}
