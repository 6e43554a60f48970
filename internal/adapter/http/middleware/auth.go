package middleware

import (
	"net/http"
	"strings"

	"github.com/cafehenola/ledger/internal/domain"
	"github.com/cafehenola/ledger/internal/infrastructure/auth"
	"github.com/cafehenola/ledger/internal/infrastructure/metrics"
)

// AuthMiddleware resolves the Bearer token into a domain.User and attaches
// it to the request context. The ledger never issues tokens, it only
// verifies them.
func AuthMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				authFailure(m, "missing_header")
				http.Error(w, "missing authorization header", http.StatusUnauthorized)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				authFailure(m, "malformed_header")
				http.Error(w, "invalid authorization header format", http.StatusUnauthorized)
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				authFailure(m, "invalid_token")
				http.Error(w, "invalid or expired token", http.StatusUnauthorized)
				return
			}

			user := &domain.User{
				ID:   claims.UserID,
				Name: claims.Name,
				Role: claims.Role,
			}

			next.ServeHTTP(w, r.WithContext(domain.ContextWithUser(r.Context(), user)))
		})
	}
}

// RequireWrite rejects callers whose role cannot create obligations,
// movements or liquidations.
func RequireWrite(next http.Handler) http.Handler {
	return requirePermission(next, domain.Role.CanWrite)
}

// RequireVoid rejects callers whose role cannot void movements,
// liquidations or obligation statuses.
func RequireVoid(next http.Handler) http.Handler {
	return requirePermission(next, domain.Role.CanVoid)
}

func requirePermission(next http.Handler, allowed func(domain.Role) bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := domain.UserFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		if !allowed(user.Role) {
			http.Error(w, "insufficient permissions", http.StatusForbidden)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func authFailure(m *metrics.Metrics, reason string) {
	if m != nil {
		m.AuthFailures.WithLabelValues(reason).Inc()
	}
}
