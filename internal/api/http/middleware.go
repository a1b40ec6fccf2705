package http

import (
	"context"
	"net/http"
	"strings"

	"rentinspect-backend/internal/domain"
	"rentinspect-backend/internal/security"
)

type contextKey string

const actorKey contextKey = "actor"

// AuthMiddleware validates the bearer token and stashes the acting
// identity in the request context. Handlers pass it to the services
// explicitly; nothing below the gateway reads the token.
func AuthMiddleware(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, domain.NewError(domain.KindForbidden, "missing bearer token"))
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, domain.NewError(domain.KindForbidden, "invalid or expired token"))
				return
			}
			ctx := context.WithValue(r.Context(), actorKey, claims.Actor())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func actorFrom(r *http.Request) domain.Actor {
	actor, _ := r.Context().Value(actorKey).(domain.Actor)
	return actor
}
