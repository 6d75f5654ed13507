package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"vincula/internal/domain"
)

const bearerPrefix = "Bearer"

type actorCtxKey struct{}

// ActorFromContext returns the authenticated actor placed there by Middleware.
func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorCtxKey{}).(domain.Actor)
	return actor, ok
}

// WithActor is used by tests to inject an actor without going through HTTP.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorCtxKey{}, actor)
}

// Middleware authenticates the request from its Bearer token and stores the
// acting identity in the request context. Requests without a valid token are
// rejected before reaching any handler.
func Middleware(tokens *TokenManager, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				writeUnauthorized(w, "missing authorization header")
				return
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || parts[0] != bearerPrefix {
				writeUnauthorized(w, "authorization header is not a bearer token")
				return
			}

			actor, err := tokens.Parse(parts[1])
			if err != nil {
				logger.Warn("rejected token", zap.Error(err))
				writeUnauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), actorCtxKey{}, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{
		"status":    http.StatusUnauthorized,
		"code":      "UNAUTHORIZED",
		"message":   message,
		"timestamp": time.Now().UTC(),
	})
}
