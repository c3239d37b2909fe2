package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

type contextKey string

const WorkspaceKey contextKey = "workspace"

// APIKeyAuth validates the bearer key against the key configured for the
// {workspace} URL parameter, so it must be mounted inside the workspace route.
// With no keys configured every request passes.
func APIKeyAuth(keys map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			workspace := chi.URLParam(r, "workspace")
			if err := ValidateWorkspaceID(workspace); err != nil {
				WriteError(w, http.StatusBadRequest, err.Error())
				return
			}
			if len(keys) == 0 {
				next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), WorkspaceKey, workspace)))
				return
			}

			auth := r.Header.Get("Authorization")
			if auth == "" {
				WriteError(w, http.StatusUnauthorized, "missing Authorization header")
				return
			}
			// "Bearer <key>" and bare "<key>" are both accepted
			apiKey := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			if apiKey == "" {
				WriteError(w, http.StatusUnauthorized, "invalid Authorization header format")
				return
			}

			expected, ok := keys[workspace]
			if !ok || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
				WriteError(w, http.StatusUnauthorized, "invalid API key")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), WorkspaceKey, workspace)))
		})
	}
}

// WorkspaceFromContext returns the workspace stored by APIKeyAuth
func WorkspaceFromContext(ctx context.Context) string {
	if ws, ok := ctx.Value(WorkspaceKey).(string); ok {
		return ws
	}
	return ""
}
