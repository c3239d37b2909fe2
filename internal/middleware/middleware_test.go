package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func workspaceRouter(mw ...func(http.Handler) http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Route("/v1/{workspace}", func(rt chi.Router) {
		rt.Use(mw...)
		rt.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(WorkspaceFromContext(r.Context())))
		})
	})
	return r
}

func TestAPIKeyAuth(t *testing.T) {
	h := workspaceRouter(APIKeyAuth(map[string]string{"acme": "key-acme", "globex": "key-globex"}))

	tests := []struct {
		name   string
		path   string
		header string
		status int
	}{
		{"valid bearer", "/v1/acme/ping", "Bearer key-acme", http.StatusOK},
		{"bare key", "/v1/acme/ping", "key-acme", http.StatusOK},
		{"missing header", "/v1/acme/ping", "", http.StatusUnauthorized},
		{"other workspace key", "/v1/acme/ping", "Bearer key-globex", http.StatusUnauthorized},
		{"unknown workspace", "/v1/initech/ping", "Bearer key-acme", http.StatusUnauthorized},
		{"bad workspace", "/v1/a$b/ping", "Bearer key-acme", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "acme", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"error"`)
			}
		})
	}
}

func TestAPIKeyAuth_DisabledWithoutKeys(t *testing.T) {
	h := workspaceRouter(APIKeyAuth(nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/acme/ping", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(1, 2)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	h := workspaceRouter(APIKeyAuth(nil), RateLimit(rl))

	do := func(ws, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/"+ws+"/ping", nil)
		req.RemoteAddr = ip + ":1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do("acme", "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, do("acme", "10.0.0.1").Code)
	limited := do("acme", "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.Equal(t, "1", limited.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do("globex", "10.0.0.1").Code, "buckets are per workspace")
	assert.Equal(t, http.StatusOK, do("acme", "10.0.0.2").Code, "buckets are per client")

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, do("acme", "10.0.0.1").Code)
}

func TestRateLimiter_SweepsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(10, 10)
	now := time.Now()
	rl.now = func() time.Time { return now }

	rl.Allow("a")
	now = now.Add(idleTTL + sweepInterval + time.Second)
	rl.Allow("b")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.visitors, "a")
	assert.Contains(t, rl.visitors, "b")
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := RequestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/acme/analyses/x", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	assert.Equal(t, int64(http.StatusNotFound), entry.ContextMap()["status"])
	assert.Equal(t, "/v1/acme/analyses/x", entry.ContextMap()["path"])
}

func TestHealthHandler(t *testing.T) {
	ok := CheckFunc(func(ctx context.Context) error { return nil })
	bad := CheckFunc(func(ctx context.Context) error { return errors.New("connection refused") })

	rec := httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"database": ok})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	rec = httptest.NewRecorder()
	HealthHandler(map[string]HealthChecker{"database": ok, "redis": bad})(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection refused")
}

type ideaBody struct {
	Title       string   `json:"title" validate:"required,max=10"`
	Description string   `json:"description" validate:"required"`
	Tags        []string `json:"tags" validate:"max=2"`
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(ideaBody{Title: "t", Description: "d"}))

	err := v.Validate(ideaBody{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title is required")
	assert.Contains(t, err.Error(), "description is required")

	err = v.Validate(ideaBody{Title: "a very long title", Description: "d", Tags: []string{"a", "b", "c"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "title must be at most 10 characters")
	assert.Contains(t, err.Error(), "tags must have at most 2 items")
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello\tworld\nok", SanitizeString("  hel\x00lo\tworld\n\x07ok\x7f  "))
	assert.Equal(t, "", SanitizeString(" \x01\x02 "))
}

func TestValidateLimitAndPage(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 100, ValidateLimit(500))
	assert.Equal(t, 7, ValidateLimit(7))
	assert.Equal(t, 1, ValidatePage(-3))
	assert.Equal(t, 4, ValidatePage(4))
}
