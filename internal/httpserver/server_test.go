package httpserver

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/answer-sessions/internal/config"
	"github.com/PratikDhanave/answer-sessions/internal/generator"
	"github.com/PratikDhanave/answer-sessions/internal/store"
)

func testConfig() config.Config {
	g := generator.DefaultConfig()
	return config.Config{
		APIKeys: map[string]string{"tenant-key-123": "tenant1"},
		Generator: config.GeneratorConfig{
			Year:              g.Year,
			MaxSessionsPerDay: 2,
			Seed:              "5",
			Users:             g.Users,
			Events:            g.Events,
		},
	}
}

func get(r http.Handler, path, apiKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if apiKey != "" {
		req.Header.Set("X-API-Key", apiKey)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// Health endpoint = liveness check (server process running).
func TestHealth_ReturnsOK(t *testing.T) {
	r, err := NewRouter(testConfig(), store.NewMemoryStore(), nil, nil)
	require.NoError(t, err)

	w := get(r, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

// Ready endpoint = dependency readiness (DB reachable).
func TestReady(t *testing.T) {
	st := store.NewMemoryStore()
	r, err := NewRouter(testConfig(), st, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, get(r, "/ready", "").Code)

	st.PingErr = errors.New("db down")
	w := get(r, "/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "db down")
}

func TestAuthenticatedRoutes_RequireKey(t *testing.T) {
	r, err := NewRouter(testConfig(), store.NewMemoryStore(), nil, nil)
	require.NoError(t, err)

	for _, path := range []string{"/sessions", "/analytics/top-users", "/analytics/answers-per-session", "/synthetic"} {
		assert.Equal(t, http.StatusUnauthorized, get(r, path, "").Code, path)
		assert.Equal(t, http.StatusOK, get(r, path, "tenant-key-123").Code, path)
	}
}

func TestSynthetic_UsesConfiguredSeed(t *testing.T) {
	r, err := NewRouter(testConfig(), store.NewMemoryStore(), nil, nil)
	require.NoError(t, err)

	a := get(r, "/synthetic", "tenant-key-123")
	b := get(r, "/synthetic", "tenant-key-123")
	require.Equal(t, http.StatusOK, a.Code)
	assert.Equal(t, a.Body.String(), b.Body.String())
}

func TestPrometheusEndpoint(t *testing.T) {
	r, err := NewRouter(testConfig(), store.NewMemoryStore(), nil, nil)
	require.NoError(t, err)

	get(r, "/health", "")
	w := get(r, "/metrics/prometheus", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `sessions_http_request_duration_seconds_count{method="GET",route="/health",status="200"} 1`))
}

func TestNewRouter_InvalidGeneratorConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Generator.MaxSessionsPerDay = 0
	_, err := NewRouter(cfg, store.NewMemoryStore(), nil, nil)
	assert.Error(t, err)
}
