package controllers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pricing-engine/pkg/config"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthLive(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "dev"}}
	resp := httptest.NewRecorder()
	HealthLive(cfg).ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "dev", resp.Header().Get(envHeader))
	assert.Equal(t, "live", decodeData(t, resp)["status"])
}

func TestHealthReady(t *testing.T) {
	cfg := &config.Config{App: config.AppConfig{Env: "prod"}}
	ok := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("dial tcp: refused") })

	t.Run("all dependencies up", func(t *testing.T) {
		resp := httptest.NewRecorder()
		HealthReady(cfg, testLogger(), map[string]Pinger{"db": ok, "redis": nil}).
			ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusOK, resp.Code)
		data := decodeData(t, resp)
		assert.Equal(t, "ready", data["status"])
		assert.Equal(t, map[string]any{"db": "ok"}, data["checks"])
	})

	t.Run("dependency down", func(t *testing.T) {
		resp := httptest.NewRecorder()
		HealthReady(cfg, testLogger(), map[string]Pinger{"db": ok, "redis": down}).
			ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

		require.Equal(t, http.StatusServiceUnavailable, resp.Code)
		apiErr := decodeError(t, resp)
		assert.Equal(t, "DEPENDENCY_ERROR", apiErr.Code)
		assert.Equal(t, map[string]any{"checks": map[string]any{"db": "ok", "redis": "unavailable"}}, apiErr.Details)
	})
}
