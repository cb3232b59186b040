package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voice-agent/internal/common/logger"
)

func get(t *testing.T, h http.Handler, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]interface{}
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	ops := NewOps(logger.NewTestLogger(t), nil)
	rec, body := get(t, ops.Router(), "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", body["status"])
}

func TestReady(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		ops := NewOps(logger.NewTestLogger(t), nil)
		ops.AddCheck("redis", func(context.Context) error { return nil })
		ops.AddCheck("zeebe", func(context.Context) error { return nil })

		rec, body := get(t, ops.Router(), "/ready")

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "ready", body["status"])
		assert.Equal(t, map[string]interface{}{"redis": "ok", "zeebe": "ok"}, body["checks"])
	})

	t.Run("one check fails", func(t *testing.T) {
		ops := NewOps(logger.NewTestLogger(t), nil)
		ops.AddCheck("redis", func(context.Context) error { return errors.New("connection refused") })
		ops.AddCheck("zeebe", func(context.Context) error { return nil })

		rec, body := get(t, ops.Router(), "/ready")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.Equal(t, "not_ready", body["status"])
		checks := body["checks"].(map[string]interface{})
		assert.Equal(t, "connection refused", checks["redis"])
		assert.Equal(t, "ok", checks["zeebe"])
	})
}

func TestStats(t *testing.T) {
	ops := NewOps(logger.NewTestLogger(t), func() map[string]int {
		return map[string]int{"total": 3, "active": 2}
	})
	rec, body := get(t, ops.Router(), "/stats")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(3), body["total"])
	assert.Equal(t, float64(2), body["active"])
}

func TestMetrics(t *testing.T) {
	ops := NewOps(logger.NewTestLogger(t), nil)
	rec := httptest.NewRecorder()
	ops.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
