package health

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passing() CheckFunc {
	return func(_ context.Context) error { return nil }
}

func failing(msg string) CheckFunc {
	return func(_ context.Context) error { return errors.New(msg) }
}

func probe(t *testing.T, endpoint http.HandlerFunc, path string) (*httptest.ResponseRecorder, probeResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	endpoint(w, req)

	var body probeResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return w, body
}

func TestLiveEndpoint(t *testing.T) {
	t.Run("all passing", func(t *testing.T) {
		h := New()
		h.AddLivenessCheck("one", time.Second, passing())
		h.AddLivenessCheck("two", time.Second, passing())

		w, body := probe(t, h.LiveEndpoint, "/livez")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("failing check reported", func(t *testing.T) {
		h := New()
		h.AddLivenessCheck("db", time.Second, failing("connection refused"))

		w, body := probe(t, h.LiveEndpoint, "/livez")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Equal(t, "unhealthy", body.Status)
		assert.Equal(t, "connection refused", body.Checks["db"])
	})

	t.Run("no checks is healthy", func(t *testing.T) {
		h := New()
		w, _ := probe(t, h.LiveEndpoint, "/livez")
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestReadyEndpoint(t *testing.T) {
	t.Run("ready and passing", func(t *testing.T) {
		h := New()
		h.AddReadinessCheck("cache", time.Second, passing())
		h.SetReady(true)

		w, body := probe(t, h.ReadyEndpoint, "/readyz")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok", body.Status)
	})

	t.Run("not ready until SetReady", func(t *testing.T) {
		h := New()
		h.AddReadinessCheck("cache", time.Second, passing())

		w, body := probe(t, h.ReadyEndpoint, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, body.Checks, "_readiness")
	})

	t.Run("drain flips it back", func(t *testing.T) {
		h := New()
		h.SetReady(true)

		w, _ := probe(t, h.ReadyEndpoint, "/readyz")
		assert.Equal(t, http.StatusOK, w.Code)

		h.SetReady(false)
		w, _ = probe(t, h.ReadyEndpoint, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("one failing check among many", func(t *testing.T) {
		h := New()
		h.AddReadinessCheck("db", time.Second, passing())
		h.AddReadinessCheck("cache", time.Second, failing("cache down"))
		h.SetReady(true)

		w, body := probe(t, h.ReadyEndpoint, "/readyz")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, body.Checks, "cache")
		assert.NotContains(t, body.Checks, "db")
	})
}

func TestIsReady(t *testing.T) {
	h := New()
	assert.False(t, h.IsReady())

	h.SetReady(true)
	assert.True(t, h.IsReady())

	h.SetReady(false)
	assert.False(t, h.IsReady())
}

func TestGoroutineCountCheck(t *testing.T) {
	assert.NoError(t, GoroutineCountCheck(100000)(context.Background()))

	err := GoroutineCountCheck(0)(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds threshold")
}
