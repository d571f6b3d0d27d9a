package server

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthChecker_Liveness(t *testing.T) {
	h := NewHealthChecker(nil, "test")
	h.SetReady(false)

	rec := do(t, h.LivenessHandler(), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHealthChecker_Readiness(t *testing.T) {
	sc := newTestServerContext(t, &fakeCalendar{}, nil)
	h := NewHealthChecker(sc, "test")

	rec := do(t, h.ReadinessHandler(), http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	h.SetReady(false)
	rec = do(t, h.ReadinessHandler(), http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, healthStatusNotReady, resp.Status)
	assert.Equal(t, healthStatusNotReady, resp.Checks["ready"])

	h.SetReady(true)
	require.NoError(t, sc.Shutdown())
	rec = do(t, h.ReadinessHandler(), http.MethodGet, "/readyz", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHealthChecker_Detailed(t *testing.T) {
	sc := newTestServerContext(t, &fakeCalendar{}, nil)
	h := NewHealthChecker(sc, "v1.2.3")

	rec := do(t, h.DetailedHealthHandler(), http.MethodGet, "/healthz/detailed", "", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp DetailedHealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, healthStatusOK, resp.Status)
	assert.Equal(t, "v1.2.3", resp.Version)
	assert.Equal(t, "UTC", resp.TimeZone)
	assert.NotEmpty(t, resp.Uptime)

	require.NoError(t, sc.Shutdown())
	rec = do(t, h.DetailedHealthHandler(), http.MethodGet, "/healthz/detailed", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, healthStatusShuttingDown, resp.Status)
}
