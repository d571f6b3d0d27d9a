package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/meetscheduler/internal/instrumentation"
	"github.com/teemow/meetscheduler/internal/logging"
)

func TestParseBearer(t *testing.T) {
	tests := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer abc", "abc", true},
		{"bearer abc", "abc", true},
		{"  Bearer   abc  ", "abc", true},
		{"Bearer", "", false},
		{"Bearer ", "", false},
		{"Basic abc", "", false},
		{"", "", false},
		{"abc", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, ok := parseBearer(tt.header)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRequireBearer_StoresToken(t *testing.T) {
	var got string
	h := requireBearer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = bearerToken(r.Context())
	}))

	rec := do(t, h, http.MethodPost, "/", "tok-123", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "tok-123", got)
}

func TestWithRequestID(t *testing.T) {
	var gotID, gotTransport string
	h := withRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = instrumentation.RequestIDFromContext(r.Context())
		gotTransport = instrumentation.TransportFromContext(r.Context())
	}))

	t.Run("generated", func(t *testing.T) {
		rec := do(t, h, http.MethodGet, "/", "", "")
		assert.Len(t, gotID, 36)
		assert.Equal(t, gotID, rec.Header().Get(RequestIDHeader))
		assert.Equal(t, instrumentation.TransportHTTP, gotTransport)
	})

	t.Run("echoed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "req-42")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, "req-42", gotID)
		assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	})
}

func TestWithSecurityHeaders(t *testing.T) {
	s := newTestHTTPServer(t, &fakeCalendar{}, HTTPServerConfig{})

	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-referrer", rec.Header().Get("Referrer-Policy"))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestWithRecovery(t *testing.T) {
	h := withRecovery(logging.Discard(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := do(t, h, http.MethodGet, "/", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, internalErrorMessage, decodeError(t, rec))
}

func TestWithRateLimit(t *testing.T) {
	s := newTestHTTPServer(t, &fakeCalendar{}, HTTPServerConfig{RateLimit: 1, RateBurst: 2})

	for i := 0; i < 2; i++ {
		rec := do(t, s.Handler(), http.MethodGet, "/healthz", "", "")
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := do(t, s.Handler(), http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestWithInstrumentation_RecordsMetrics(t *testing.T) {
	reader := metric.NewManualReader()
	meter := metric.NewMeterProvider(metric.WithReader(reader)).Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	require.NoError(t, err)

	s := newTestHTTPServer(t, &fakeCalendar{}, HTTPServerConfig{Metrics: metrics})
	do(t, s.Handler(), http.MethodGet, "/api/time-slots?date=2024-01-02", "", "")
	do(t, s.Handler(), http.MethodGet, "/wp-login.php", "", "")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	paths := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "http_requests_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok)
			for _, dp := range sum.DataPoints {
				path, _ := dp.Attributes.Value("path")
				status, _ := dp.Attributes.Value("status")
				paths[path.AsString()+" "+status.AsString()] += dp.Value
			}
		}
	}
	assert.Equal(t, int64(1), paths["/api/time-slots 200"])
	assert.Equal(t, int64(1), paths["other 404"])
}
