package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/teemow/meetscheduler/internal/calendar"
	"github.com/teemow/meetscheduler/internal/google"
	"github.com/teemow/meetscheduler/internal/logging"
	"github.com/teemow/meetscheduler/internal/meeting"
)

const testToken = "ya29.server-test-token"

var fixedNow = time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)

// fakeCalendar is a minimal Google Calendar events endpoint.
type fakeCalendar struct {
	mu       sync.Mutex
	requests []string
	tokens   []string
	bodies   []map[string]any

	createStatus int
	createBody   string
}

func (f *fakeCalendar) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	f.tokens = append(f.tokens, strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))

	switch r.Method {
	case http.MethodPost:
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.bodies = append(f.bodies, body)

		w.Header().Set("Content-Type", "application/json")
		if f.createStatus != 0 {
			w.WriteHeader(f.createStatus)
			_, _ = w.Write([]byte(f.createBody))
			return
		}
		_, _ = w.Write([]byte(`{"id":"evt-1","hangoutLink":"https://meet.google.com/abc-defg-hij"}`))
	case http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeCalendar) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

// newTestServerContext wires a meeting service against fake.
func newTestServerContext(t *testing.T, fake *fakeCalendar, sessions google.SessionProvider) *ServerContext {
	t.Helper()

	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	client := calendar.NewClient(calendar.WithEndpoint(srv.URL+"/"), calendar.WithHTTPClient(srv.Client()))
	svc, err := meeting.NewService(client, meeting.Config{TimeZone: "UTC"},
		meeting.WithClock(func() time.Time { return fixedNow }),
		meeting.WithLogger(logging.Discard()),
	)
	require.NoError(t, err)

	sc, err := NewServerContext(context.Background(), svc, sessions)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func newTestHTTPServer(t *testing.T, fake *fakeCalendar, config HTTPServerConfig) *HTTPServer {
	t.Helper()
	if config.Logger == nil {
		config.Logger = logging.Discard()
	}
	s, err := NewHTTPServer(newTestServerContext(t, fake, nil), config)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, h http.Handler, method, target, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}
